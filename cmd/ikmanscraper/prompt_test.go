package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrompter_StartURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantOK  bool
		wantMsg string
	}{
		{"正常输入", "https://ikman.lk/en/ads/sri-lanka/mobile-phones\n", "https://ikman.lk/en/ads/sri-lanka/mobile-phones", true, ""},
		{"去除首尾空白", "  https://ikman.lk/en/ads?page=2 \n", "https://ikman.lk/en/ads?page=2", true, ""},
		{"没有换行的最后一行", "https://ikman.lk", "https://ikman.lk", true, ""},
		{"空输入", "\n", "", false, msgNoURL},
		{"只有空白", "   \n", "", false, msgNoURL},
		{"EOF", "", "", false, msgNoURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, ok := NewPrompter(strings.NewReader(tt.input), &out).StartURL()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("StartURL() = (%q, %v), 期望 (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if !strings.HasPrefix(out.String(), startURLPrompt) {
				t.Errorf("应先输出提示, 实际: %q", out.String())
			}
			if tt.wantMsg != "" && !strings.Contains(out.String(), tt.wantMsg) {
				t.Errorf("期望输出 %q, 实际: %q", tt.wantMsg, out.String())
			}
		})
	}
}

func TestPrompter_PageCount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"正整数", "3\n", 3, true},
		{"带空白", " 12 \n", 12, true},
		{"零", "0\n", 0, false},
		{"负数", "-1\n", 0, false},
		{"非数字", "abc\n", 0, false},
		{"小数", "2.5\n", 0, false},
		{"空输入", "\n", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, ok := NewPrompter(strings.NewReader(tt.input), &out).PageCount()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("PageCount() = (%d, %v), 期望 (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
			if !tt.wantOK && !strings.Contains(out.String(), msgInvalidPages) {
				t.Errorf("无效输入应输出提示, 实际: %q", out.String())
			}
		})
	}
}

func TestPrompter_Sequential(t *testing.T) {
	// 两次询问共用同一个输入流
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("https://ikman.lk/en/ads\n4\n"), &out)

	url, ok := p.StartURL()
	if !ok || url != "https://ikman.lk/en/ads" {
		t.Fatalf("StartURL() = (%q, %v)", url, ok)
	}
	pages, ok := p.PageCount()
	if !ok || pages != 4 {
		t.Fatalf("PageCount() = (%d, %v)", pages, ok)
	}
}
