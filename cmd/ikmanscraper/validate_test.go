package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RecoveryAshes/ikmanscraper/internal/core"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
)

func TestValidateConfig(t *testing.T) {
	valid := func() *core.Config {
		return &core.Config{
			Scrape: models.DefaultScrapeConfig(),
			Output: core.OutputConfig{Dir: ".", Prefix: "phones"},
		}
	}

	tests := []struct {
		name    string
		modify  func(c *core.Config)
		wantErr bool
	}{
		{"默认配置", func(c *core.Config) {}, false},
		{"浏览器模式", func(c *core.Config) { c.Scrape.FetchMode = models.FetchModeBrowser }, false},
		{"无效模式", func(c *core.Config) { c.Scrape.FetchMode = "dynamic" }, true},
		{"超时为0", func(c *core.Config) { c.Scrape.TimeoutSeconds = 0 }, true},
		{"负的页数上限", func(c *core.Config) { c.Scrape.MaxPages = -1 }, true},
		{"空输出目录", func(c *core.Config) { c.Output.Dir = " " }, true},
		{"前缀包含路径", func(c *core.Config) { c.Output.Prefix = "a/b" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			if err := ValidateConfig(cfg); (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBatchFlags(t *testing.T) {
	tests := []struct {
		delay   int
		wantErr bool
	}{
		{0, false},
		{5, false},
		{-1, true},
		{3601, true},
	}
	for _, tt := range tests {
		if err := ValidateBatchFlags(tt.delay); (err != nil) != tt.wantErr {
			t.Errorf("ValidateBatchFlags(%d) error = %v, wantErr %v", tt.delay, err, tt.wantErr)
		}
	}
}

func TestPrintBatchSummary(t *testing.T) {
	var out bytes.Buffer
	printBatchSummary(&out, &core.BatchSummary{
		TotalURLs:    2,
		SuccessCount: 1,
		FailCount:    1,
		TotalRows:    7,
		Results: []core.BatchResult{
			{URL: "https://ikman.lk/a", OutputFile: "phones_1.csv", Success: true, Rows: 7},
			{URL: "https://ikman.lk/b", OutputFile: "phones_2.csv", Error: core.ErrNoPagesFetched},
		},
	})

	s := out.String()
	for _, want := range []string{"成功 1, 失败 1, 共写出 7 行", "https://ikman.lk/a -> phones_1.csv (7 行)", core.ErrNoPagesFetched.Error()} {
		if !strings.Contains(s, want) {
			t.Errorf("摘要缺少 %q:\n%s", want, s)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]string{"User-Agent": "x", "Accept": "y", "Cookie": "z"})
	want := []string{"Accept", "Cookie", "User-Agent"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sortedKeys() = %v, 期望 %v", got, want)
	}
}
