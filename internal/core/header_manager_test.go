package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
)

func tempHeadersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headers.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("写入测试配置失败: %v", err)
		}
	}
	return path
}

func TestHeaderManager_GetMergedHeaders(t *testing.T) {
	t.Run("默认头部", func(t *testing.T) {
		hm, err := NewHeaderManager(tempHeadersFile(t, ""), nil)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		headers := hm.GetMergedHeaders()
		if headers.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("默认User-Agent错误: %s", headers.Get("User-Agent"))
		}
		if headers.Get("Accept-Encoding") != "gzip, deflate, br" {
			t.Errorf("默认Accept-Encoding错误: %s", headers.Get("Accept-Encoding"))
		}
	})

	t.Run("命令行覆盖默认", func(t *testing.T) {
		hm, err := NewHeaderManager(tempHeadersFile(t, ""), []string{"User-Agent: CustomBot/1.0", "X-Custom: value1"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		headers := hm.GetMergedHeaders()
		if headers.Get("User-Agent") != "CustomBot/1.0" {
			t.Errorf("期望User-Agent='CustomBot/1.0', 实际='%s'", headers.Get("User-Agent"))
		}
		if headers.Get("X-Custom") != "value1" {
			t.Error("X-Custom未正确设置")
		}
	})
}

func TestHeaderManager_Priority(t *testing.T) {
	// 默认 < 配置文件 < 命令行
	path := tempHeadersFile(t, `headers:
  User-Agent: "FileBot/2.0"
  Accept-Language: "si-LK"
  Referer: "https://ikman.lk/"
`)

	hm, err := NewHeaderManager(path, []string{"Referer: https://ikman.lk/en/ads"})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	headers, err := hm.GetHeaders()
	if err != nil {
		t.Fatalf("GetHeaders失败: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"User-Agent", "FileBot/2.0"},
		{"Accept-Language", "si-LK"},
		{"Referer", "https://ikman.lk/en/ads"},
		{"Accept-Encoding", "gzip, deflate, br"},
	}
	for _, tt := range tests {
		if got := headers.Get(tt.name); got != tt.want {
			t.Errorf("%s = %q, 期望 %q", tt.name, got, tt.want)
		}
	}
}

func TestHeaderManager_GetSafeHeaders(t *testing.T) {
	hm, err := NewHeaderManager(tempHeadersFile(t, ""), []string{
		"Authorization: Bearer secret-token-12345",
		"Cookie: session=abcdefghijkl",
	})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	safe := hm.GetSafeHeaders()
	if safe["Authorization"] != "Bearer ***" {
		t.Errorf("期望Authorization='Bearer ***', 实际='%s'", safe["Authorization"])
	}
	if safe["Cookie"] == "session=abcdefghijkl" {
		t.Error("Cookie应该被脱敏")
	}
	if safe["User-Agent"] != DefaultUserAgent {
		t.Error("普通头部不应该被脱敏")
	}
}

func TestHeaderManager_Errors(t *testing.T) {
	t.Run("命令行格式错误", func(t *testing.T) {
		if _, err := NewHeaderManager("", []string{"InvalidFormat"}); err == nil {
			t.Error("期望返回错误, 但成功了")
		}
	})

	t.Run("禁止头部返回验证错误", func(t *testing.T) {
		hm, err := NewHeaderManager(tempHeadersFile(t, ""), []string{"Host: example.com"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		_, err = hm.GetHeaders()
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("期望ValidationError, 得到: %v", err)
		}
	})

	t.Run("配置文件格式错误", func(t *testing.T) {
		path := tempHeadersFile(t, "headers:\n  User-Agent: \"broken\n  X: y\n")
		hm, err := NewHeaderManager(path, nil)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		cfg := models.DefaultScrapeConfig()
		err = hm.Apply(&cfg)
		var cfgErr *models.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("期望ConfigError, 得到: %v", err)
		}
	})
}

func TestHeaderManager_Apply(t *testing.T) {
	path := tempHeadersFile(t, "")
	hm, err := NewHeaderManager(path, []string{"Accept-Language: en-LK"})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	cfg := models.DefaultScrapeConfig()
	if err := hm.Apply(&cfg); err != nil {
		t.Fatalf("Apply失败: %v", err)
	}
	if cfg.Headers.Get("Accept-Language") != "en-LK" || cfg.Headers.Get("User-Agent") != DefaultUserAgent {
		t.Errorf("头部未写入配置: %v", cfg.Headers)
	}

	// 首次使用时生成模板文件
	if _, err := os.Stat(path); err != nil {
		t.Errorf("应该生成headers.yaml模板: %v", err)
	}
}
