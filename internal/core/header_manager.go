package core

import (
	"fmt"
	"net/http"

	"github.com/RecoveryAshes/ikmanscraper/internal/config"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
)

// DefaultUserAgent 桌面Chrome的User-Agent, ikman.lk对非浏览器UA返回精简页面
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/122.0.0.0 Safari/537.36"

// HeaderManager 合并三层请求头: 内置默认 < headers.yaml < 命令行 -H
type HeaderManager struct {
	defaults http.Header
	file     http.Header
	cli      http.Header

	validator  *utils.HeaderValidator
	redactor   *utils.HeaderRedactor
	headerFile *config.HeaderFile
	loaded     bool
}

// NewHeaderManager 创建头部管理器
// configFile为空时使用 configs/headers.yaml; cliHeaders为 "Name: Value" 形式
func NewHeaderManager(configFile string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	return &HeaderManager{
		defaults:   defaultHeaders(),
		file:       make(http.Header),
		cli:        cli,
		validator:  utils.NewHeaderValidator(),
		redactor:   utils.NewHeaderRedactor(),
		headerFile: config.NewHeaderFile(configFile),
	}, nil
}

// defaultHeaders 浏览器风格的默认头部
func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{DefaultUserAgent},
		"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language": []string{"en-US,en;q=0.9"},
		"Accept-Encoding": []string{"gzip, deflate, br"},
	}
}

// ConfigPath headers.yaml路径
func (hm *HeaderManager) ConfigPath() string {
	return hm.headerFile.Path()
}

// LoadConfig 读取headers.yaml, 只读取一次
func (hm *HeaderManager) LoadConfig() error {
	if hm.loaded {
		return nil
	}

	file, err := hm.headerFile.Load()
	if err != nil {
		return err
	}
	hm.file = file
	hm.loaded = true

	if len(hm.file) > 0 {
		utils.Debugf("从 %s 加载了 %d 个HTTP头部: %v", hm.ConfigPath(), len(hm.file), hm.redactor.Redact(hm.file))
	}
	return nil
}

// Validate 按 默认 → 文件 → 命令行 的顺序验证
func (hm *HeaderManager) Validate() error {
	layers := []struct {
		name    string
		headers http.Header
	}{
		{"默认", hm.defaults},
		{"配置文件", hm.file},
		{"命令行", hm.cli},
	}
	for _, layer := range layers {
		if err := hm.validator.Validate(layer.headers); err != nil {
			return fmt.Errorf("%s头部验证失败: %w", layer.name, err)
		}
	}
	return nil
}

// GetMergedHeaders 按优先级合并, 同名头部由高优先级整体替换
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	merged := make(http.Header)
	for _, layer := range []http.Header{hm.defaults, hm.file, hm.cli} {
		for name, values := range layer {
			merged[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
		}
	}
	return merged
}

// GetSafeHeaders 脱敏后的合并结果, 用于日志和 --validate-config 输出
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	return hm.redactor.Redact(hm.GetMergedHeaders())
}

// GetHeaders 加载、验证并返回合并后的头部
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	if err := hm.LoadConfig(); err != nil {
		return nil, err
	}
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	return hm.GetMergedHeaders(), nil
}

// Apply 把合并后的头部写入抓取配置
func (hm *HeaderManager) Apply(cfg *models.ScrapeConfig) error {
	headers, err := hm.GetHeaders()
	if err != nil {
		return err
	}
	cfg.Headers = headers
	utils.Debugf("生效的HTTP头部: %v", hm.GetSafeHeaders())
	return nil
}
