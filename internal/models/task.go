package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// 运行输入校验错误
var (
	ErrInvalidInput     = errors.New("无效输入")
	ErrEmptyStartURL    = fmt.Errorf("%w: 未输入起始URL", ErrInvalidInput)
	ErrInvalidPageCount = fmt.Errorf("%w: 页数必须是正整数", ErrInvalidInput)
	ErrEmptyOutputPath  = fmt.Errorf("%w: 输出文件路径不能为空", ErrInvalidInput)
)

// ScrapeState 抓取流程状态
type ScrapeState string

const (
	StateNotStarted   ScrapeState = "not_started"   // 未开始
	StateFetchingPage ScrapeState = "fetching_page" // 请求页面中
	StateParsingPage  ScrapeState = "parsing_page"  // 解析页面中
	StateWritingRows  ScrapeState = "writing_rows"  // 写出记录中
	StateDone         ScrapeState = "done"          // 已完成
)

// FetchMode 页面获取模式
type FetchMode string

const (
	FetchModeStatic  FetchMode = "static"  // Colly直接请求HTML
	FetchModeBrowser FetchMode = "browser" // go-rod无头浏览器渲染
)

// 默认值
const (
	DefaultTimeoutSeconds = 20
	DefaultSiteOrigin     = "https://ikman.lk"
	DefaultOutputPrefix   = "phones"
)

// ScrapeConfig 抓取配置
// 启动时一次性传入抓取器,运行期间不再修改
type ScrapeConfig struct {
	Headers            http.Header   `json:"-" mapstructure:"-"`                                       // 请求头部 (由HeaderManager合并)
	TimeoutSeconds     int           `json:"timeout_seconds" mapstructure:"timeout_seconds"`           // 单页请求超时(秒) (默认:20)
	InterPageDelay     time.Duration `json:"inter_page_delay" mapstructure:"inter_page_delay"`         // 页间延迟 (默认:0,不延迟)
	MaxPages           int           `json:"max_pages" mapstructure:"max_pages"`                       // 页数上限 (0表示不限制)
	SiteOrigin         string        `json:"site_origin" mapstructure:"site_origin"`                   // 相对链接补全用的站点源
	FetchMode          FetchMode     `json:"fetch_mode" mapstructure:"fetch_mode"`                     // static | browser
	Headless           bool          `json:"headless" mapstructure:"headless"`                         // 浏览器模式是否无头
	InsecureSkipVerify bool          `json:"insecure_skip_verify" mapstructure:"insecure_skip_verify"` // 跳过TLS证书验证
}

// DefaultScrapeConfig 默认抓取配置
func DefaultScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		Headers:        make(http.Header),
		TimeoutSeconds: DefaultTimeoutSeconds,
		SiteOrigin:     DefaultSiteOrigin,
		FetchMode:      FetchModeStatic,
		Headless:       true,
	}
}

// Timeout 请求超时时长
func (c ScrapeConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate 验证配置
func (c *ScrapeConfig) Validate() error {
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 300 {
		return fmt.Errorf("超时时间必须在1-300秒之间,当前值: %d", c.TimeoutSeconds)
	}
	if c.InterPageDelay < 0 {
		return fmt.Errorf("页间延迟不能为负数,当前值: %s", c.InterPageDelay)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("页数上限不能为负数,当前值: %d", c.MaxPages)
	}
	if err := ValidateSiteOrigin(c.SiteOrigin); err != nil {
		return fmt.Errorf("无效的站点源: %w", err)
	}
	switch c.FetchMode {
	case FetchModeStatic, FetchModeBrowser:
	default:
		return fmt.Errorf("无效的获取模式: %s (有效值: static, browser)", c.FetchMode)
	}
	return nil
}

// ClampPages 按MaxPages限制页数,返回限制后的页数和是否被截断
func (c ScrapeConfig) ClampPages(pages int) (int, bool) {
	if c.MaxPages > 0 && pages > c.MaxPages {
		return c.MaxPages, true
	}
	return pages, false
}

// RunConfig 单次运行描述: 起始URL、页数、输出路径
// 交互输入只负责填充它,校验在这里一次完成
type RunConfig struct {
	StartURL   string `json:"start_url"`
	PageCount  int    `json:"page_count"`
	OutputPath string `json:"output_path"`
}

// Validate 验证运行参数
func (r *RunConfig) Validate() error {
	r.StartURL = strings.TrimSpace(r.StartURL)
	if r.StartURL == "" {
		return ErrEmptyStartURL
	}
	if r.PageCount < 1 {
		return ErrInvalidPageCount
	}
	if strings.TrimSpace(r.OutputPath) == "" {
		return ErrEmptyOutputPath
	}
	return nil
}

// ScrapeStats 抓取统计
type ScrapeStats struct {
	PagesRequested  int     `json:"pages_requested"`  // 请求页数
	PagesFetched    int     `json:"pages_fetched"`    // 成功获取(200)页数
	PagesFailed     int     `json:"pages_failed"`     // 失败页数 (网络错误或非200)
	AdsSeen         int     `json:"ads_seen"`         // 匹配到的广告节点数
	PromotedSkipped int     `json:"promoted_skipped"` // 跳过的推广广告
	ExtractFailed   int     `json:"extract_failed"`   // 提取失败
	MissingFields   int     `json:"missing_fields"`   // 缺少标题或链接
	RowsWritten     int     `json:"rows_written"`     // 写出行数
	Duration        float64 `json:"duration"`         // 总耗时(秒)
}

// PageFailure 失败页面信息
type PageFailure struct {
	Page       int    `json:"page"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"` // 0表示请求未得到响应
	Error      string `json:"error"`
}

// PageResponse 页面获取结果
type PageResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}
