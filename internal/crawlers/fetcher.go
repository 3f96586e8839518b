package crawlers

import (
	"context"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
)

// Fetcher 列表页获取接口
type Fetcher interface {
	// Fetch 获取页面; 网络层失败返回error, HTTP状态码由PageResponse携带
	Fetch(ctx context.Context, pageURL string) (*models.PageResponse, error)
	// Close 释放底层资源
	Close() error
}

// NewFetcher 按配置的获取模式创建Fetcher
func NewFetcher(config models.ScrapeConfig) Fetcher {
	if config.FetchMode == models.FetchModeBrowser {
		return NewBrowserFetcher(config)
	}
	return NewStaticFetcher(config)
}
