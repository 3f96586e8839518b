package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/RecoveryAshes/ikmanscraper/internal/crawlers"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
)

// ErrNoPagesFetched 所有页面都请求失败
var ErrNoPagesFetched = errors.New("所有页面请求失败")

// BatchScraper 批量抓取器: 多个起始URL使用相同页数, 各自输出到独立CSV
type BatchScraper struct {
	config        models.ScrapeConfig
	output        OutputConfig
	pageCount     int
	batchDelay    time.Duration
	continueOnErr bool
	fetcher       crawlers.Fetcher
	progress      io.Writer
}

// BatchResult 单个URL的抓取结果
type BatchResult struct {
	URL         string
	OutputFile  string
	Success     bool
	Error       error
	Rows        int
	Stats       models.ScrapeStats
	ProcessedAt time.Time
	Duration    float64
}

// BatchSummary 批量抓取摘要
type BatchSummary struct {
	TotalURLs     int
	SuccessCount  int
	FailCount     int
	TotalRows     int
	TotalDuration float64
	Results       []BatchResult
}

// NewBatchScraper 创建批量抓取器
// fetcher在所有URL之间共享, 为nil时按配置创建
func NewBatchScraper(config models.ScrapeConfig, output OutputConfig, pageCount int, batchDelay time.Duration, continueOnErr bool, fetcher crawlers.Fetcher) *BatchScraper {
	if fetcher == nil {
		fetcher = crawlers.NewFetcher(config)
	}
	return &BatchScraper{
		config:        config,
		output:        output,
		pageCount:     pageCount,
		batchDelay:    batchDelay,
		continueOnErr: continueOnErr,
		fetcher:       fetcher,
		progress:      io.Discard,
	}
}

// SetProgressOutput 进度条输出位置
func (bs *BatchScraper) SetProgressOutput(w io.Writer) {
	bs.progress = w
}

// ScrapeBatch 依次抓取URL列表
func (bs *BatchScraper) ScrapeBatch(ctx context.Context, urls []string) (*BatchSummary, error) {
	utils.Infof("🚀 开始批量抓取: %d个URL, 每个 %d 页", len(urls), bs.pageCount)

	summary := &BatchSummary{
		TotalURLs: len(urls),
		Results:   make([]BatchResult, 0, len(urls)),
	}
	startTime := time.Now()

	for i, startURL := range urls {
		if err := ctx.Err(); err != nil {
			summary.TotalDuration = time.Since(startTime).Seconds()
			return summary, err
		}

		utils.Infof("==================== [%d/%d] ====================", i+1, len(urls))
		result := bs.scrapeSingleURL(ctx, i+1, startURL)
		summary.Results = append(summary.Results, result)

		if result.Success {
			summary.SuccessCount++
			summary.TotalRows += result.Rows
		} else {
			summary.FailCount++
			utils.Errorf("❌ 抓取失败 [%s]: %v", startURL, result.Error)
			if !bs.continueOnErr {
				utils.Warn("批量抓取中止 (--continue-on-error=false)")
				break
			}
		}

		if i < len(urls)-1 && bs.batchDelay > 0 {
			utils.Debugf("等待 %s 后处理下一个URL...", bs.batchDelay)
			select {
			case <-ctx.Done():
			case <-time.After(bs.batchDelay):
			}
		}
	}

	summary.TotalDuration = time.Since(startTime).Seconds()
	bs.printSummary(summary)
	return summary, nil
}

// scrapeSingleURL 抓取单个起始URL, 输出文件名带序号避免同一秒内冲突
func (bs *BatchScraper) scrapeSingleURL(ctx context.Context, index int, startURL string) BatchResult {
	result := BatchResult{URL: startURL, ProcessedAt: time.Now()}

	result.OutputFile = utils.OutputFilename(bs.output.Dir, bs.output.Prefix, result.ProcessedAt, index)
	scraper := NewScraper(bs.config, bs.output, bs.fetcher)
	scraper.SetProgressOutput(bs.progress)

	rows, err := scraper.Run(ctx, models.RunConfig{
		StartURL:   startURL,
		PageCount:  bs.pageCount,
		OutputPath: result.OutputFile,
	})
	result.Rows = rows
	result.Stats = scraper.Stats()
	result.Duration = time.Since(result.ProcessedAt).Seconds()

	switch {
	case err != nil:
		result.Error = err
	case result.Stats.PagesFetched == 0:
		result.Error = fmt.Errorf("%w (%d 页)", ErrNoPagesFetched, result.Stats.PagesRequested)
	default:
		result.Success = true
	}
	return result
}

// printSummary 打印批量抓取摘要
func (bs *BatchScraper) printSummary(summary *BatchSummary) {
	utils.Info("==================================================")
	utils.Info("📊 批量抓取摘要")
	utils.Info("==================================================")
	utils.Infof("总URL数: %d", summary.TotalURLs)
	utils.Infof("✅ 成功: %d", summary.SuccessCount)
	utils.Infof("❌ 失败: %d", summary.FailCount)
	utils.Infof("📦 总行数: %d", summary.TotalRows)
	utils.Infof("⏱️  总耗时: %.2f秒", summary.TotalDuration)

	if summary.FailCount > 0 {
		utils.Warn("失败的URL:")
		for _, result := range summary.Results {
			if !result.Success {
				utils.Warnf("  - %s: %v", result.URL, result.Error)
			}
		}
	}
}

// Close 释放共享的Fetcher
func (bs *BatchScraper) Close() error {
	return bs.fetcher.Close()
}
