package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/ikmanscraper/internal/crawlers"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/storage"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
)

// RecordWriter 广告记录的写出目标
type RecordWriter interface {
	WriteRecord(record models.AdRecord) error
}

// Scraper 列表页抓取协调器
// 按顺序逐页获取、解析、写出, 单页失败只记录警告不会中止运行
type Scraper struct {
	config    models.ScrapeConfig
	output    OutputConfig
	fetcher   crawlers.Fetcher
	extractor *crawlers.Extractor
	progress  io.Writer

	mu       sync.RWMutex
	state    models.ScrapeState
	stats    models.ScrapeStats
	failures []models.PageFailure
	report   *models.RunReport
}

// NewScraper 创建抓取器
// fetcher为nil时按 config.FetchMode 创建
func NewScraper(config models.ScrapeConfig, output OutputConfig, fetcher crawlers.Fetcher) *Scraper {
	if fetcher == nil {
		fetcher = crawlers.NewFetcher(config)
	}
	return &Scraper{
		config:    config,
		output:    output,
		fetcher:   fetcher,
		extractor: crawlers.NewExtractor(config.SiteOrigin),
		progress:  io.Discard,
		state:     models.StateNotStarted,
		failures:  make([]models.PageFailure, 0),
	}
}

// SetProgressOutput 进度条输出位置 (默认不显示)
func (s *Scraper) SetProgressOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.progress = w
}

// Run 执行一次完整运行: 校验参数、创建CSV、逐页抓取、生成报告
// 返回写出的行数; 参数无效、输出文件无法创建或写出失败时返回错误
func (s *Scraper) Run(ctx context.Context, run models.RunConfig) (int, error) {
	if err := run.Validate(); err != nil {
		return 0, err
	}
	if pages, clamped := s.config.ClampPages(run.PageCount); clamped {
		utils.Warnf("页数 %d 超过上限 %d, 只抓取前 %d 页", run.PageCount, s.config.MaxPages, pages)
		run.PageCount = pages
	}

	writer, err := storage.NewCSVWriter(run.OutputPath, storage.CSVOptions{UseLF: s.output.UseLF})
	if err != nil {
		return 0, err
	}

	report := models.NewRunReport(run, crawlers.RemovePageParam(run.StartURL), s.config)
	report.StartTime = time.Now()

	rows, scrapeErr := s.Scrape(ctx, run.StartURL, run.PageCount, writer)
	if err := writer.Close(); err != nil {
		utils.Warnf("关闭输出文件失败: %v", err)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime).Seconds()
	report.Stats = s.Stats()
	report.FailedPages = s.Failures()

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	if s.output.Report {
		if err := utils.NewReporter(run.OutputPath).GenerateReport(report); err != nil {
			utils.Warnf("生成报告失败: %v", err)
		}
	}

	return rows, scrapeErr
}

// Scrape 抓取 startURL 所在列表的第1到第pages页, 每条有效广告写出一行
// 返回写出的行数; ctx取消或写出失败时停止, 返回已写出的行数和错误
func (s *Scraper) Scrape(ctx context.Context, startURL string, pages int, w RecordWriter) (int, error) {
	startTime := time.Now()
	s.reset(pages)

	baseURL := crawlers.RemovePageParam(startURL)
	utils.Infof("🚀 开始抓取: %s (共 %d 页)", baseURL, pages)

	bar := utils.NewProgressBar(pages, "抓取页面", s.progress)
	defer bar.Close()

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			utils.Warnf("抓取被中断, 已完成 %d/%d 页", page-1, pages)
			return s.finish(startTime), err
		}

		if err := s.scrapePage(ctx, page, crawlers.BuildPageURL(baseURL, page), w); err != nil {
			utils.Errorf("第 %d 页写出失败, 停止抓取: %v", page, err)
			return s.finish(startTime), err
		}
		bar.Add(1)

		if page < pages && s.config.InterPageDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.config.InterPageDelay):
			}
		}
	}

	rows := s.finish(startTime)
	utils.Infof("✅ 抓取完成: 写出 %d 条广告, 耗时 %.2f秒", rows, s.Stats().Duration)
	return rows, nil
}

// scrapePage 处理单页: 获取 → 解析 → 逐条提取写出
// 请求和解析失败只记录, 写出失败返回错误
func (s *Scraper) scrapePage(ctx context.Context, page int, pageURL string, w RecordWriter) error {
	s.setState(models.StateFetchingPage)
	utils.Debugf("第 %d 页: %s", page, pageURL)

	resp, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		utils.Warnf("第 %d 页请求失败 [%s]: %v", page, pageURL, err)
		s.recordFailure(models.PageFailure{Page: page, URL: pageURL, Error: err.Error()})
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		utils.Warnf("第 %d 页请求失败: HTTP %d [%s]", page, resp.StatusCode, pageURL)
		s.recordFailure(models.PageFailure{
			Page:       page,
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("HTTP %d", resp.StatusCode),
		})
		return nil
	}

	s.setState(models.StateParsingPage)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		utils.Warnf("第 %d 页解析失败 [%s]: %v", page, pageURL, err)
		s.recordFailure(models.PageFailure{Page: page, URL: pageURL, StatusCode: resp.StatusCode, Error: err.Error()})
		return nil
	}

	ads := doc.Find(crawlers.AdAnchorSelector)
	s.mu.Lock()
	s.stats.PagesFetched++
	s.stats.AdsSeen += ads.Length()
	s.mu.Unlock()

	if ads.Length() == 0 {
		utils.Debugf("第 %d 页没有广告", page)
		return nil
	}

	s.setState(models.StateWritingRows)
	adBar := utils.NewAdProgressBar(ads.Length(), fmt.Sprintf("第%d页", page), s.progress)
	defer adBar.Close()

	var writeErr error
	ads.EachWithBreak(func(i int, ad *goquery.Selection) bool {
		writeErr = s.handleAd(page, i, ad, w)
		adBar.Add(1)
		return writeErr == nil
	})
	return writeErr
}

// handleAd 单条广告: 推广跳过, 提取失败或缺字段丢弃, 其余写出
func (s *Scraper) handleAd(page, index int, ad *goquery.Selection, w RecordWriter) error {
	result := s.extractor.Process(ad)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch result.Skip {
	case models.SkipPromoted:
		s.stats.PromotedSkipped++
		return nil
	case models.SkipExtractFailed:
		s.stats.ExtractFailed++
		utils.Debugf("第 %d 页第 %d 条广告提取失败: %v", page, index+1, result.Err)
		return nil
	case models.SkipMissingFields:
		s.stats.MissingFields++
		utils.Debugf("第 %d 页第 %d 条广告缺少标题或链接", page, index+1)
		return nil
	}

	if err := w.WriteRecord(result.Record); err != nil {
		return fmt.Errorf("写出广告失败 [%s]: %w", result.Record.Link, err)
	}
	s.stats.RowsWritten++
	return nil
}

func (s *Scraper) reset(pages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = models.ScrapeStats{PagesRequested: pages}
	s.failures = make([]models.PageFailure, 0)
	s.state = models.StateNotStarted
}

func (s *Scraper) finish(startTime time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.StateDone
	s.stats.Duration = time.Since(startTime).Seconds()
	return s.stats.RowsWritten
}

func (s *Scraper) recordFailure(f models.PageFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.PagesFailed++
	s.failures = append(s.failures, f)
}

func (s *Scraper) setState(state models.ScrapeState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// State 当前状态
func (s *Scraper) State() models.ScrapeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Stats 最近一次运行的统计
func (s *Scraper) Stats() models.ScrapeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Failures 最近一次运行的失败页面
func (s *Scraper) Failures() []models.PageFailure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	failures := make([]models.PageFailure, len(s.failures))
	copy(failures, s.failures)
	return failures
}

// Report 最近一次Run生成的报告, 未运行时为nil
func (s *Scraper) Report() *models.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Close 释放Fetcher资源
func (s *Scraper) Close() error {
	return s.fetcher.Close()
}
