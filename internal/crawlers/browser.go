package crawlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher 浏览器页面获取器(使用go-rod)
// 用于需要JavaScript渲染的列表页; 浏览器在第一次Fetch时才启动
type BrowserFetcher struct {
	config   models.ScrapeConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	mu       sync.Mutex
}

// NewBrowserFetcher 创建浏览器获取器 (不启动浏览器)
func NewBrowserFetcher(config models.ScrapeConfig) *BrowserFetcher {
	return &BrowserFetcher{config: config}
}

// launchBrowser 启动并连接浏览器
func (bf *BrowserFetcher) launchBrowser() error {
	l := launcher.New().Headless(bf.config.Headless)
	if bf.config.InsecureSkipVerify {
		l = l.Set("ignore-certificate-errors")
		utils.Debugf("浏览器启动参数: --ignore-certificate-errors")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	bf.launcher = l
	bf.browser = browser
	utils.Debugf("浏览器已启动: %s", controlURL)
	return nil
}

// Fetch 打开新标签页渲染页面, 返回渲染后的HTML和主文档状态码
func (bf *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*models.PageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser == nil {
		if err := bf.launchBrowser(); err != nil {
			return nil, err
		}
	}

	page, err := bf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			utils.Debugf("关闭标签页失败: %v", err)
		}
	}()

	p := page.Context(ctx).Timeout(bf.config.Timeout())
	if err := bf.applyHeaders(p); err != nil {
		utils.Warnf("设置浏览器请求头失败: %v", err)
	}

	resp := &models.PageResponse{URL: pageURL}
	waitDocument := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		resp.StatusCode = e.Response.Status
		resp.ContentType = e.Response.MIMEType
		return true
	})

	if err := p.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("导航 %s 失败: %w", pageURL, err)
	}
	waitDocument()

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("等待页面加载失败 [%s]: %w", pageURL, err)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("读取页面HTML失败 [%s]: %w", pageURL, err)
	}
	resp.Body = []byte(html)

	// 没有捕获到主文档响应时按成功处理
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	utils.Debugf("页面渲染完成 [%s]: HTTP %d, %d bytes", pageURL, resp.StatusCode, len(resp.Body))
	return resp, nil
}

// applyHeaders 把合并后的请求头应用到标签页
// Accept-Encoding由浏览器自行协商
func (bf *BrowserFetcher) applyHeaders(page *rod.Page) error {
	if ua := bf.config.Headers.Get("User-Agent"); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			return err
		}
	}

	dict := browserHeaderDict(bf.config.Headers)
	if len(dict) == 0 {
		return nil
	}
	_, err := page.SetExtraHeaders(dict)
	return err
}

// browserHeaderDict 转换为SetExtraHeaders需要的 [name, value, ...] 形式
func browserHeaderDict(headers http.Header) []string {
	dict := make([]string, 0, len(headers)*2)
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		switch http.CanonicalHeaderKey(name) {
		case "User-Agent", "Accept-Encoding":
			continue
		}
		dict = append(dict, name, values[0])
	}
	return dict
}

// Close 关闭浏览器
func (bf *BrowserFetcher) Close() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser == nil {
		return nil
	}
	err := bf.browser.Close()
	bf.launcher.Kill()
	bf.browser = nil
	bf.launcher = nil
	utils.Debugf("浏览器已关闭")
	return err
}
