package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/RecoveryAshes/ikmanscraper/internal/utils"
	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
)

const responseCtxKey = "page_response"

// StaticFetcher 静态页面获取器(使用Colly)
// 同步模式,一次只处理一个请求
type StaticFetcher struct {
	collector *colly.Collector
	headers   http.Header
	mu        sync.Mutex
}

// NewStaticFetcher 创建静态获取器
func NewStaticFetcher(config models.ScrapeConfig) *StaticFetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	// 非2xx响应同样交给OnResponse,由调用方决定如何处理
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)
	c.WithTransport(transport)
	c.SetRequestTimeout(config.Timeout())

	if config.InsecureSkipVerify {
		utils.Warnf("静态获取器: TLS证书验证已禁用")
	}
	utils.Debugf("静态获取器: 请求超时 %s", config.Timeout())

	sf := &StaticFetcher{
		collector: c,
		headers:   config.Headers.Clone(),
	}
	sf.setupCallbacks()

	return sf
}

// setupCallbacks 设置Colly回调
func (sf *StaticFetcher) setupCallbacks() {
	sf.collector.OnRequest(func(r *colly.Request) {
		utils.Debugf("请求: %s", r.URL.String())
	})

	sf.collector.OnResponse(func(r *colly.Response) {
		requestURL := r.Request.URL.String()
		contentType := r.Headers.Get("Content-Type")

		body, err := decompressBody(r.Headers.Get("Content-Encoding"), r.Body)
		if err != nil {
			// 解压失败,仍然尝试使用原始body
			utils.Warnf("解压响应失败 [%s]: %v", requestURL, err)
			body = r.Body
		}

		r.Ctx.Put(responseCtxKey, &models.PageResponse{
			URL:         requestURL,
			StatusCode:  r.StatusCode,
			ContentType: contentType,
			Body:        body,
		})
		utils.Debugf("响应 [%s]: HTTP %d, %d bytes", requestURL, r.StatusCode, len(body))
	})

	sf.collector.OnError(func(r *colly.Response, err error) {
		utils.Debugf("请求错误 [%s]: %v", r.Request.URL, err)
	})
}

// Fetch 获取页面
// 只有网络层失败才返回错误; 非200状态码通过PageResponse.StatusCode返回
func (sf *StaticFetcher) Fetch(ctx context.Context, pageURL string) (*models.PageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()

	collyCtx := colly.NewContext()
	if err := sf.collector.Request(http.MethodGet, pageURL, nil, collyCtx, sf.headers.Clone()); err != nil {
		return nil, fmt.Errorf("请求 %s 失败: %w", pageURL, err)
	}

	resp, ok := collyCtx.GetAny(responseCtxKey).(*models.PageResponse)
	if !ok || resp == nil {
		return nil, fmt.Errorf("请求 %s 未得到响应", pageURL)
	}
	return resp, nil
}

// Close 静态获取器无需释放资源
func (sf *StaticFetcher) Close() error {
	return nil
}

// decompressBody 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli); Colly已自动解压gzip,此时body不再带gzip魔数,原样返回
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip", "x-gzip":
		if len(body) < 2 || body[0] != 0x1f || body[1] != 0x8b {
			return body, nil
		}
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		// HTTP deflate通常带zlib头, 部分服务器直接发送原始deflate流
		var reader io.ReadCloser
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			reader = zr
		} else {
			reader = flate.NewReader(bytes.NewReader(body))
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "", "identity":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
