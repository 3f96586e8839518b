package crawlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"golang.org/x/net/html"
)

// ErrEmptyAdNode 传入的广告选择集为空
var ErrEmptyAdNode = errors.New("广告节点为空")

// Extractor 从广告节点提取结构化记录
type Extractor struct {
	origin string // 相对链接前缀, 如 https://ikman.lk
}

// NewExtractor 创建提取器
func NewExtractor(siteOrigin string) *Extractor {
	if siteOrigin == "" {
		siteOrigin = models.DefaultSiteOrigin
	}
	return &Extractor{origin: strings.TrimRight(siteOrigin, "/")}
}

// Process 推广过滤 + 字段提取
func (e *Extractor) Process(ad *goquery.Selection) models.AdResult {
	if IsPromotedSelection(ad) {
		return models.AdResult{Skip: models.SkipPromoted}
	}
	return e.Extract(ad)
}

// Extract 提取单条广告, 各字段独立回退
// 任何意外(包括panic)只影响当前广告, 以SkipExtractFailed返回
func (e *Extractor) Extract(ad *goquery.Selection) (result models.AdResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.AdResult{
				Skip: models.SkipExtractFailed,
				Err:  fmt.Errorf("提取广告失败: %v", r),
			}
		}
	}()

	if ad == nil || ad.Length() == 0 {
		return models.AdResult{Skip: models.SkipExtractFailed, Err: ErrEmptyAdNode}
	}
	ad = ad.First()

	record := models.AdRecord{
		Title:    e.title(ad),
		Price:    textOr(ad, PriceSelector, models.NotAvailable),
		Link:     e.link(ad),
		Time:     textOr(ad, UpdatedTimeSelector, models.NotAvailable),
		Location: location(ad),
	}

	if !record.Writable() {
		return models.AdResult{Record: record, Skip: models.SkipMissingFields}
	}
	return models.AdResult{Record: record}
}

// title 标题元素存在时取其文本(即使为空), 否则回退到title属性
func (e *Extractor) title(ad *goquery.Selection) string {
	if heading := ad.Find(TitleSelector).First(); heading.Length() > 0 {
		return strippedText(heading)
	}
	return strings.TrimSpace(ad.AttrOr("title", ""))
}

// link 绝对URL原样使用, 其他一律拼接站点源
func (e *Extractor) link(ad *goquery.Selection) string {
	href := strings.TrimSpace(ad.AttrOr("href", ""))
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return e.origin + href
}

// location 描述文本为 "地点, 分类", 取第一个逗号前的部分
func location(ad *goquery.Selection) string {
	desc := ad.Find(DescriptionSelector).First()
	if desc.Length() == 0 {
		return models.NotAvailable
	}
	first, _, _ := strings.Cut(strippedText(desc), ",")
	return strings.TrimSpace(first)
}

func textOr(ad *goquery.Selection, selector, fallback string) string {
	el := ad.Find(selector).First()
	if el.Length() == 0 {
		return fallback
	}
	return strippedText(el)
}

// strippedText 所有后代文本节点各自去除首尾空白后拼接, 空节点忽略
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		collectText(n, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
