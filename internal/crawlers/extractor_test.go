package crawlers

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/ikmanscraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullAd = `<a class="card-link--3ssYv gtm-ad-item" href="/en/ad/apple-iphone-13-for-sale-colombo">
  <h2 class="heading--2eONR"> Apple iPhone 13 </h2>
  <div class="description--2-ez3">Colombo, Mobile Phones</div>
  <div class="price--3SnqI"><span> Rs 250,000 </span></div>
  <div class="updated-time--1DbCk">2 hours</div>
</a>`

// firstAd 解析HTML片段并返回第一个广告锚点
func firstAd(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	require.NoError(t, err)
	ad := doc.Find(AdAnchorSelector).First()
	require.Equal(t, 1, ad.Length(), "未匹配到广告节点")
	return ad
}

func TestExtractor_Extract(t *testing.T) {
	extractor := NewExtractor(models.DefaultSiteOrigin)

	result := extractor.Extract(firstAd(t, fullAd))
	require.True(t, result.OK())
	assert.Equal(t, models.AdRecord{
		Title:    "Apple iPhone 13",
		Price:    "Rs 250,000",
		Link:     "https://ikman.lk/en/ad/apple-iphone-13-for-sale-colombo",
		Time:     "2 hours",
		Location: "Colombo",
	}, result.Record)
}

func TestExtractor_Fallbacks(t *testing.T) {
	extractor := NewExtractor("https://ikman.lk/")

	tests := []struct {
		name     string
		fragment string
		check    func(t *testing.T, r models.AdResult)
	}{
		{
			name:     "缺少可选字段使用N/A",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="/en/ad/x"><h2 class="heading--2eONR">Nokia 3310</h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				require.True(t, r.OK())
				assert.Equal(t, models.NotAvailable, r.Record.Price)
				assert.Equal(t, models.NotAvailable, r.Record.Time)
				assert.Equal(t, models.NotAvailable, r.Record.Location)
			},
		},
		{
			name:     "没有标题元素时使用title属性",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="/en/ad/x" title=" Samsung A52 "></a>`,
			check: func(t *testing.T, r models.AdResult) {
				require.True(t, r.OK())
				assert.Equal(t, "Samsung A52", r.Record.Title)
			},
		},
		{
			name:     "标题元素为空时不回退",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="/en/ad/x" title="attr"><h2 class="heading--2eONR">  </h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				assert.Equal(t, models.SkipMissingFields, r.Skip)
				assert.Equal(t, "", r.Record.Title)
			},
		},
		{
			name:     "空白href拼接为站点源",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="  "><h2 class="heading--2eONR">Phone</h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				require.True(t, r.OK())
				assert.Equal(t, "https://ikman.lk", r.Record.Link)
			},
		},
		{
			name:     "缺少href时同样拼接站点源",
			fragment: `<a class="card-link--3ssYv gtm-ad-item"><h2 class="heading--2eONR">Phone</h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				require.True(t, r.OK())
				assert.Equal(t, "https://ikman.lk", r.Record.Link)
			},
		},
		{
			name:     "绝对链接原样保留",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="https://cdn.ikman.lk/ad/1"><h2 class="heading--2eONR">Phone</h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				assert.Equal(t, "https://cdn.ikman.lk/ad/1", r.Record.Link)
			},
		},
		{
			name:     "不以斜杠开头的相对链接直接拼接",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="en/ad/y"><h2 class="heading--2eONR">Phone</h2></a>`,
			check: func(t *testing.T, r models.AdResult) {
				assert.Equal(t, "https://ikman.lken/ad/y", r.Record.Link)
			},
		},
		{
			name:     "嵌套文本逐段去空白后拼接",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="/a"><h2 class="heading--2eONR">Phone</h2><div class="price--3SnqI">Rs <b> 1,000 </b></div></a>`,
			check: func(t *testing.T, r models.AdResult) {
				assert.Equal(t, "Rs1,000", r.Record.Price)
			},
		},
		{
			name:     "描述没有逗号时整段作为地点",
			fragment: `<a class="card-link--3ssYv gtm-ad-item" href="/a"><h2 class="heading--2eONR">Phone</h2><div class="description--2-ez3"> Kandy </div></a>`,
			check: func(t *testing.T, r models.AdResult) {
				assert.Equal(t, "Kandy", r.Record.Location)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, extractor.Extract(firstAd(t, tt.fragment)))
		})
	}
}

func TestExtractor_EmptySelection(t *testing.T) {
	extractor := NewExtractor("")

	result := extractor.Extract(nil)
	assert.Equal(t, models.SkipExtractFailed, result.Skip)
	assert.ErrorIs(t, result.Err, ErrEmptyAdNode)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<p>no ads</p>"))
	require.NoError(t, err)
	result = extractor.Extract(doc.Find(AdAnchorSelector))
	assert.Equal(t, models.SkipExtractFailed, result.Skip)
}

func TestExtractor_Process(t *testing.T) {
	page := `
<div class="top-ads-container--1Jeoq"><ul><li>
  <a class="card-link--3ssYv gtm-ad-item" href="/en/ad/top"><h2 class="heading--2eONR">Top Ad</h2></a>
</li></ul></div>
<ul class="list--3NxGO">
  <li class="normal--2QYVk">` + fullAd + `</li>
  <li class="featured-card--1g2Xx"><a class="card-link--3ssYv gtm-ad-item" href="/en/ad/featured"><h2 class="heading--2eONR">Featured</h2></a></li>
  <li><a class="card-link--3ssYv gtm-ad-item" href="/en/ad/untitled"></a></li>
</ul>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	extractor := NewExtractor(models.DefaultSiteOrigin)
	var skips []models.SkipReason
	var written []models.AdRecord
	doc.Find(AdAnchorSelector).Each(func(_ int, ad *goquery.Selection) {
		result := extractor.Process(ad)
		skips = append(skips, result.Skip)
		if result.OK() {
			written = append(written, result.Record)
		}
	})

	assert.Equal(t, []models.SkipReason{
		models.SkipPromoted,
		models.SkipNone,
		models.SkipPromoted,
		models.SkipMissingFields,
	}, skips)
	require.Len(t, written, 1)
	assert.Equal(t, "Apple iPhone 13", written[0].Title)
}
