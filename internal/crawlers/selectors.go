package crawlers

// ikman.lk 列表页CSS选择器
const (
	// AdAnchorSelector 每条广告的锚点 (两个类名同时存在)
	AdAnchorSelector = "a.card-link--3ssYv.gtm-ad-item"

	TitleSelector       = "h2.heading--2eONR"
	PriceSelector       = "div.price--3SnqI"
	UpdatedTimeSelector = "div.updated-time--1DbCk"
	DescriptionSelector = "div.description--2-ez3" // "地点, 分类"
)

// PromotedClassPrefixes 推广/置顶容器的类名前缀
var PromotedClassPrefixes = []string{"top-ads-container", "featured-card"}
