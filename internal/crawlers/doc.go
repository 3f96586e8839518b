// Package crawlers 提供ikman.lk列表页的获取与广告解析
//
// # 核心组件
//
// ## Fetcher
//
// 列表页获取接口,两种实现:
//   - StaticFetcher: 基于Colly直接请求HTML,支持gzip/deflate/br解压
//   - BrowserFetcher: 基于go-rod的无头浏览器,首次Fetch时启动
//
//	fetcher := NewFetcher(scrapeConfig)
//	defer fetcher.Close()
//	resp, err := fetcher.Fetch(ctx, "https://ikman.lk/en/ads/sri-lanka/mobile-phones?page=2")
//
// 只有网络层失败才返回error; 非200状态码通过PageResponse.StatusCode交给调用方判断。
//
// ## 分页URL
//
// RemovePageParam 去掉page参数得到基础URL, BuildPageURL 设置指定页码。
// 两者都是纯字符串处理,其余查询参数保持原始编码和顺序:
//
//	base := RemovePageParam("https://ikman.lk/en/ads?page=3&sort=date") // https://ikman.lk/en/ads?sort=date
//	url := BuildPageURL(base, 1)                                        // https://ikman.lk/en/ads?sort=date&page=1
//
// ## 推广过滤
//
// IsPromoted 沿祖先节点查找类名以 top-ads-container 或 featured-card 开头的容器。
//
// ## Extractor
//
// 从单个广告锚点提取 Title/Price/Link/Time/Location。
// 单条广告的任何失败(包括panic)都不会影响同页其他广告:
//
//	extractor := NewExtractor("https://ikman.lk")
//	doc.Find(AdAnchorSelector).Each(func(_ int, ad *goquery.Selection) {
//	    result := extractor.Process(ad)
//	    if result.OK() {
//	        writer.WriteRecord(result.Record)
//	    }
//	})
package crawlers
