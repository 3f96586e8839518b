package crawlers

import (
	"net/url"
	"strconv"
	"strings"
)

// PageParam 分页查询参数名
const PageParam = "page"

// RemovePageParam 去掉URL中的page参数
// 其余参数保持原始编码和相对顺序,fragment保留; 查询为空时不留下"?"
func RemovePageParam(rawURL string) string {
	head, query, fragment := splitURL(rawURL)

	pairs := make([]string, 0)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" || queryKey(pair) == PageParam {
			continue
		}
		pairs = append(pairs, pair)
	}

	return joinURL(head, pairs, fragment)
}

// BuildPageURL 设置page参数为指定页码
// 已存在的page参数原位替换(多余的重复项丢弃),否则追加在末尾; 对同一页码幂等
func BuildPageURL(baseURL string, page int) string {
	head, query, fragment := splitURL(baseURL)
	param := PageParam + "=" + strconv.Itoa(page)

	pairs := make([]string, 0)
	replaced := false
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		if queryKey(pair) == PageParam {
			if !replaced {
				pairs = append(pairs, param)
				replaced = true
			}
			continue
		}
		pairs = append(pairs, pair)
	}
	if !replaced {
		pairs = append(pairs, param)
	}

	return joinURL(head, pairs, fragment)
}

// splitURL 拆分为 "scheme://host/path"、查询串(不含?)和fragment(含#)
// 纯字符串处理,格式不合法的URL也能得到尽力而为的结果
func splitURL(rawURL string) (head, query, fragment string) {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		rawURL, fragment = rawURL[:i], rawURL[i:]
	}
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i], rawURL[i+1:], fragment
	}
	return rawURL, "", fragment
}

func joinURL(head string, pairs []string, fragment string) string {
	if len(pairs) == 0 {
		return head + fragment
	}
	return head + "?" + strings.Join(pairs, "&") + fragment
}

// queryKey 解码后的参数名, 解码失败时返回原文
func queryKey(pair string) string {
	key, _, _ := strings.Cut(pair, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}
