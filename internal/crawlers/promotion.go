package crawlers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IsPromoted 判断广告节点是否位于推广/置顶容器内
// 沿父节点向上直到根,只检查元素节点的class; 任一类名以PromotedClassPrefixes开头即为推广
func IsPromoted(node *html.Node) bool {
	if node == nil {
		return false
	}
	for parent := node.Parent; parent != nil; parent = parent.Parent {
		if parent.Type != html.ElementNode {
			continue
		}
		if hasPromotedClass(parent) {
			return true
		}
	}
	return false
}

// IsPromotedSelection 选择集中任一节点为推广即返回true
func IsPromotedSelection(sel *goquery.Selection) bool {
	for _, node := range sel.Nodes {
		if IsPromoted(node) {
			return true
		}
	}
	return false
}

func hasPromotedClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			for _, prefix := range PromotedClassPrefixes {
				if strings.HasPrefix(class, prefix) {
					return true
				}
			}
		}
	}
	return false
}
