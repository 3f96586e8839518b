package crawlers

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestIsPromoted(t *testing.T) {
	tests := []struct {
		name    string
		wrapper string
		want    bool
	}{
		{"置顶容器", `<div class="top-ads-container--1Jeoq">%s</div>`, true},
		{"精选卡片是多个类名之一", `<li class="gtm-normal-ad featured-card--1g2Xx">%s</li>`, true},
		{"深层祖先", `<section class="featured-card"><div><ul><li>%s</li></ul></div></section>`, true},
		{"普通列表", `<ul class="list--3NxGO"><li class="normal--2QYVk">%s</li></ul>`, false},
		{"前缀不在类名开头", `<div class="my-top-ads-container">%s</div>`, false},
		{"没有包装", `%s`, false},
	}

	anchor := `<a class="card-link--3ssYv gtm-ad-item" href="/en/ad/x">ad</a>`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment := strings.Replace(tt.wrapper, "%s", anchor, 1)
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
			require.NoError(t, err)

			ad := doc.Find(AdAnchorSelector)
			require.Equal(t, 1, ad.Length())
			assert.Equal(t, tt.want, IsPromoted(ad.Nodes[0]))
			assert.Equal(t, tt.want, IsPromotedSelection(ad))
		})
	}
}

func TestIsPromoted_NodeItself(t *testing.T) {
	// 只检查祖先, 广告节点自身的类名不算
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<a class="card-link--3ssYv gtm-ad-item featured-card" href="/x">ad</a>`))
	require.NoError(t, err)

	assert.False(t, IsPromotedSelection(doc.Find(AdAnchorSelector)))
}

func TestIsPromoted_Detached(t *testing.T) {
	assert.False(t, IsPromoted(nil))

	node := &html.Node{Type: html.ElementNode, Data: "a"}
	assert.False(t, IsPromoted(node))
}
