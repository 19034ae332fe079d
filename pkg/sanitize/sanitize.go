package sanitize

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/shouni/go-blog-clip/pkg/dom"
	"github.com/shouni/go-blog-clip/pkg/images"
	"github.com/shouni/go-blog-clip/pkg/urlnorm"
)

// ----------------------------------------------------------------------
// マークアップのサニタイズ: 許可リストのサブセットへ縮約する
// ----------------------------------------------------------------------

// allowedTags は生き残れるタグの固定集合です。
// ここにないタグは子を残したままアンラップされ、自身の属性は破棄されます。
var allowedTags = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"ul": {}, "ol": {}, "li": {},
	"img":    {},
	"strong": {}, "em": {}, "b": {}, "i": {}, "a": {},
	"table": {}, "thead": {}, "tbody": {}, "tr": {}, "th": {}, "td": {},
	"figure": {},
}

// droppedTags はアンラップではなくサブツリーごと破棄するタグです。
var droppedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"svg":      {},
	"noscript": {},
}

const (
	// DefaultImgAlt は alt が欠落または空白のみの img に与える代替テキストです。
	DefaultImgAlt = "Image"

	// fallbackHref は解決できないリンク先の置き換え値です。
	fallbackHref = "#"
)

// Sanitize は root 配下を許可リストのタグ・属性集合へ縮約し、同じ root を返します。
// root 要素自身は容れ物として扱い、対象にしません。
// 自身の出力へ再適用しても変化しない (冪等である) ことが契約です。
//
// 走査中のツリー変形はイテレータを無効化するため、各段階とも
// 対象ノードを収集してから変形を適用する二段構えで実装しています。
func Sanitize(root *html.Node) *html.Node {
	dropForbidden(root)
	unwrapDisallowed(root)
	scrubAttributes(root)
	return root
}

// dropForbidden は script/style/svg/noscript をサブツリーごと削除します。
func dropForbidden(root *html.Node) {
	var drops []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n == root {
			return true
		}
		if n.Type == html.ElementNode {
			if _, drop := droppedTags[n.Data]; drop {
				drops = append(drops, n)
				return false
			}
		}
		return true
	})
	for _, n := range drops {
		dom.Remove(n)
	}
}

// unwrapDisallowed は許可リスト外の要素を子で置き換えます。
// 兄弟順とテキストは保たれ、要素自身の属性は破棄されます。
// アンラップは局所的な操作なので、収集済みノード同士が入れ子でも安全です。
func unwrapDisallowed(root *html.Node) {
	var unwraps []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if n == root || n.Type != html.ElementNode {
			return true
		}
		if _, ok := allowedTags[n.Data]; !ok {
			unwraps = append(unwraps, n)
		}
		return true
	})
	for _, n := range unwraps {
		dom.Unwrap(n)
	}
}

// scrubAttributes は生き残った要素の属性を仕様の最小集合へ刈り込みます。
func scrubAttributes(root *html.Node) {
	dom.Walk(root, func(n *html.Node) bool {
		if n == root || n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "img":
			scrubImg(n)
		case "a":
			scrubAnchor(n)
		default:
			// figure を含む他の許可タグは属性を一切持たない。
			// (data-img-slot は後段の placeholder 割当だけが再導入する)
			n.Attr = nil
		}
		return true
	})
}

// scrubImg は img の属性を src/alt のみに刈り込みます。
// src は遅延読み込み属性の優先順位で解決し、canonical asset 形式へ正規化します。
// 解決できない場合は空のまま残し、後段の割当器が削除を判断します。
func scrubImg(n *html.Node) {
	src := ""
	if raw, ok := images.RawSrcFromNode(n); ok {
		if u, valid := urlnorm.NormalizeAsset(raw); valid {
			src = u
		}
	}
	alt := strings.TrimSpace(dom.AttrOr(n, "alt", ""))
	if alt == "" {
		alt = DefaultImgAlt
	}
	n.Attr = []html.Attribute{
		{Key: "src", Val: src},
		{Key: "alt", Val: alt},
	}
}

// scrubAnchor は a の属性を href と固定の安全属性のみに刈り込みます。
// リンク先は新しい非オープナー文脈で開かれます。
func scrubAnchor(n *html.Node) {
	href := fallbackHref
	if raw, ok := dom.Attr(n, "href"); ok {
		if u, valid := urlnorm.Normalize(raw); valid {
			href = u
		}
	}
	n.Attr = []html.Attribute{
		{Key: "href", Val: href},
		{Key: "target", Val: "_blank"},
		{Key: "rel", Val: "noopener noreferrer"},
	}
}
