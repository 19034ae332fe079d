package images

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/shouni/go-blog-clip/pkg/dom"
	"github.com/shouni/go-blog-clip/pkg/urlnorm"
)

// ----------------------------------------------------------------------
// 画像ロケータ: DOMサブツリーから画像URL候補を初出順に列挙する
// ----------------------------------------------------------------------

// srcAttrPriority は <img> から取得元URLを探す属性の固定優先順位です。
// 遅延読み込みライブラリごとの属性違いを、リフレクションではなく
// 設定テーブルとして吸収します。先頭から順に最初の非空値を採用します。
var srcAttrPriority = []string{
	"src",
	"data-src",
	"data-lazy-src",
	"data-original",
	"data-background",
}

var (
	// bgImagePattern は background-image 宣言の url(...) だけに一致します (バナー判定用)。
	bgImagePattern = regexp.MustCompile(`(?i)background-image\s*:\s*url\(([^)]*)\)`)

	// cssURLPattern は style 属性内の任意の url(...) に一致します (汎用スキャン用)。
	cssURLPattern = regexp.MustCompile(`(?i)url\(([^)]*)\)`)
)

// Candidate は DOM 上の1箇所から取り出された画像URL候補です。
// Node は発見元ノードへの非所有参照で、削除や書き換えにのみ使われます。
type Candidate struct {
	URL  string
	Node *html.Node
}

// RawSrcFromNode は img 要素から表示対象URLの生値を優先順位表に従って取り出します。
// いずれの属性にも値がなければ srcset の先頭エントリへフォールバックします。
func RawSrcFromNode(n *html.Node) (raw string, ok bool) {
	for _, key := range srcAttrPriority {
		if v, found := dom.Attr(n, key); found && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	if v, found := dom.Attr(n, "srcset"); found {
		return FirstSrcsetEntry(v)
	}
	return "", false
}

// RawSrcFromImg は RawSrcFromNode の goquery.Selection 版です。
func RawSrcFromImg(s *goquery.Selection) (raw string, ok bool) {
	if s.Length() == 0 {
		return "", false
	}
	return RawSrcFromNode(s.Get(0))
}

// SrcFromImg は img 要素の取得元URLを canonical asset 形式 (クエリ除去済み) で返します。
func SrcFromImg(s *goquery.Selection) (normalized string, ok bool) {
	raw, found := RawSrcFromImg(s)
	if !found {
		return "", false
	}
	return urlnorm.NormalizeAsset(raw)
}

// FirstSrcsetEntry は srcset 値の先頭候補のURL部分を返します。
// "url1 640w, url2 1280w" のような値から url1 を取り出します。
func FirstSrcsetEntry(srcset string) (raw string, ok bool) {
	first := srcset
	if i := strings.IndexByte(srcset, ','); i >= 0 {
		first = srcset[:i]
	}
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// BackgroundImageURL は style 属性値から background-image: url(...) の生値を取り出します。
// ヒューリスティック関数なので、宣言がなければ単に ok=false を返します。
func BackgroundImageURL(style string) (raw string, ok bool) {
	m := bgImagePattern.FindStringSubmatch(style)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Locate は root 配下の画像URL候補を列挙します。
// 走査順は (1) <img>、(2) <source srcset>、(3) style 属性内の url(...) で、
// 正規化済みURLによる重複排除後も初出順を保ちます。この順序が
// そのままアセットの序数順になるため、順序は意味を持ちます。
func Locate(root *goquery.Selection) []Candidate {
	seen := make(map[string]struct{})
	candidates := make([]Candidate, 0)

	add := func(raw string, node *html.Node) {
		u, ok := urlnorm.NormalizeAsset(raw)
		if !ok {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		candidates = append(candidates, Candidate{URL: u, Node: node})
	}

	// 1. <img> (遅延読み込み属性 + srcset フォールバック)
	root.Find("img").Each(func(_ int, s *goquery.Selection) {
		if raw, ok := RawSrcFromImg(s); ok {
			add(raw, s.Get(0))
		}
	})

	// 2. <source srcset="..."> の先頭エントリ
	root.Find("source").Each(func(_ int, s *goquery.Selection) {
		srcset, found := s.Attr("srcset")
		if !found {
			return
		}
		if raw, ok := FirstSrcsetEntry(srcset); ok {
			add(raw, s.Get(0))
		}
	})

	// 3. style 属性内のすべての url(...)
	//    汎用スキャンでは background-image に限定せず、任意の url(...) を拾います。
	root.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		for _, m := range cssURLPattern.FindAllStringSubmatch(style, -1) {
			add(m[1], s.Get(0))
		}
	})

	return candidates
}
