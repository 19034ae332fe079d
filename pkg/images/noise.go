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
// ノイズフィルタ: 著者・署名欄のヘッドショットを本文から取り除く
// ----------------------------------------------------------------------

// DefaultNoiseMarkers は既知のサイト固有ヘッドショットを示すマーカー文字列です。
// ヒューリスティックはコードではなくデータとして注入されるため、
// 対象サイトに合わせて差し替えられます。
var DefaultNoiseMarkers = []string{
	"Madeline Grecek",
	"Madeline%20Grecek",
}

// authorAltPattern は「Firstname Lastname [Middlename]」形式の alt を検出します。
// 大文字始まりの語が2〜3個並ぶものを人名らしい alt と見なします。
var authorAltPattern = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}$`)

// noiseSignals は alt/class/src への部分一致で著者画像を示すシグナルです。
var noiseSignals = []string{"author", "avatar", "byline"}

// loneWrapperTags は二次ルールの対象になる段落相当のコンテナです。
var loneWrapperTags = map[string]struct{}{
	"p":      {},
	"div":    {},
	"figure": {},
	"span":   {},
}

// NoiseFilter は本文中の著者ヘッドショットを取り除くヒューリスティックです。
// リクエスト間で状態を持たず、渡されたツリーだけを変形します。
type NoiseFilter struct {
	markers []string
}

// NewNoiseFilter はマーカーリスト (サイト固有の拒否リスト) を注入してフィルタを生成します。
func NewNoiseFilter(markers ...string) *NoiseFilter {
	return &NoiseFilter{markers: markers}
}

// LooksLikeHeadshot は img が著者ヘッドショットらしいかを判定します。
// 判定はいずれも非マッチ時に false を返すだけで、失敗を投げることはありません。
func (f *NoiseFilter) LooksLikeHeadshot(img *goquery.Selection) bool {
	alt := strings.TrimSpace(img.AttrOr("alt", ""))

	// 1. 「名 姓」形式の alt
	if authorAltPattern.MatchString(alt) {
		return true
	}

	// src は正規化済みの形で比較する (クエリは保持: マーカーがクエリに乗る場合がある)
	src := ""
	if raw, ok := RawSrcFromImg(img); ok {
		if u, valid := urlnorm.Normalize(raw); valid {
			src = u
		}
	}
	class := img.AttrOr("class", "")

	// 2. author/avatar/byline シグナルの部分一致 (大文字小文字を無視)
	for _, sig := range noiseSignals {
		if containsFold(alt, sig) || containsFold(class, sig) || containsFold(src, sig) {
			return true
		}
	}

	// 3. 注入されたサイト固有マーカー
	for _, m := range f.markers {
		if m == "" {
			continue
		}
		if strings.Contains(src, m) || strings.Contains(alt, m) {
			return true
		}
	}

	return false
}

// StripAuthorImages は記事ルート配下から著者画像をその場で取り除きます。
// 走査中の削除によるイテレータ無効化を避けるため、対象を先に収集してから適用します。
// placeholder 割当の前に実行される必要があります。除去された画像が
// 序数を消費したり、出力マッピングに現れたりしてはいけません。
func (f *NoiseFilter) StripAuthorImages(root *goquery.Selection) {
	var removals []*html.Node

	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		if !f.LooksLikeHeadshot(img) {
			return
		}
		target := img.Get(0)
		// 二次ルール: 画像だけを包む著者系コンテナは、空のラッパーを
		// 残さないようコンテナごと取り除く。
		if wrapper, ok := noiseWrapper(img); ok {
			target = wrapper
		}
		removals = append(removals, target)
	})

	for _, n := range removals {
		dom.Remove(n)
	}
}

// noiseWrapper は、img の直接の親が「その画像以外の内容を持たず、
// かつ著者系クラスシグナルを持つ段落相当コンテナ」の場合に親ノードを返します。
func noiseWrapper(img *goquery.Selection) (*html.Node, bool) {
	parent := img.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	p := parent.Get(0)
	if p.Type != html.ElementNode {
		return nil, false
	}
	if _, ok := loneWrapperTags[p.Data]; !ok {
		return nil, false
	}

	// 親自身が著者系クラスシグナルを持つこと
	class := parent.AttrOr("class", "")
	signal := false
	for _, sig := range noiseSignals {
		if containsFold(class, sig) {
			signal = true
			break
		}
	}
	if !signal {
		return nil, false
	}

	// 非空白の内容が対象の img だけであること
	imgNode := img.Get(0)
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if c == imgNode {
			continue
		}
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		return nil, false
	}

	return p, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
