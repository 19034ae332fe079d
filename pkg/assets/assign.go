package assets

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/shouni/go-blog-clip/pkg/dom"
	"github.com/shouni/go-blog-clip/pkg/images"
	"github.com/shouni/go-blog-clip/pkg/urlnorm"
)

// ----------------------------------------------------------------------
// placeholder 割当: 画像URLへ安定した序数ファイル名を与え、参照を書き換える
// ----------------------------------------------------------------------

const (
	// SlotAttr は図版ラッパーへ記録する序数マーカー属性です。
	// 重複画像の再採番を避けるために使われます。
	SlotAttr = "data-img-slot"

	// PlaceholderDir は書き換え後の src が指すローカルディレクトリです。
	PlaceholderDir = "images"

	// BannerAlt はバナー図版の alt テキストです。
	BannerAlt = "Banner"

	defaultImgAlt = "Image"
)

// allowedExts はURLパス末尾から採用できる拡張子の集合です。
var allowedExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "webp": {}, "gif": {}, "svg": {},
}

// Assignment は placeholder 割当の結果です。
// Images と Names は割当順 (バナーが先頭、以降は文書順の初出順) で同じ長さ、
// URLMap は Names の各要素をキーとして元URLへ引けます。
type Assignment struct {
	Images []string
	Names  []string
	URLMap map[string]string
}

// ExtFromURL はURLのパス末尾から画像拡張子を推定します。
// 既知の拡張子でなければ png に落とします。
func ExtFromURL(u string) string {
	path := u
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		ext := strings.ToLower(path[i+1:])
		if _, ok := allowedExts[ext]; ok {
			return ext
		}
	}
	return "png"
}

// AssignPlaceholders はサニタイズ済みの本文を歩き、一意な画像URLごとに
// 安定した序数ファイル名 (image<N>.<ext>) を割り当てて参照を書き換えます。
//
//  1. bannerURL があれば無条件に序数1を消費し、本文の最上部へ
//     placeholder を指す図版ブロックを挿入します。
//  2. 残りの img を文書順に処理します。取得元を解決できない img は削除し、
//     既出URL (バナー含む) は既存 placeholder へ合流させて新しい序数を
//     消費させず、新出URLには次の序数と図版ラッパー + スロットマーカーを
//     与えます。
//
// 同一URLは1回の抽出内で常に同じファイル名に写り、最初に現れた画像
// (バナー、次いで文書順) が最小の序数を受け取ります。
func AssignPlaceholders(body *html.Node, bannerURL string) Assignment {
	a := Assignment{
		Images: []string{},
		Names:  []string{},
		URLMap: map[string]string{},
	}
	ordinals := map[string]int{} // canonical URL → 序数

	allocate := func(u string) (int, string) {
		n := len(a.Images) + 1
		name := fmt.Sprintf("image%d.%s", n, ExtFromURL(u))
		a.Images = append(a.Images, u)
		a.Names = append(a.Names, name)
		a.URLMap[name] = u
		ordinals[canonicalKey(u)] = n
		return n, name
	}

	// 1. バナー: 序数1の割当と先頭ブロックの挿入
	var bannerFigure *html.Node
	if bannerURL != "" {
		ordinal, name := allocate(bannerURL)
		bannerFigure = newBannerFigure(name, ordinal)
		body.InsertBefore(bannerFigure, body.FirstChild)
	}

	// 2. 本文 img の収集 (挿入済みバナーブロックは除外)。
	//    書き換えと削除が走査を壊さないよう、先に収集してから処理します。
	var imgs []*html.Node
	dom.Walk(body, func(n *html.Node) bool {
		if n == bannerFigure {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			imgs = append(imgs, n)
		}
		return true
	})

	for _, img := range imgs {
		raw, found := images.RawSrcFromNode(img)
		if !found {
			// 有効な絶対URLを持たない画像は再ホストできないため削除する
			dom.Remove(img)
			continue
		}
		u, valid := urlnorm.NormalizeAsset(raw)
		if !valid {
			dom.Remove(img)
			continue
		}

		if ordinal, dup := ordinals[canonicalKey(u)]; dup {
			// 既出URL (バナー含む) は既存 placeholder へ合流。
			// 新しいスロットは割り当てず、残っているマーカーも取り除く。
			rewriteImg(img, a.Names[ordinal-1])
			if fig := ancestorFigure(img, body); fig != nil {
				dom.RemoveAttr(fig, SlotAttr)
			}
			continue
		}

		ordinal, name := allocate(u)
		rewriteImg(img, name)
		fig := ancestorFigure(img, body)
		if fig == nil {
			fig = wrapInFigure(img)
		}
		dom.SetAttr(fig, SlotAttr, strconv.Itoa(ordinal))
	}

	return a
}

// canonicalKey は序数の同一性判定キーを返します (クエリ除去)。
// バナーURLはクエリを保持したまま解決されるため、本文画像との照合はこのキーで行います。
func canonicalKey(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// rewriteImg は img の src を placeholder パスへ書き換え、alt の非空を保証します。
func rewriteImg(img *html.Node, name string) {
	dom.SetAttr(img, "src", PlaceholderDir+"/"+name)
	if strings.TrimSpace(dom.AttrOr(img, "alt", "")) == "" {
		dom.SetAttr(img, "alt", defaultImgAlt)
	}
}

// newBannerFigure はバナー placeholder を指す図版ブロックを生成します。
func newBannerFigure(name string, ordinal int) *html.Node {
	img := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Img,
		Data:     "img",
		Attr: []html.Attribute{
			{Key: "src", Val: PlaceholderDir + "/" + name},
			{Key: "alt", Val: BannerAlt},
		},
	}
	fig := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Figure,
		Data:     "figure",
		Attr: []html.Attribute{
			{Key: SlotAttr, Val: strconv.Itoa(ordinal)},
		},
	}
	fig.AppendChild(img)
	return fig
}

// ancestorFigure は img から stop (本文ルート) の手前まで遡り、
// 最初に見つかった figure を返します。
func ancestorFigure(img, stop *html.Node) *html.Node {
	for p := img.Parent; p != nil && p != stop; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "figure" {
			return p
		}
	}
	return nil
}

// wrapInFigure は img をその場で figure に包み、生成した figure を返します。
func wrapInFigure(img *html.Node) *html.Node {
	fig := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Figure,
		Data:     "figure",
	}
	parent := img.Parent
	parent.InsertBefore(fig, img)
	parent.RemoveChild(img)
	fig.AppendChild(img)
	return fig
}
