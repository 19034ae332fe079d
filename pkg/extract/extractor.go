package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"golang.org/x/net/html"

	"github.com/shouni/go-blog-clip/pkg/assets"
	"github.com/shouni/go-blog-clip/pkg/dom"
	"github.com/shouni/go-blog-clip/pkg/images"
	"github.com/shouni/go-blog-clip/pkg/sanitize"
	"github.com/shouni/go-blog-clip/pkg/types"
)

// Extractor は、Fetcher を使って記事抽出パイプライン全体を管理します。
type Extractor struct {
	fetcher Fetcher
	noise   *images.NoiseFilter
}

// Option は Extractor の挙動を調整する関数型オプションです。
type Option func(*Extractor)

// WithNoiseMarkers はノイズフィルタのサイト固有マーカーリストを差し替えます。
func WithNoiseMarkers(markers ...string) Option {
	return func(e *Extractor) {
		e.noise = images.NewNoiseFilter(markers...)
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher, opts ...Option) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	e := &Extractor{
		fetcher: fetcher,
		noise:   images.NewNoiseFilter(images.DefaultNoiseMarkers...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------

// articleRootClasses は <article> が見つからない場合に試す
// 本文コンテナのクラス名です (クラストークン一致、記載順に探索)。
var articleRootClasses = []string{
	"blog-content",
	"post-content",
	"entry-content",
	"content",
	"article-body",
}

// ----------------------------------------------------------------------
// メイン関数 (メソッド化)
// ----------------------------------------------------------------------

// FetchAndClip は指定されたURLからページを取得し、正規化・サニタイズ済みの
// 記事表現を抽出します。取得の失敗は *TransportError として返します。
func (e *Extractor) FetchAndClip(ctx context.Context, rawURL string) (*types.ClipResult, error) {
	// 1. Fetcher から生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	// 2. Extractor内でgoquery.Documentに変換 (解析の責務)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}

	return e.ClipDocument(doc)
}

// ClipDocument は解析済みドキュメントに対して抽出パイプラインを実行します。
// パイプラインはこの呼び出しが専有するツリーだけを変形し、
// リクエスト間で共有される状態を一切持ちません。
func (e *Extractor) ClipDocument(doc *goquery.Document) (*types.ClipResult, error) {
	// 1. 記事ルートの特定
	root := findArticleRoot(doc)
	if root == nil || root.Length() == 0 {
		return nil, ErrNoContent
	}
	rootNode := root.Get(0)

	// 2. タイトル解決 (<title> → 最初の <h1> → 空文字)
	title := resolveTitle(doc)

	// 3. バナー解決 (本文の画像スキャンとは独立に、文書全体から)
	bannerURL, hasBanner := images.ResolveBanner(doc)

	// 4. 最初の <h1> を本文先頭へ移動 (content_html の冒頭に揃える)
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		h1Node := h1.Get(0)
		if h1Node != rootNode {
			dom.Remove(h1Node)
			rootNode.InsertBefore(h1Node, rootNode.FirstChild)
		}
	}

	// 5. 著者ヘッドショットの除去
	//    placeholder 割当の前に行い、除去画像が序数を消費しないようにする
	e.noise.StripAuthorImages(root)

	// 6. 許可リストへのサニタイズ
	sanitize.Sanitize(rootNode)

	// 7. placeholder 割当 (バナー図版ブロックの先頭挿入を含む)
	banner := ""
	if hasBanner {
		banner = bannerURL
	}
	assignment := assets.AssignPlaceholders(rootNode, banner)

	// 8. 直列化 (ルート要素自身は許可リスト外の容れ物なので、子のみを書き出す)
	contentHTML, err := renderChildren(rootNode)
	if err != nil {
		return nil, fmt.Errorf("サニタイズ済みツリーの直列化に失敗しました: %w", err)
	}

	return &types.ClipResult{
		Title:       title,
		ContentHTML: contentHTML,
		Images:      assignment.Images,
		ImageNames:  assignment.Names,
		ImageURLMap: assignment.URLMap,
	}, nil
}

// findArticleRoot は本文コンテナを探します。
// <article> → 既知クラスの <div> → <body> → 文書全体、の順で最初の一致を返します。
func findArticleRoot(doc *goquery.Document) *goquery.Selection {
	if s := doc.Find("article").First(); s.Length() > 0 {
		return s
	}
	for _, cls := range articleRootClasses {
		if s := doc.Find("div." + cls).First(); s.Length() > 0 {
			return s
		}
	}
	if s := doc.Find("body").First(); s.Length() > 0 {
		return s
	}
	if doc.Selection.Length() > 0 {
		return doc.Selection.First()
	}
	return nil
}

// resolveTitle はページタイトルを解決します。
func resolveTitle(doc *goquery.Document) string {
	if t := textUtils.NormalizeText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h := textUtils.NormalizeText(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return ""
}

// renderChildren は root の子ノード列をHTML文字列として直列化します。
func renderChildren(root *html.Node) (string, error) {
	var sb strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
