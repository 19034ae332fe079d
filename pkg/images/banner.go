package images

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/shouni/go-blog-clip/pkg/urlnorm"
)

// ----------------------------------------------------------------------
// バナー解決: ページのヒーロー画像を1つだけ選ぶ
// ----------------------------------------------------------------------

// BannerWrapperSelector は、公開テンプレートがヒーロー画像を包むのに使う
// 構造マーカーです。
const BannerWrapperSelector = ".wrapper-banner-image"

// ogImageSelector は Open Graph のサムネイルメタ要素です。
const ogImageSelector = `meta[property="og:image"]`

// ResolveBanner は文書全体からバナーURLを優先順位に従って1つ選びます。
// テンプレートによってヒーロー画像が background スタイル・<img>・メタ情報の
// いずれで表現されるかが揺れるため、構造シグナルをメタ情報より先に試し、
// 実バナーがあるのに無関係なシェア用サムネイルを拾う事故を避けます。
//
// 優先順 (最初に当たったものを採用):
//  1. バナーラッパー要素: inline background-image → 最初の子孫 <img>
//  2. 文書順で最初の background-image: url(...) を持つ任意の要素
//  3. og:image メタの値
//  4. なし (ok=false)
func ResolveBanner(doc *goquery.Document) (bannerURL string, ok bool) {
	// 1. バナーラッパー
	wrap := doc.Find(BannerWrapperSelector).First()
	if wrap.Length() > 0 {
		if style, found := wrap.Attr("style"); found {
			if raw, has := BackgroundImageURL(style); has {
				if u, valid := urlnorm.Normalize(raw); valid {
					return u, true
				}
			}
		}
		inner := wrap.Find("img").First()
		if inner.Length() > 0 {
			if raw, has := RawSrcFromImg(inner); has {
				if u, valid := urlnorm.Normalize(raw); valid {
					return u, true
				}
			}
		}
	}

	// 2. 文書内の任意の background-image (文書順で最初の有効なもの)
	var fallback string
	doc.Find("[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		raw, has := BackgroundImageURL(style)
		if !has {
			return true
		}
		u, valid := urlnorm.Normalize(raw)
		if !valid {
			return true
		}
		fallback = u
		return false
	})
	if fallback != "" {
		return fallback, true
	}

	// 3. og:image メタ
	if content, found := doc.Find(ogImageSelector).First().Attr("content"); found {
		if u, valid := urlnorm.Normalize(content); valid {
			return u, true
		}
	}

	// 4. バナーなし
	return "", false
}
