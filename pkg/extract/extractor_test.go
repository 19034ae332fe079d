package extract_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-blog-clip/pkg/extract"
)

// ======================================================================
// モック (Mock) の定義
// ======================================================================

// MockFetcher はテスト用の extract.Fetcher インターフェースの実装です。
type MockFetcher struct {
	htmlContent string
	fetchError  error
}

// FetchBytes はモックされたHTMLをバイト配列として返すか、エラーを返します。
func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return []byte(m.htmlContent), nil
}

// ======================================================================
// テスト関数
// ======================================================================

func TestNewExtractor(t *testing.T) {
	t.Run("success_with_valid_fetcher", func(t *testing.T) {
		fetcher := &MockFetcher{}
		extractor, err := extract.NewExtractor(fetcher)
		assert.NoError(t, err)
		assert.NotNil(t, extractor)
	})

	t.Run("error_with_nil_fetcher", func(t *testing.T) {
		extractor, err := extract.NewExtractor(nil)
		assert.Error(t, err)
		assert.Nil(t, extractor)
		assert.Contains(t, err.Error(), "Fetcher cannot be nil")
	})
}

// TestFetchAndClip_EndToEnd は取得から直列化までのパイプライン全体を検証します。
func TestFetchAndClip_EndToEnd(t *testing.T) {
	ctx := context.Background()

	// バナー (og:image) + 本文1画像の最小構成。
	// 期待値は先頭のバナー図版、続いて <h1>、本文、の順序。
	pageHTML := `<html><head><title>Hello</title>` +
		`<meta property="og:image" content="https://example.com/hero.jpg">` +
		`</head><body><h1>Hello</h1><article><p>Text</p>` +
		`<img src="https://example.com/photo.jpg"></article></body></html>`

	fetcher := &MockFetcher{htmlContent: pageHTML}
	extractor, err := extract.NewExtractor(fetcher)
	require.NoError(t, err)

	result, err := extractor.FetchAndClip(ctx, "https://example.com/post")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Hello", result.Title)
	assert.Equal(t,
		`<figure data-img-slot="1"><img src="images/image1.jpg" alt="Banner"/></figure>`+
			`<h1>Hello</h1><p>Text</p>`+
			`<figure data-img-slot="2"><img src="images/image2.jpg" alt="Image"/></figure>`,
		result.ContentHTML)

	assert.Equal(t, []string{
		"https://example.com/hero.jpg",
		"https://example.com/photo.jpg",
	}, result.Images)
	assert.Equal(t, []string{"image1.jpg", "image2.jpg"}, result.ImageNames)
	assert.Equal(t, map[string]string{
		"image1.jpg": "https://example.com/hero.jpg",
		"image2.jpg": "https://example.com/photo.jpg",
	}, result.ImageURLMap)
}

// TestFetchAndClip_TransportError は取得失敗が *TransportError として分類されることを検証します。
func TestFetchAndClip_TransportError(t *testing.T) {
	ctx := context.Background()

	cause := errors.New("network timeout")
	fetcher := &MockFetcher{fetchError: cause}
	extractor, err := extract.NewExtractor(fetcher)
	require.NoError(t, err)

	result, err := extractor.FetchAndClip(ctx, "https://example.com/post")
	assert.Nil(t, result)
	require.Error(t, err)

	var transport *extract.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "https://example.com/post", transport.URL)
	assert.ErrorIs(t, err, cause)
}

// TestFetchAndClip_Scenarios は代表的な入力バリエーションを検証します。
func TestFetchAndClip_Scenarios(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		html   string
		verify func(t *testing.T, title, content string, images []string)
	}{
		{
			name: "タイトルはh1へフォールバック",
			html: `<html><head></head><body><article><h1>Fallback Heading</h1>` +
				`<p>body</p></article></body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.Equal(t, "Fallback Heading", title)
			},
		},
		{
			name: "クラス指定のdivを本文ルートとして使用",
			html: `<html><head><title>T</title></head><body>` +
				`<div class="sidebar"><p>ignore me</p></div>` +
				`<div class="post-content"><p>real body</p></div>` +
				`</body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.Contains(t, content, "real body")
				assert.NotContains(t, content, "ignore me")
			},
		},
		{
			name: "著者ヘッドショットは出力に現れない",
			html: `<html><head><title>T</title></head><body><article>` +
				`<p>text</p>` +
				`<img src="https://example.com/people/jane.jpg" alt="Jane Smith">` +
				`<img src="https://example.com/chart.png" alt="sales chart">` +
				`</article></body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.Equal(t, []string{"https://example.com/chart.png"}, images)
				assert.NotContains(t, content, "Jane Smith")
			},
		},
		{
			name: "本文中のバナー再出現は同じplaceholderへ合流",
			html: `<html><head><title>T</title>` +
				`<meta property="og:image" content="https://example.com/hero.jpg">` +
				`</head><body><article><p>text</p>` +
				`<img src="https://example.com/hero.jpg?w=800"></article></body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.Equal(t, []string{"https://example.com/hero.jpg"}, images)
				// バナー図版と本文の再出現が同じファイル名を指す
				assert.Equal(t, 2, strings.Count(content, `src="images/image1.jpg"`))
			},
		},
		{
			name: "ラッパーバナーはog:imageより優先",
			html: `<html><head><title>T</title>` +
				`<meta property="og:image" content="https://example.com/og.png">` +
				`</head><body>` +
				`<div class="wrapper-banner-image" style="background-image: url('https://example.com/hero.jpg')"></div>` +
				`<article><p>text</p></article></body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.Equal(t, []string{"https://example.com/hero.jpg"}, images)
			},
		},
		{
			name: "スクリプトと許可外タグの除去",
			html: `<html><head><title>T</title></head><body><article>` +
				`<script>alert(1)</script><div><span>wrapped</span></div>` +
				`</article></body></html>`,
			verify: func(t *testing.T, title, content string, images []string) {
				assert.NotContains(t, content, "script")
				assert.NotContains(t, content, "<span>")
				assert.Contains(t, content, "wrapped")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &MockFetcher{htmlContent: tt.html}
			extractor, err := extract.NewExtractor(fetcher)
			require.NoError(t, err)

			result, err := extractor.FetchAndClip(ctx, "https://example.com/post")
			require.NoError(t, err)
			require.NotNil(t, result)

			tt.verify(t, result.Title, result.ContentHTML, result.Images)
		})
	}
}

// TestWithNoiseMarkers はサイト固有マーカーの差し替えを検証します。
func TestWithNoiseMarkers(t *testing.T) {
	ctx := context.Background()

	pageHTML := `<html><head><title>T</title></head><body><article>` +
		`<img src="https://example.com/staff-photo/x.jpg" alt="workspace">` +
		`<img src="https://example.com/content.png" alt="floor plan">` +
		`</article></body></html>`

	fetcher := &MockFetcher{htmlContent: pageHTML}
	extractor, err := extract.NewExtractor(fetcher, extract.WithNoiseMarkers("staff-photo"))
	require.NoError(t, err)

	result, err := extractor.FetchAndClip(ctx, "https://example.com/post")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/content.png"}, result.Images)
}
