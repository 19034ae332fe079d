package images_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shouni/go-blog-clip/pkg/images"
)

func TestResolveBanner(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
		ok       bool
	}{
		{
			name: "正常ケース_ラッパーのbackground-imageが最優先",
			html: `<head><meta property="og:image" content="https://example.com/og.png"></head>
				<body>
				<div class="wrapper-banner-image" style="background-image: url('https://example.com/hero.jpg')"></div>
				</body>`,
			expected: "https://example.com/hero.jpg",
			ok:       true,
		},
		{
			name: "正常ケース_ラッパー内のimgへフォールバック",
			html: `<body>
				<div class="wrapper-banner-image"><img src="https://example.com/hero-img.jpg"></div>
				</body>`,
			expected: "https://example.com/hero-img.jpg",
			ok:       true,
		},
		{
			name: "正常ケース_ラッパー内の遅延読み込みimg",
			html: `<body>
				<div class="wrapper-banner-image"><img data-src="https://example.com/lazy-hero.jpg"></div>
				</body>`,
			expected: "https://example.com/lazy-hero.jpg",
			ok:       true,
		},
		{
			name: "正常ケース_文書順で最初のbackground-image",
			html: `<body>
				<div style="color: red"></div>
				<section style="background-image: url(https://example.com/first-bg.jpg)"></section>
				<div style="background-image: url(https://example.com/second-bg.jpg)"></div>
				</body>`,
			expected: "https://example.com/first-bg.jpg",
			ok:       true,
		},
		{
			name: "正常ケース_og:imageへのフォールバック",
			html: `<head><meta property="og:image" content="https://example.com/og.png"></head>
				<body><p>no hero here</p></body>`,
			expected: "https://example.com/og.png",
			ok:       true,
		},
		{
			name: "正常ケース_バナーURLはクエリを保持する",
			html: `<body>
				<div class="wrapper-banner-image" style="background-image: url('https://example.com/hero.jpg?w=1920')"></div>
				</body>`,
			expected: "https://example.com/hero.jpg?w=1920",
			ok:       true,
		},
		{
			name: "エッジケース_ラッパーはあるが中身が無効",
			html: `<head><meta property="og:image" content="https://example.com/og.png"></head>
				<body><div class="wrapper-banner-image"></div></body>`,
			expected: "https://example.com/og.png",
			ok:       true,
		},
		{
			name: "エッジケース_バナーなし",
			html: `<body><p>plain article</p></body>`,
			ok:   false,
		},
		{
			name: "エッジケース_og:imageが相対パスで無効",
			html: `<head><meta property="og:image" content="/og.png"></head>
				<body><p>text</p></body>`,
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, tt.html)
			actual, ok := images.ResolveBanner(doc)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}
