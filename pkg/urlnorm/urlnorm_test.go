package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "正常ケース_https",
			raw:      "https://example.com/a.png",
			expected: "https://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_http",
			raw:      "http://example.com/a.png",
			expected: "http://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_プロトコル相対にはhttpsを補完",
			raw:      "//cdn.example.com/a.png",
			expected: "https://cdn.example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_前後の空白と引用符を除去",
			raw:      `  "https://example.com/a.png"  `,
			expected: "https://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_シングルクォートも除去",
			raw:      "'https://example.com/a.png'",
			expected: "https://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_パーセントエンコードはそのまま透過",
			raw:      "https://example.com/photo%28large%29.jpg",
			expected: "https://example.com/photo%28large%29.jpg",
			ok:       true,
		},
		{
			name:     "正常ケース_クエリ文字列は保持",
			raw:      "https://example.com/a.png?w=800",
			expected: "https://example.com/a.png?w=800",
			ok:       true,
		},
		{
			name: "エラーケース_相対パス",
			raw:  "/images/a.png",
			ok:   false,
		},
		{
			name: "エラーケース_dataスキーム",
			raw:  "data:image/png;base64,AAAA",
			ok:   false,
		},
		{
			name: "エラーケース_スキームなしのホスト名",
			raw:  "example.com/a.png",
			ok:   false,
		},
		{
			name: "エラーケース_URLでない文字列",
			raw:  "not a url",
			ok:   false,
		},
		{
			name: "エッジケース_空文字列",
			raw:  "",
			ok:   false,
		},
		{
			name: "エッジケース_引用符のみ",
			raw:  `""`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, actual)
			} else {
				assert.Empty(t, actual)
			}
		})
	}
}

func TestNormalizeAsset(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "正常ケース_クエリ文字列を除去",
			raw:      "https://example.com/a.png?w=800&h=600",
			expected: "https://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_クエリなしはそのまま",
			raw:      "https://example.com/a.png",
			expected: "https://example.com/a.png",
			ok:       true,
		},
		{
			name:     "正常ケース_プロトコル相対とクエリの組み合わせ",
			raw:      "//cdn.example.com/a.jpg?resize=1",
			expected: "https://cdn.example.com/a.jpg",
			ok:       true,
		},
		{
			name: "エラーケース_不正なURL",
			raw:  "javascript:alert(1)",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := NormalizeAsset(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, actual)
			}
		})
	}
}

func TestDecodeParens(t *testing.T) {
	assert.Equal(t, "https://example.com/photo(large).jpg",
		DecodeParens("https://example.com/photo%28large%29.jpg"))
	assert.Equal(t, "https://example.com/plain.jpg",
		DecodeParens(`"https://example.com/plain.jpg"`))
}
