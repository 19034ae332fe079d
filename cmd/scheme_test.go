package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{
			name:     "httpsはそのまま",
			input:    "https://example.com/post",
			expected: "https://example.com/post",
		},
		{
			name:     "httpもそのまま",
			input:    "http://example.com/post",
			expected: "http://example.com/post",
		},
		{
			name:     "スキームなしはhttpsを補完",
			input:    "example.com/post",
			expected: "https://example.com/post",
		},
		{
			name:        "ftpスキームはエラー",
			input:       "ftp://example.com/file",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := ensureScheme(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
