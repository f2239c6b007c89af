package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoArg(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"tAP1eZYEuKA", "tAP1eZYEuKA"},
		{" tAP1eZYEuKA\n", "tAP1eZYEuKA"},
		{"https://www.youtube.com/watch?v=tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://m.youtube.com/watch?v=tAP1eZYEuKA&t=42", "tAP1eZYEuKA"},
		{"youtube.com/watch?v=tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://youtu.be/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://www.youtube.com/shorts/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://www.youtube.com/live/tAP1eZYEuKA?feature=share", "tAP1eZYEuKA"},
		{"https://www.youtube.com/embed/tAP1eZYEuKA", "tAP1eZYEuKA"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := ParseVideoArg(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVideoArgInvalid(t *testing.T) {
	for _, arg := range []string{
		"",
		"short",
		"https://vimeo.com/123456789",
		"https://www.youtube.com/@RichAndLegit",
	} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseVideoArg(arg)
			assert.Error(t, err)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 60))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "日本語", Truncate("日本語のタイトル", 3))
}
