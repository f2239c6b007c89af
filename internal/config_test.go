package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("CHANSCRIBE_YOUTUBE_API_KEY", "")

	v := newViper(t.TempDir(), "")
	config := configFromViper(v)

	assert.Equal(t, "VidsTranscript.csv", config.Output)
	assert.Equal(t, SourceYtDlp, config.Source)
	assert.Equal(t, BackendCaptions, config.TranscriptBackend)
	assert.Equal(t, []string{"en"}, config.TranscriptLanguages)
	assert.Equal(t, 300*time.Millisecond, config.RequestDelay)
	assert.Equal(t, 200*time.Millisecond, config.PageDelay)
	assert.Zero(t, config.MaxVideos)
	assert.Empty(t, config.YouTubeAPIKey)
	require.NoError(t, config.Validate())
}

func TestConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
channel_url = "https://www.youtube.com/@RichAndLegit"
source = "API"
request_delay = "1s"
transcript_languages = ["en", "de"]
max_videos = 5
youtube_api_key = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("CHANSCRIBE_OUTPUT", "env.csv")
	t.Setenv("CHANSCRIBE_YOUTUBE_API_KEY", "")
	t.Setenv("YOUTUBE_API_KEY", "from-env")

	v := newViper(t.TempDir(), path)
	require.NoError(t, v.ReadInConfig())
	config := configFromViper(v)

	assert.Equal(t, "https://www.youtube.com/@RichAndLegit", config.ChannelURL)
	assert.Equal(t, SourceAPI, config.Source)
	assert.Equal(t, time.Second, config.RequestDelay)
	assert.Equal(t, []string{"en", "de"}, config.TranscriptLanguages)
	assert.Equal(t, 5, config.MaxVideos)
	assert.Equal(t, "env.csv", config.Output)
	assert.Equal(t, "from-env", config.YouTubeAPIKey)
}

func TestSplitLanguages(t *testing.T) {
	assert.Equal(t, []string{"en", "de", "fr"}, splitLanguages([]string{"en, de", "fr"}))
	assert.Nil(t, splitLanguages([]string{" , "}))
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Source: SourceAPI, TranscriptBackend: BackendSubtitles}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.Source = "rss" }},
		{"unknown backend", func(c *Config) { c.TranscriptBackend = "whisper" }},
		{"negative max videos", func(c *Config) { c.MaxVideos = -1 }},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.modify(&config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestEnsureDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chanscribe")
	require.NoError(t, EnsureDefaultConfig(dir))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "request_delay")

	// An existing file is left alone
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("output = \"mine.csv\"\n"), 0644))
	require.NoError(t, EnsureDefaultConfig(dir))
	data, err = os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "output = \"mine.csv\"\n", string(data))
}
