package internal

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(args ...string) (*cobra.Command, error) {
	cmd := &cobra.Command{Use: "test"}
	AddExportFlags(cmd)
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.Flags().BoolP("quiet", "q", false, "")
	return cmd, cmd.ParseFlags(args)
}

func baseConfig() *Config {
	return &Config{
		Output:              "VidsTranscript.csv",
		Source:              SourceYtDlp,
		TranscriptBackend:   BackendCaptions,
		TranscriptLanguages: []string{"en"},
		RequestDelay:        300 * time.Millisecond,
		PageDelay:           200 * time.Millisecond,
	}
}

func TestApplyFlags(t *testing.T) {
	cmd, err := newFlagCommand(
		"-o", "out/channel.csv",
		"--source", "API",
		"--transcripts", "subtitles",
		"--lang", "de,fr", "--lang", "en",
		"--delay", "1s",
		"--max-videos", "10",
		"--strict-handle",
	)
	require.NoError(t, err)

	config := baseConfig()
	require.NoError(t, ApplyFlags(cmd, config))

	assert.Equal(t, "out/channel.csv", config.Output)
	assert.Equal(t, SourceAPI, config.Source)
	assert.Equal(t, BackendSubtitles, config.TranscriptBackend)
	assert.Equal(t, []string{"de", "fr", "en"}, config.TranscriptLanguages)
	assert.Equal(t, time.Second, config.RequestDelay)
	assert.Equal(t, 200*time.Millisecond, config.PageDelay)
	assert.Equal(t, 10, config.MaxVideos)
	assert.True(t, config.StrictHandle)
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	cmd, err := newFlagCommand()
	require.NoError(t, err)

	config := baseConfig()
	require.NoError(t, ApplyFlags(cmd, config))
	assert.Equal(t, baseConfig(), config)
}

func TestApplyFlagsRejectsUnknownSource(t *testing.T) {
	cmd, err := newFlagCommand("--source", "rss")
	require.NoError(t, err)
	assert.Error(t, ApplyFlags(cmd, baseConfig()))
}

func TestHandleVerboseFlag(t *testing.T) {
	cmd, err := newFlagCommand("-v", "-q")
	require.NoError(t, err)

	config := baseConfig()
	require.NoError(t, HandleVerboseFlag(cmd, config))
	assert.True(t, config.Quiet)
	assert.False(t, config.Verbose)
}

func TestResolveAPIKeyKeepsExisting(t *testing.T) {
	config := baseConfig()
	config.YouTubeAPIKey = "key"
	require.NoError(t, ResolveAPIKey(config))
	assert.Equal(t, "key", config.YouTubeAPIKey)
}
