package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlatPlaylist(t *testing.T) {
	data := []byte(`{
		"_type": "playlist",
		"id": "UCabcdefghijklmnopqrstuv",
		"entries": [
			{"_type": "url", "id": "vid00000001", "title": "First", "description": "First description"},
			null,
			{"_type": "url", "id": "vid00000002", "title": null},
			{"_type": "url", "id": "vid00000003", "title": "", "description": ""},
			{"_type": "url", "title": "No id"},
			{"_type": "url", "id": "vid00000001", "title": "Duplicate"}
		]
	}`)

	videos, err := parseFlatPlaylist(data)
	require.NoError(t, err)

	assert.Equal(t, []VideoRecord{
		{ID: "vid00000001", Title: "First", Description: "First description"},
		{ID: "vid00000002", Title: "No title", Description: "No description"},
		{ID: "vid00000003", Title: "No title", Description: "No description"},
	}, videos)
}

func TestParseFlatPlaylistNestedTabs(t *testing.T) {
	data := []byte(`{
		"_type": "playlist",
		"entries": [
			{"_type": "playlist", "id": "videos", "entries": [
				{"id": "vid00000001", "title": "Video"}
			]},
			{"_type": "playlist", "id": "shorts", "entries": [
				null,
				{"id": "short000001", "title": "Short"}
			]}
		]
	}`)

	videos, err := parseFlatPlaylist(data)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "vid00000001", videos[0].ID)
	assert.Equal(t, "short000001", videos[1].ID)
}

func TestParseFlatPlaylistEmpty(t *testing.T) {
	videos, err := parseFlatPlaylist([]byte(`{"_type": "playlist", "entries": []}`))
	require.NoError(t, err)
	assert.Empty(t, videos)

	_, err = parseFlatPlaylist([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseSRT(t *testing.T) {
	srt := "1\r\n00:00:00,000 --> 00:00:02,000\r\nHello there\r\n\r\n" +
		"2\r\n00:00:02,000 --> 00:00:04,000\r\nsecond line\r\nstill second\r\n\r\n" +
		"3\r\n00:00:04,000 --> 00:00:05,000\r\n\r\n"

	assert.Equal(t, []string{"Hello there", "second line", "still second"}, parseSRT(srt))
}

func TestRemoveDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"no duplicates", []string{"a b", "c d"}, []string{"a b", "c d"}},
		{"rolling captions", []string{"hello", "hello world", "world again"}, []string{"hello", "world", "world again"}},
		{"exact repeat", []string{"same", "same", "next"}, []string{"same", "next"}},
		{"short words survive", []string{"so", "so we started the company", "a", "banana"}, []string{"so", "we started the company", "a", "banana"}},
		{"shorter line after longer", []string{"banana", "a", "ban"}, []string{"banana", "a", "ban"}},
		{"prefix inside a word", []string{"we", "went home"}, []string{"we", "went home"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeDuplicates(tt.lines))
		})
	}
}

func TestEnsureYtDlp(t *testing.T) {
	origInstall, origInstalled := installYtDlp, installed
	t.Cleanup(func() { installYtDlp, installed = origInstall, origInstalled })
	installed = false

	calls := 0
	installYtDlp = func(ctx context.Context) error {
		calls++
		return errors.New("github rate limited")
	}

	yt := NewYouTube(t.TempDir(), NewWriterUI(nil, nil, false))
	require.NotPanics(t, func() {
		_, err := yt.ListVideos(context.Background(), "https://www.youtube.com/@RichAndLegit")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "installing yt-dlp: github rate limited")
	})

	_, err := yt.Metadata(context.Background(), VideoRecord{ID: "tAP1eZYEuKA"}.URL())
	assert.Error(t, err)
	_, err = yt.Subtitles(context.Background(), "tAP1eZYEuKA", nil)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)

	installYtDlp = func(ctx context.Context) error {
		calls++
		return nil
	}
	require.NoError(t, ensureYtDlp(context.Background()))
	require.NoError(t, ensureYtDlp(context.Background()))
	assert.Equal(t, 4, calls)
}

func TestSubtitleTranscriptsInstallFailure(t *testing.T) {
	origInstall, origInstalled := installYtDlp, installed
	t.Cleanup(func() { installYtDlp, installed = origInstall, origInstalled })
	installed = false
	installYtDlp = func(ctx context.Context) error { return errors.New("no network") }

	s := NewSubtitleTranscripts(NewYouTube(t.TempDir(), NewWriterUI(nil, nil, false)), []string{"en"})
	result := s.FetchTranscript(context.Background(), "tAP1eZYEuKA")
	assert.Equal(t, TranscriptFailed, result.Status)
	assert.Contains(t, result.Cell(), "installing yt-dlp")
}

func TestExtractSubtitleInfo(t *testing.T) {
	assert.True(t, extractSubtitleInfo(map[string]any{"subtitles": map[string]any{"en": []any{}}}))
	assert.True(t, extractSubtitleInfo(map[string]any{"automatic_captions": map[string]any{"en": []any{}}}))
	assert.False(t, extractSubtitleInfo(map[string]any{"subtitles": map[string]any{}}))
	assert.False(t, extractSubtitleInfo(map[string]any{}))
}
