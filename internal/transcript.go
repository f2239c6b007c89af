package internal

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"
)

// Transcript backends selectable in config
const (
	BackendCaptions  = "captions"
	BackendSubtitles = "subtitles"
)

// TranscriptFetcher retrieves the flattened transcript of one video.
// Implementations never return an error; failures are tagged in the result.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) TranscriptResult
}

// TranscriptFetcherFunc adapts a plain function to TranscriptFetcher
type TranscriptFetcherFunc func(ctx context.Context, videoID string) TranscriptResult

func (f TranscriptFetcherFunc) FetchTranscript(ctx context.Context, videoID string) TranscriptResult {
	return f(ctx, videoID)
}

// captionClient is the part of the transcript library we call
type captionClient interface {
	GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error)
}

// CaptionTranscripts fetches caption tracks through the transcript library
type CaptionTranscripts struct {
	client    captionClient
	languages []string
}

// NewCaptionTranscripts creates a caption fetcher that asks for the given languages
func NewCaptionTranscripts(languages []string, opts ...yt_transcript.Option) *CaptionTranscripts {
	return &CaptionTranscripts{
		client:    yt_transcript.NewClient(opts...),
		languages: defaultLanguages(languages),
	}
}

// FetchTranscript implements TranscriptFetcher
func (c *CaptionTranscripts) FetchTranscript(ctx context.Context, videoID string) TranscriptResult {
	if err := ctx.Err(); err != nil {
		return TranscriptResult{Status: TranscriptFailed, Err: err}
	}

	tracks, err := c.client.GetTranscripts(videoID, c.languages)
	if err != nil {
		return classifyTranscriptError(err)
	}

	track, ok := pickTrack(tracks, c.languages)
	if !ok {
		return TranscriptResult{Status: TranscriptNotFound, Err: fmt.Errorf("no transcript found for %s", videoID)}
	}

	text := trackText(track)
	if text == "" {
		return TranscriptResult{Status: TranscriptNotFound, Err: errors.New("empty transcript")}
	}
	return TranscriptResult{Status: TranscriptOK, Text: text}
}

// SubtitleTranscripts downloads subtitle files with yt-dlp
type SubtitleTranscripts struct {
	youtube   *YouTube
	languages []string
}

// NewSubtitleTranscripts creates a yt-dlp subtitle fetcher
func NewSubtitleTranscripts(youtube *YouTube, languages []string) *SubtitleTranscripts {
	return &SubtitleTranscripts{youtube: youtube, languages: languages}
}

// FetchTranscript implements TranscriptFetcher
func (s *SubtitleTranscripts) FetchTranscript(ctx context.Context, videoID string) TranscriptResult {
	// Check metadata first to see if captions are available (faster than attempting download)
	metadata, err := s.youtube.Metadata(ctx, VideoRecord{ID: videoID}.URL())
	if err != nil {
		return classifyTranscriptError(err)
	}
	if !metadata.HasCaptions {
		return TranscriptResult{Status: TranscriptNotFound, Err: fmt.Errorf("no captions available for %s", videoID)}
	}

	text, err := s.youtube.Subtitles(ctx, videoID, s.languages)
	if err != nil {
		if errors.Is(err, ErrNoSubtitles) {
			return TranscriptResult{Status: TranscriptNotFound, Err: err}
		}
		return classifyTranscriptError(err)
	}

	text = flattenTranscript(text)
	if text == "" {
		return TranscriptResult{Status: TranscriptNotFound, Err: ErrNoSubtitles}
	}
	return TranscriptResult{Status: TranscriptOK, Text: text}
}

// NewTranscriptFetcher picks a transcript backend by name
func NewTranscriptFetcher(backend string, youtube *YouTube, languages []string) (TranscriptFetcher, error) {
	switch backend {
	case "", BackendCaptions:
		return NewCaptionTranscripts(languages), nil
	case BackendSubtitles:
		return NewSubtitleTranscripts(youtube, languages), nil
	default:
		return nil, fmt.Errorf("unknown transcript backend %q (supported: %s, %s)", backend, BackendCaptions, BackendSubtitles)
	}
}

// pickTrack returns the single track to export. The library returns every
// track matching any requested language, so a manual track and the
// auto-generated one for the same language both come back. Preference
// order wins first, then uploader captions over asr.
func pickTrack(tracks []yt_transcript_models.Transcript, languages []string) (yt_transcript_models.Transcript, bool) {
	if len(tracks) == 0 {
		return yt_transcript_models.Transcript{}, false
	}
	for _, lang := range languages {
		var generated *yt_transcript_models.Transcript
		for i := range tracks {
			if tracks[i].LanguageCode != lang {
				continue
			}
			if !tracks[i].IsGenerated {
				return tracks[i], true
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, true
		}
	}
	return tracks[0], true
}

var formattingTag = regexp.MustCompile(`(?i)</?(?:strong|em|b|i|mark|small|del|ins|sub|sup)\b[^>]*>`)

// trackText joins the lines of one track into a single flattened string
func trackText(track yt_transcript_models.Transcript) string {
	parts := make([]string, 0, len(track.Lines))
	for _, line := range track.Lines {
		parts = append(parts, formattingTag.ReplaceAllString(line.Text, ""))
	}
	return flattenTranscript(strings.Join(parts, " "))
}

// Messages the caption library uses for the two known outcomes.
// A video with captions turned off has no captions block in its player
// response at all.
var (
	disabledMarkers = []string{
		"captions not found in response",
		"playercaptionstracklistrenderer not found",
	}
	notFoundMarkers = []string{
		"no transcript found",
		"no transcripts found",
	}
)

// classifyTranscriptError maps a library error onto the transcript outcomes.
// The library reports these conditions by message only.
func classifyTranscriptError(err error) TranscriptResult {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return TranscriptResult{Status: TranscriptFailed, Err: err}
	}

	msg := strings.ToLower(err.Error())
	for _, m := range disabledMarkers {
		if strings.Contains(msg, m) {
			return TranscriptResult{Status: TranscriptDisabled, Err: err}
		}
	}
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return TranscriptResult{Status: TranscriptNotFound, Err: err}
		}
	}
	return TranscriptResult{Status: TranscriptFailed, Err: err}
}

// flattenTranscript joins segment text with single spaces
func flattenTranscript(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func defaultLanguages(languages []string) []string {
	if len(languages) == 0 {
		return []string{"en"}
	}
	return languages
}
