package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"
)

// ErrNoSubtitles is returned when yt-dlp ran but produced no subtitle file
var ErrNoSubtitles = errors.New("no subtitle files found after download")

// VideoMetadata contains the subset of yt-dlp's info JSON we use
type VideoMetadata struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Channel     string  `json:"channel"`
	ChannelID   string  `json:"channel_id"`
	Duration    float64 `json:"duration"`
	HasCaptions bool    `json:"has_captions"`
}

var (
	installMu sync.Mutex
	installed bool

	installYtDlp = func(ctx context.Context) error {
		_, err := ytdlp.Install(ctx, nil)
		return err
	}
)

// ensureYtDlp installs or updates the yt-dlp binary on first use. A failed
// install is retried by the next caller.
func ensureYtDlp(ctx context.Context) error {
	installMu.Lock()
	defer installMu.Unlock()

	if installed {
		return nil
	}
	if err := installYtDlp(ctx); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	installed = true
	return nil
}

// YouTube lists channels and downloads subtitles through yt-dlp
type YouTube struct {
	cacheDir string
	ui       UIManager
}

// NewYouTube creates a new yt-dlp backed client. Subtitle files are staged in cacheDir.
func NewYouTube(cacheDir string, ui UIManager) *YouTube {
	return &YouTube{
		cacheDir: cacheDir,
		ui:       ui,
	}
}

// ListVideos runs a single flat extraction over the channel's uploads and
// returns every available entry in the order yt-dlp reports them
func (yt *YouTube) ListVideos(ctx context.Context, channelURL string) ([]VideoRecord, error) {
	if err := ensureYtDlp(ctx); err != nil {
		return nil, err
	}
	target := VideosTabURL(channelURL)
	yt.ui.Verbose("Extracting video list from %s\n", target)

	dl := ytdlp.New().
		FlatPlaylist().       // Metadata only, don't resolve each entry
		DumpSingleJSON().     // One JSON document for the whole channel
		SkipDownload().       // Never download media
		IgnoreErrors().       // Unavailable entries come back as null
		NoWarnings().         // Keep stderr quiet
		NoCheckCertificates() // Proxy environments with custom CAs

	result, err := dl.Run(ctx, target)
	if err != nil {
		if result != nil {
			yt.ui.Verbose("Stderr: %s\n", result.Stderr)
		}
		// With --ignore-errors yt-dlp exits non-zero on partial failures but
		// still prints the playlist JSON, so only give up when there is none.
		if result == nil || strings.TrimSpace(result.Stdout) == "" {
			return nil, fmt.Errorf("extracting channel videos: %w", err)
		}
	}

	videos, err := parseFlatPlaylist([]byte(result.Stdout))
	if err != nil {
		return nil, err
	}

	for i := range videos {
		if (i+1)%10 == 0 {
			yt.ui.Verbose("  Retrieved %d videos so far...\n", i+1)
		}
	}
	yt.ui.Verbose("Total videos found: %d\n", len(videos))

	return videos, nil
}

// flatEntry is one element of a flat playlist's entries array.
// Channel pages nest one playlist per tab, so entries may carry entries.
type flatEntry struct {
	Type        string            `json:"_type"`
	ID          string            `json:"id"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Entries     []json.RawMessage `json:"entries"`
}

// parseFlatPlaylist turns yt-dlp --flat-playlist JSON into video records,
// dropping null entries and filling in missing titles and descriptions
func parseFlatPlaylist(data []byte) ([]VideoRecord, error) {
	var root flatEntry
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing playlist JSON: %w", err)
	}

	var videos []VideoRecord
	seen := make(map[string]bool)
	if err := collectEntries(root.Entries, seen, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func collectEntries(raw []json.RawMessage, seen map[string]bool, out *[]VideoRecord) error {
	for _, msg := range raw {
		if len(msg) == 0 || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}

		var entry flatEntry
		if err := json.Unmarshal(msg, &entry); err != nil {
			return fmt.Errorf("parsing playlist entry: %w", err)
		}

		if entry.Type == "playlist" || len(entry.Entries) > 0 {
			if err := collectEntries(entry.Entries, seen, out); err != nil {
				return err
			}
			continue
		}

		if entry.ID == "" || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		video := VideoRecord{ID: entry.ID, Title: NoTitle, Description: NoDescription}
		if entry.Title != nil && *entry.Title != "" {
			video.Title = *entry.Title
		}
		if entry.Description != nil && *entry.Description != "" {
			video.Description = *entry.Description
		}
		*out = append(*out, video)
	}
	return nil
}

// Metadata fetches video details using go-ytdlp
func (yt *YouTube) Metadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	if err := ensureYtDlp(ctx); err != nil {
		return nil, err
	}
	yt.ui.Verbose("Extracting video metadata...\n")

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't process playlists
		SkipDownload()    // Don't download the actual video

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if result != nil {
			yt.ui.Verbose("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	var rawData map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &rawData); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	var metadata VideoMetadata
	if err := json.Unmarshal([]byte(result.Stdout), &metadata); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}
	metadata.HasCaptions = extractSubtitleInfo(rawData)

	return &metadata, nil
}

// Subtitles downloads the video's subtitles as SRT and returns the flattened text
func (yt *YouTube) Subtitles(ctx context.Context, videoID string, langs []string) (string, error) {
	if err := ensureYtDlp(ctx); err != nil {
		return "", err
	}
	if err := EnsureDirs(yt.cacheDir); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	subLangs := "en.*"
	if len(langs) > 0 {
		subLangs = strings.Join(langs, ",")
	}

	dl := ytdlp.New().
		WriteSubs().        // Enable subtitle writing
		WriteAutoSubs().    // Enable auto-generated subtitle writing
		SubLangs(subLangs). // Requested languages, passed through verbatim
		ConvertSubs("srt"). // Convert subtitles to SRT format
		SkipDownload().     // Skip downloading the video
		Output(filepath.Join(yt.cacheDir, "%(id)s"))

	result, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		if result != nil {
			yt.ui.Verbose("Subtitle download stderr: %s\n", result.Stderr)
			return "", fmt.Errorf("downloading subtitles: %w: %s", err, strings.TrimSpace(result.Stderr))
		}
		return "", fmt.Errorf("downloading subtitles: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(yt.cacheDir, videoID+"*.srt"))
	if err != nil || len(files) == 0 {
		return "", ErrNoSubtitles
	}
	defer cleanupFiles(files...)

	content, err := os.ReadFile(files[0])
	if err != nil {
		return "", fmt.Errorf("reading SRT file: %w", err)
	}

	return strings.Join(removeDuplicates(parseSRT(string(content))), " "), nil
}

// parseSRT extracts text content from SRT format
func parseSRT(content string) []string {
	var lines []string

	content = strings.ReplaceAll(content, "\r\n", "\n")
	for block := range strings.SplitSeq(content, "\n\n") {
		blockLines := strings.Split(strings.TrimLeft(block, "\n"), "\n")
		if len(blockLines) >= 3 {
			// Skip sequence number and timestamp, get text lines
			for i := 2; i < len(blockLines); i++ {
				if strings.TrimSpace(blockLines[i]) != "" {
					lines = append(lines, strings.TrimSpace(blockLines[i]))
				}
			}
		}
	}

	return lines
}

// removeDuplicates drops consecutive repeated lines.
// Auto captions roll, so a cue often starts with the whole previous cue;
// only the words it adds are kept.
func removeDuplicates(lines []string) []string {
	result := make([]string, 0, len(lines))
	prevLine := ""

	for _, line := range lines {
		switch {
		case line == prevLine:
		case prevLine != "" && strings.HasPrefix(line, prevLine+" "):
			result = append(result, strings.TrimSpace(line[len(prevLine):]))
		default:
			result = append(result, line)
		}
		prevLine = line
	}

	return result
}

// extractSubtitleInfo extracts subtitle availability from yt-dlp JSON output
func extractSubtitleInfo(rawData map[string]any) bool {
	if subtitles, ok := rawData["subtitles"].(map[string]any); ok && len(subtitles) > 0 {
		return true
	}
	if autoCaptions, ok := rawData["automatic_captions"].(map[string]any); ok && len(autoCaptions) > 0 {
		return true
	}
	return false
}
