package internal

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// VideoLister enumerates the videos of one channel in upstream order
type VideoLister interface {
	ListVideos(ctx context.Context, channel string) ([]VideoRecord, error)
}

// ChannelResolver is implemented by listers that need a canonical channel id
// instead of the URL
type ChannelResolver interface {
	ResolveChannel(ctx context.Context, channelURL string) (string, error)
}

// DetailFetcher looks up title and description for a single video
type DetailFetcher interface {
	VideoDetails(ctx context.Context, videoID string) DetailResult
}

// App holds the application state and dependencies
type App struct {
	config      *Config
	ui          UIManager
	youtube     *YouTube
	api         *DataAPI
	lister      VideoLister
	details     DetailFetcher
	transcripts TranscriptFetcher
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	ui := NewUIManager(config.Verbose, config.Quiet)

	app := &App{
		config: config,
		ui:     ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	if app.youtube == nil {
		app.youtube = NewYouTube(config.SubtitlesDir, app.ui)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithYouTube sets a custom yt-dlp client
func WithYouTube(youtube *YouTube) AppOption {
	return func(a *App) {
		a.youtube = youtube
	}
}

// WithDataAPI sets a preconfigured Data API client
func WithDataAPI(api *DataAPI) AppOption {
	return func(a *App) {
		a.api = api
	}
}

// WithLister overrides the configured video source
func WithLister(lister VideoLister) AppOption {
	return func(a *App) {
		a.lister = lister
	}
}

// WithDetails sets the detail fetcher used together with WithLister
func WithDetails(details DetailFetcher) AppOption {
	return func(a *App) {
		a.details = details
	}
}

// WithTranscripts overrides the configured transcript backend
func WithTranscripts(transcripts TranscriptFetcher) AppOption {
	return func(a *App) {
		a.transcripts = transcripts
	}
}

// UI returns the app's UI manager
func (app *App) UI() UIManager {
	return app.ui
}

// dataAPI returns the Data API client, creating it on first use
func (app *App) dataAPI(ctx context.Context) (*DataAPI, error) {
	if app.api != nil {
		return app.api, nil
	}

	api, err := NewDataAPI(ctx, DataAPIConfig{
		APIKey:       app.config.YouTubeAPIKey,
		PageDelay:    app.config.PageDelay,
		StrictHandle: app.config.StrictHandle,
	}, app.ui)
	if err != nil {
		return nil, err
	}
	app.api = api
	return api, nil
}

// sources picks the lister and detail fetcher for a source name.
// An injected lister always wins.
func (app *App) sources(ctx context.Context, source string) (VideoLister, DetailFetcher, error) {
	if app.lister != nil {
		return app.lister, app.details, nil
	}
	if source == "" {
		source = app.config.Source
	}

	switch source {
	case "", SourceYtDlp:
		return app.youtube, nil, nil
	case SourceAPI:
		api, err := app.dataAPI(ctx)
		if err != nil {
			return nil, nil, err
		}
		return api, api, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q (supported: %s, %s)", source, SourceYtDlp, SourceAPI)
	}
}

func (app *App) transcriptFetcher() (TranscriptFetcher, error) {
	if app.transcripts != nil {
		return app.transcripts, nil
	}
	fetcher, err := NewTranscriptFetcher(app.config.TranscriptBackend, app.youtube, app.config.TranscriptLanguages)
	if err != nil {
		return nil, err
	}
	app.transcripts = fetcher
	return fetcher, nil
}

// ResolveChannel returns the canonical channel id through the Data API
func (app *App) ResolveChannel(ctx context.Context, channelURL string) (string, error) {
	api, err := app.dataAPI(ctx)
	if err != nil {
		return "", err
	}
	return api.ResolveChannel(ctx, channelURL)
}

// ListChannelVideos lists a channel's videos with the given source, or the
// configured one when source is empty. The api source only fills in IDs.
func (app *App) ListChannelVideos(ctx context.Context, channelURL, source string) ([]VideoRecord, error) {
	lister, _, err := app.sources(ctx, source)
	if err != nil {
		return nil, err
	}
	return app.listVideos(ctx, lister, channelURL, nil)
}

// listVideos resolves the channel first when the lister needs an id.
// Any listing failure is reported as ErrNoVideos.
func (app *App) listVideos(ctx context.Context, lister VideoLister, channelURL string, stats *ExportStats) ([]VideoRecord, error) {
	target := channelURL
	if resolver, ok := lister.(ChannelResolver); ok {
		id, err := resolver.ResolveChannel(ctx, channelURL)
		if err != nil {
			return nil, err
		}
		app.ui.Verbose("Resolved %s to channel %s\n", channelURL, id)
		if stats != nil {
			stats.ChannelID = id
		}
		target = id
	}

	videos, err := lister.ListVideos(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrNoVideos, err)
	}
	if len(videos) == 0 {
		return nil, ErrNoVideos
	}
	return videos, nil
}

// VideoTranscript fetches one transcript with the configured backend
func (app *App) VideoTranscript(ctx context.Context, videoArg string) (string, error) {
	videoID, err := ParseVideoArg(videoArg)
	if err != nil {
		return "", err
	}

	fetcher, err := app.transcriptFetcher()
	if err != nil {
		return "", err
	}

	result := fetcher.FetchTranscript(ctx, videoID)
	switch result.Status {
	case TranscriptOK:
		return result.Text, nil
	case TranscriptFailed:
		return "", fmt.Errorf("fetching transcript for %s: %w", videoID, result.Err)
	default:
		return "", fmt.Errorf("%s: %s", videoID, result.Cell())
	}
}

// VideoMetadata fetches yt-dlp metadata for one video
func (app *App) VideoMetadata(ctx context.Context, videoArg string) (*VideoMetadata, error) {
	videoID, err := ParseVideoArg(videoArg)
	if err != nil {
		return nil, err
	}
	return app.youtube.Metadata(ctx, VideoRecord{ID: videoID}.URL())
}

// ExportOptions selects what ExportChannel exports and where
type ExportOptions struct {
	ChannelURL string
	OutputPath string
	Source     string // empty uses the configured source
}

// ExportChannel writes one CSV row per channel video. Resolution and listing
// failures abort before the output file is touched; per-video failures only
// change the row's contents.
func (app *App) ExportChannel(ctx context.Context, opts ExportOptions) (stats *ExportStats, err error) {
	if opts.ChannelURL == "" {
		opts.ChannelURL = app.config.ChannelURL
	}
	if opts.OutputPath == "" {
		opts.OutputPath = app.config.Output
	}
	if opts.Source == "" {
		opts.Source = app.config.Source
	}
	if opts.ChannelURL == "" {
		return nil, fmt.Errorf("no channel URL given: %w", ErrInvalidChannelURL)
	}

	stats = &ExportStats{
		ChannelURL: opts.ChannelURL,
		Source:     opts.Source,
		OutputPath: opts.OutputPath,
	}

	lister, details, err := app.sources(ctx, opts.Source)
	if err != nil {
		return stats, err
	}
	transcripts, err := app.transcriptFetcher()
	if err != nil {
		return stats, err
	}

	app.ui.Printf("Starting export of channel: %s\n", opts.ChannelURL)
	app.ui.Printf("Output file: %s\n", opts.OutputPath)

	videos, err := app.listVideos(ctx, lister, opts.ChannelURL, stats)
	if err != nil {
		return stats, err
	}
	stats.Listed = len(videos)

	if limit := app.config.MaxVideos; limit > 0 && len(videos) > limit {
		app.ui.Verbose("Limiting export to the first %d of %d videos\n", limit, len(videos))
		videos = videos[:limit]
	}

	app.ui.Printf("\nProcessing %d videos...\n", len(videos))

	out, err := CreateCSV(opts.OutputPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var bar ProgressBar
	if app.ui.Interactive() {
		bar = app.ui.NewProgressBar(len(videos), "Exporting")
	}

	for i, video := range videos {
		if i > 0 {
			if err := pause(ctx, app.config.RequestDelay); err != nil {
				return stats, err
			}
		}

		title, description := video.Title, video.Description
		if details != nil {
			result := details.VideoDetails(ctx, video.ID)
			if !result.OK() {
				stats.DetailFailures++
				app.ui.Verbose("  Details for %s failed: %v\n", video.ID, result.Err)
			}
			title, description = result.OrPlaceholder()
		}

		if bar != nil {
			bar.Describe(Truncate(title, 40))
		} else {
			app.ui.Printf("\n[%d/%d] Processing video: %s\n", i+1, len(videos), video.ID)
			app.ui.Printf("  Title: %s...\n", Truncate(title, 60))
			app.ui.Printf("  Fetching transcript...\n")
		}

		transcript := transcripts.FetchTranscript(ctx, video.ID)
		if transcript.Err != nil && ctx.Err() != nil {
			return stats, ctx.Err()
		}

		if err := out.WriteRow(title, description, transcript.Cell()); err != nil {
			return stats, err
		}
		stats.Written = out.Rows()
		stats.Record(transcript)

		if bar != nil {
			bar.Set(i + 1)
		} else if transcript.Status == TranscriptOK {
			app.ui.Printf("  ✓ Transcript retrieved (%d characters)\n", utf8.RuneCountInString(transcript.Text))
		} else {
			app.ui.Printf("  ⚠️  %s\n", transcript.Cell())
		}
	}

	if bar != nil {
		bar.Finish()
	}
	app.ui.Printf("\n✓ Export complete! Data saved to: %s\n", out.Path())
	return stats, nil
}

// IsFatal reports whether err is one of the export preconditions
func IsFatal(err error) bool {
	return errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrNoVideos) ||
		errors.Is(err, ErrInvalidChannelURL) ||
		errors.Is(err, ErrMissingAPIKey)
}
