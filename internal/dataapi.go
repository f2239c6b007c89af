package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PlaylistPageSize is the largest page playlistItems.list will return
const PlaylistPageSize = 50

// DataAPI resolves channels and lists uploads through the YouTube Data API v3
type DataAPI struct {
	svc          *youtube.Service
	pages        *rate.Limiter
	strictHandle bool
	ui           UIManager
}

// DataAPIConfig holds the settings the Data API client needs
type DataAPIConfig struct {
	APIKey       string
	PageDelay    time.Duration
	StrictHandle bool
}

// NewDataAPI creates a Data API client. Extra client options are appended
// after the API key, so tests can point the client at a local server.
func NewDataAPI(ctx context.Context, cfg DataAPIConfig, ui UIManager, opts ...option.ClientOption) (*DataAPI, error) {
	if cfg.APIKey == "" && len(opts) == 0 {
		return nil, ErrMissingAPIKey
	}

	var clientOpts []option.ClientOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating YouTube Data API client: %w", err)
	}

	return &DataAPI{
		svc:          svc,
		pages:        newPacer(cfg.PageDelay),
		strictHandle: cfg.StrictHandle,
		ui:           ui,
	}, nil
}

// ResolveChannel turns a channel URL into its canonical UC... id.
// Every failure, including API errors and empty results, wraps ErrChannelNotFound.
func (d *DataAPI) ResolveChannel(ctx context.Context, channelURL string) (string, error) {
	ref, err := ParseChannelURL(channelURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrChannelNotFound, err)
	}

	switch ref.Kind {
	case ChannelRefID:
		return ref.Value, nil
	case ChannelRefHandle:
		return d.resolveHandle(ctx, ref)
	default:
		return d.resolveUsername(ctx, ref)
	}
}

func (d *DataAPI) resolveHandle(ctx context.Context, ref ChannelRef) (string, error) {
	d.ui.Verbose("Looking up handle @%s\n", ref.Value)

	resp, err := d.svc.Channels.List([]string{"id"}).
		ForHandle("@" + ref.Value).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrChannelNotFound, ref, apiError(err))
	}
	if len(resp.Items) > 0 && resp.Items[0].Id != "" {
		return resp.Items[0].Id, nil
	}

	if d.strictHandle {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
	}

	// The handle lookup came back empty; fall back to the first channel search hit
	d.ui.Verbose("No exact match for @%s, falling back to search\n", ref.Value)
	search, err := d.svc.Search.List([]string{"snippet"}).
		Q("@" + ref.Value).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrChannelNotFound, ref, apiError(err))
	}
	for _, item := range search.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
}

func (d *DataAPI) resolveUsername(ctx context.Context, ref ChannelRef) (string, error) {
	d.ui.Verbose("Looking up username %s\n", ref.Value)

	resp, err := d.svc.Channels.List([]string{"id"}).
		ForUsername(ref.Value).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrChannelNotFound, ref, apiError(err))
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == "" {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
	}
	return resp.Items[0].Id, nil
}

// UploadsPlaylist returns the id of the channel's implicit uploads playlist
func (d *DataAPI) UploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	resp, err := d.svc.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("retrieving channel info for %q: %w", channelID, apiError(err))
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %q", ErrChannelNotFound, channelID)
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("channel %q has no uploads playlist", channelID)
	}
	return details.RelatedPlaylists.Uploads, nil
}

// ListVideos lists every upload of the channel with the given canonical id.
// Records only carry ids; titles and descriptions come from VideoDetails.
func (d *DataAPI) ListVideos(ctx context.Context, channelID string) ([]VideoRecord, error) {
	uploads, err := d.UploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	ids, err := d.PlaylistVideoIDs(ctx, uploads)
	if err != nil {
		return nil, err
	}

	videos := make([]VideoRecord, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, VideoRecord{ID: id})
	}
	return videos, nil
}

// PlaylistVideoIDs pages through a playlist until the response carries no
// next page token, keeping the reported order and dropping repeats
func (d *DataAPI) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	token := ""

	for page := 1; ; page++ {
		if err := d.pages.Wait(ctx); err != nil {
			return nil, err
		}

		call := d.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(PlaylistPageSize).
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("retrieving playlist %q page %d: %w", playlistID, page, apiError(err))
		}

		for _, item := range resp.Items {
			if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			id := item.ContentDetails.VideoId
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		d.ui.Verbose("Retrieved page %d (%d videos so far)\n", page, len(ids))

		if resp.NextPageToken == "" {
			return ids, nil
		}
		token = resp.NextPageToken
	}
}

// VideoDetails looks up one video's title and description.
// Failures are reported in the result rather than returned.
func (d *DataAPI) VideoDetails(ctx context.Context, videoID string) DetailResult {
	resp, err := d.svc.Videos.List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return DetailResult{Err: fmt.Errorf("video %q: %w", videoID, apiError(err))}
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return DetailResult{Err: fmt.Errorf("video %q: no items in response", videoID)}
	}

	snippet := resp.Items[0].Snippet
	return DetailResult{Title: snippet.Title, Description: snippet.Description}
}

// apiError tags quota errors so callers can tell them apart from other 403s
func apiError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		return err
	}
	for _, item := range gerr.Errors {
		if strings.Contains(item.Reason, "quotaExceeded") || strings.Contains(item.Reason, "dailyLimitExceeded") {
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
	}
	return err
}
