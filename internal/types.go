package internal

import (
	"errors"
	"fmt"
)

// Fatal preconditions of an export run
var (
	ErrInvalidChannelURL = errors.New("unrecognized channel URL")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrNoVideos          = errors.New("no videos found")
	ErrMissingAPIKey     = errors.New("YouTube Data API key is required - set youtube_api_key in config.toml or the YOUTUBE_API_KEY environment variable")
	ErrQuotaExceeded     = errors.New("YouTube Data API quota exceeded")
)

// Fallback values written to the CSV when a lookup fails
const (
	NoTitle          = "No title"
	NoDescription    = "No description"
	ErrorTitle       = "Error fetching title"
	ErrorDescription = "Error fetching description"

	TranscriptDisabledText = "No transcript available (disabled by uploader)"
	TranscriptNotFoundText = "No transcript available (not found)"
	transcriptErrorPrefix  = "Error fetching transcript: "
)

// ChannelRefKind is the URL shape a channel was given in
type ChannelRefKind int

const (
	ChannelRefUnknown ChannelRefKind = iota
	ChannelRefHandle
	ChannelRefID
	ChannelRefCustom
	ChannelRefUser
)

// String returns a human-readable representation of the reference kind
func (k ChannelRefKind) String() string {
	switch k {
	case ChannelRefHandle:
		return "handle"
	case ChannelRefID:
		return "channel id"
	case ChannelRefCustom:
		return "custom url"
	case ChannelRefUser:
		return "username"
	default:
		return "unknown"
	}
}

// ChannelRef is a parsed channel URL
type ChannelRef struct {
	Kind  ChannelRefKind
	Value string // handle without "@", channel id, or legacy name
	URL   string // normalized https://www.youtube.com/... form
}

// String returns a formatted representation of the reference
func (r ChannelRef) String() string {
	return fmt.Sprintf("%s %q", r.Kind, r.Value)
}

// VideoRecord is one video as reported by a lister.
// Title and Description are empty when the source only lists ids.
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// URL returns the watch URL of the video
func (v VideoRecord) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// DetailResult is the outcome of a single video metadata lookup
type DetailResult struct {
	Title       string
	Description string
	Err         error
}

// OK reports whether the lookup succeeded
func (d DetailResult) OK() bool {
	return d.Err == nil
}

// OrPlaceholder returns the title and description, substituting the fixed
// placeholders when the lookup failed
func (d DetailResult) OrPlaceholder() (string, string) {
	if d.Err != nil {
		return ErrorTitle, ErrorDescription
	}
	return d.Title, d.Description
}

// TranscriptStatus tags the outcome of a transcript fetch
type TranscriptStatus int

const (
	TranscriptOK TranscriptStatus = iota
	TranscriptDisabled
	TranscriptNotFound
	TranscriptFailed
)

// String returns a short name for the status
func (s TranscriptStatus) String() string {
	switch s {
	case TranscriptOK:
		return "ok"
	case TranscriptDisabled:
		return "disabled"
	case TranscriptNotFound:
		return "not found"
	case TranscriptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TranscriptResult is the tagged outcome of a transcript fetch
type TranscriptResult struct {
	Status TranscriptStatus
	Text   string
	Err    error
}

// Cell renders the result as the value of the CSV transcript column
func (r TranscriptResult) Cell() string {
	switch r.Status {
	case TranscriptOK:
		return r.Text
	case TranscriptDisabled:
		return TranscriptDisabledText
	case TranscriptNotFound:
		return TranscriptNotFoundText
	default:
		if r.Err == nil {
			return transcriptErrorPrefix + "unknown error"
		}
		return transcriptErrorPrefix + r.Err.Error()
	}
}

// ExportStats summarizes an export run
type ExportStats struct {
	ChannelURL     string
	ChannelID      string
	Source         string
	OutputPath     string
	Listed         int
	Written        int
	Transcripts    int
	Disabled       int
	NotFound       int
	Failed         int
	DetailFailures int
}

// Record counts a transcript outcome
func (s *ExportStats) Record(r TranscriptResult) {
	switch r.Status {
	case TranscriptOK:
		s.Transcripts++
	case TranscriptDisabled:
		s.Disabled++
	case TranscriptNotFound:
		s.NotFound++
	default:
		s.Failed++
	}
}
