package internal

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	handleRE    = regexp.MustCompile(`^@([A-Za-z0-9._-]{3,30})$`)
	channelIDRE = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	legacyRE    = regexp.MustCompile(`^[^/?#\s]+$`)
)

// channelTabs are the channel page tabs yt-dlp treats as separate playlists
var channelTabs = []string{"videos", "shorts", "streams", "live", "playlists", "featured", "podcasts", "releases"}

// ParseChannelURL extracts the channel discriminator from a URL.
// The first matching shape wins and an @handle anywhere in the path takes precedence.
func ParseChannelURL(raw string) (ChannelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ChannelRef{}, fmt.Errorf("empty channel URL: %w", ErrInvalidChannelURL)
	}

	// Bare forms: "@handle" or "UCxxxx"
	if !strings.Contains(raw, "/") {
		if m := handleRE.FindStringSubmatch(raw); m != nil {
			return newChannelRef(ChannelRefHandle, m[1]), nil
		}
		if channelIDRE.MatchString(raw) {
			return newChannelRef(ChannelRefID, raw), nil
		}
		return ChannelRef{}, fmt.Errorf("%q: %w", raw, ErrInvalidChannelURL)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ChannelRef{}, fmt.Errorf("parsing URL: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "youtube.com" && host != "m.youtube.com" {
		return ChannelRef{}, fmt.Errorf("not a YouTube channel URL: %s: %w", raw, ErrInvalidChannelURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	for _, p := range parts {
		if m := handleRE.FindStringSubmatch(p); m != nil {
			return newChannelRef(ChannelRefHandle, m[1]), nil
		}
	}

	if len(parts) >= 2 {
		name, value := parts[0], parts[1]
		switch {
		case name == "channel" && channelIDRE.MatchString(value):
			return newChannelRef(ChannelRefID, value), nil
		case name == "c" && legacyRE.MatchString(value):
			return newChannelRef(ChannelRefCustom, value), nil
		case name == "user" && legacyRE.MatchString(value):
			return newChannelRef(ChannelRefUser, value), nil
		}
	}

	return ChannelRef{}, fmt.Errorf("%s: %w", raw, ErrInvalidChannelURL)
}

func newChannelRef(kind ChannelRefKind, value string) ChannelRef {
	var path string
	switch kind {
	case ChannelRefHandle:
		path = "@" + value
	case ChannelRefID:
		path = "channel/" + value
	case ChannelRefCustom:
		path = "c/" + value
	case ChannelRefUser:
		path = "user/" + value
	}
	return ChannelRef{Kind: kind, Value: value, URL: "https://www.youtube.com/" + path}
}

// VideosTabURL points a channel URL at its uploads tab so a flat extraction
// yields videos instead of one playlist per tab. URLs that already name a tab
// or are not channel URLs are returned unchanged.
func VideosTabURL(raw string) string {
	raw = strings.TrimSpace(raw)
	ref, err := ParseChannelURL(raw)
	if err != nil {
		return raw
	}

	if strings.Contains(raw, "/") {
		u, err := url.Parse(raw)
		if err == nil {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			last := strings.ToLower(parts[len(parts)-1])
			for _, tab := range channelTabs {
				if last == tab {
					return raw
				}
			}
		}
	}

	return ref.URL + "/videos"
}
