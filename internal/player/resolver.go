// Package player fetches watch pages from the media host and turns their
// embedded player configuration into normalized track metadata.
package player

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/famomatic/vget/internal/media"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config contains externally tunable settings for watch-page fetches.
type Config struct {
	// BaseURL is the host serving watch pages. Required for bare track IDs;
	// full watch URLs carry their own host.
	BaseURL string

	// UserAgent overrides the watch-page User-Agent.
	// If empty, package fallback is used.
	UserAgent string

	// Headers are additional headers for watch-page fetches.
	Headers http.Header

	// Retry tunes page-fetch retry behavior.
	Retry RetryConfig

	// Warnf receives non-fatal resolution warnings. May be nil.
	Warnf func(format string, args ...any)
}

// Resolver fetches watch pages and decodes them into tracks.
type Resolver struct {
	client *http.Client
	config Config
}

// NewResolver creates a Resolver. A nil client falls back to
// http.DefaultClient.
func NewResolver(client *http.Client, cfg Config) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{client: client, config: cfg}
}

// Resolve fetches the watch page for input and returns the normalized
// track with every source URL unlocked where possible.
func (r *Resolver) Resolve(ctx context.Context, input string) (*media.Track, error) {
	trackID, err := ExtractTrackID(input)
	if err != nil {
		return nil, err
	}
	watchURL, err := r.watchURL(input, trackID)
	if err != nil {
		return nil, err
	}

	page, err := fetchBytes(ctx, r.client, watchURL, r.pageHeaders(), r.config.Retry)
	if err != nil {
		return nil, err
	}

	setup, err := parsePlayerSetup(page)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(setup.Status, "ok") {
		return nil, &UnplayableError{Status: setup.Status, Reason: setup.Reason}
	}
	if len(setup.Sources) == 0 {
		return nil, ErrNoSources
	}

	token := ""
	if tok, tokenErr := newUnlocker(page).tokenFor(trackID); tokenErr != nil {
		r.warnf("token unlock failed for track=%s; keeping locked source urls: %v", trackID, tokenErr)
	} else {
		token = tok
	}

	return buildTrack(trackID, setup, token), nil
}

func (r *Resolver) watchURL(input, trackID string) (string, error) {
	base := baseURLFromInput(input)
	if base == "" {
		base = strings.TrimRight(strings.TrimSpace(r.config.BaseURL), "/")
	}
	if base == "" {
		return "", ErrNoBaseURL
	}
	u, err := url.Parse(base + "/watch")
	if err != nil {
		return "", fmt.Errorf("failed to build watch url: %w", err)
	}
	q := u.Query()
	q.Set("t", trackID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Resolver) pageHeaders() http.Header {
	headers := make(http.Header)
	ua := r.config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	headers.Set("User-Agent", ua)
	for k, vals := range r.config.Headers {
		for _, v := range vals {
			headers.Add(k, v)
		}
	}
	return headers
}

func (r *Resolver) warnf(format string, args ...any) {
	if r == nil || r.config.Warnf == nil {
		return
	}
	r.config.Warnf(format, args...)
}

func buildTrack(trackID string, setup *playerSetup, token string) *media.Track {
	track := &media.Track{
		ID:          firstNonEmpty(setup.Track.ID, trackID),
		Title:       setup.Track.Title,
		Uploader:    setup.Track.Uploader,
		Collection:  setup.Track.Playlist,
		DurationSec: setup.Track.Duration,
	}
	for _, src := range setup.Sources {
		if strings.TrimSpace(src.File) == "" {
			continue
		}
		sources := make([]string, 0, 1+len(src.Mirrors))
		sources = append(sources, src.File)
		sources = append(sources, src.Mirrors...)
		if token != "" {
			for i, s := range sources {
				sources[i] = appendTokenParam(s, token)
			}
		}
		track.Variants = append(track.Variants, media.Variant{
			Quality:  src.Label,
			MimeType: src.Type,
			Ext:      extFromSource(src),
			Bitrate:  src.Bitrate,
			HasAudio: sourceHasAudio(src.Type),
			HasVideo: sourceHasVideo(src.Type),
			Sources:  sources,
		})
	}
	return track
}

func appendTokenParam(rawURL, token string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("tk", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// sourceHasAudio treats video containers as muxed; the host serves
// progressive files, not split elementary streams.
func sourceHasAudio(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return strings.HasPrefix(mt, "audio/") || strings.HasPrefix(mt, "video/")
}

func sourceHasVideo(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "video/")
}

func extFromSource(src setupSource) string {
	candidates := make([]string, 0, 1+len(src.Mirrors))
	candidates = append(candidates, src.File)
	candidates = append(candidates, src.Mirrors...)
	for _, candidate := range candidates {
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
			return strings.ToLower(ext)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
