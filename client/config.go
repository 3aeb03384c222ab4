package client

import (
	"net/http"
	"time"

	"github.com/famomatic/vget/internal/downloader"
	"github.com/famomatic/vget/internal/media"
	"github.com/famomatic/vget/internal/player"
)

// Config holds configuration for the media client.
type Config struct {
	// HTTPClient is the client used for making requests.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// ProxyURL is the optional proxy URL to use for requests.
	// If HTTPClient is provided, this field is ignored.
	ProxyURL string

	// BaseURL is the watch-page host used for bare track IDs.
	// Full watch URLs carry their own host.
	BaseURL string

	// UserAgent overrides the User-Agent for watch-page and media requests.
	// If empty, package fallback is used.
	UserAgent string

	// RequestHeaders are additional headers for watch-page and media requests.
	RequestHeaders http.Header

	// CookieJar carries session cookies for hosts gating tracks behind a
	// sign-in. Ignored when HTTPClient already has a jar.
	CookieJar http.CookieJar

	// RequestTimeout bounds a whole client call when the caller's context
	// carries no deadline. Zero or negative applies no bound.
	RequestTimeout time.Duration

	// StallTimeout aborts a download attempt once no bytes have arrived for
	// this long. Zero selects the package default; negative disables the
	// watchdog.
	StallTimeout time.Duration

	// PageRetry tunes watch-page fetch retry and backoff behavior.
	PageRetry player.RetryConfig

	// MinFreeBytes is the free-space floor checked on the destination volume
	// before a download starts. Zero selects the package default; negative
	// disables the check.
	MinFreeBytes int64

	// Resolver overrides watch-page resolution. If nil, the package resolver
	// is used.
	Resolver media.Resolver

	// Progress receives cumulative download progress. May be nil.
	Progress downloader.ProgressReporter

	// OnDownloadEvent is an optional hook observing save lifecycle events.
	OnDownloadEvent func(DownloadEvent)

	// Logger is an optional logger for non-fatal warnings.
	Logger Logger
}

// Logger is an optional package logger used for non-fatal warnings.
type Logger interface {
	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
