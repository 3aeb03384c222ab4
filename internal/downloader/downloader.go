// Package downloader writes one media resource to disk, trying ranked
// mirror URLs in order until a complete file lands at the destination.
package downloader

import (
	"net/http"
	"time"
)

// DefaultStallTimeout is how long an attempt may go without receiving
// body data before it is aborted.
const DefaultStallTimeout = 30 * time.Second

const maxRedirectHops = 10

// ProgressReporter is an interface for reporting download progress.
type ProgressReporter interface {
	OnProgress(bytesWritten int64, totalBytes int64)
}

// Config controls one download attempt.
type Config struct {
	// StallTimeout aborts an attempt when no body data has arrived for
	// this long. Zero selects DefaultStallTimeout; negative disables the
	// watchdog.
	StallTimeout time.Duration

	// RequestHeaders are added to every request, redirect hops included.
	RequestHeaders http.Header

	// Progress receives cumulative byte counts while a body streams to
	// disk. totalBytes is -1 when the server did not declare a length.
	Progress ProgressReporter
}

type effectiveConfig struct {
	StallTimeout   time.Duration
	RequestHeaders http.Header
	Progress       ProgressReporter
}

func normalizeConfig(cfg Config) effectiveConfig {
	stall := cfg.StallTimeout
	if stall == 0 {
		stall = DefaultStallTimeout
	}
	if stall < 0 {
		stall = 0
	}
	return effectiveConfig{
		StallTimeout:   stall,
		RequestHeaders: cfg.RequestHeaders,
		Progress:       cfg.Progress,
	}
}
