package downloader

import (
	"context"
	"errors"
	"net/http"
	"os"
)

// FallbackConfig extends Config with per-attempt hooks used by callers to
// surface progress through ranked mirror URLs.
type FallbackConfig struct {
	Config

	// OnAttemptStart fires before each URL is tried. attempt is 1-based.
	OnAttemptStart func(attempt, total int, url string)
	// OnAttemptDone fires after each URL settles, with err nil on success.
	OnAttemptDone func(attempt, total int, url string, err error)
}

// Result describes a completed download.
type Result struct {
	// URL is the mirror that produced the file.
	URL string
	// Attempt is the 1-based position of URL in the candidate list.
	Attempt int
	// Path is the destination the file was written to.
	Path string
	// Bytes is the total number of bytes written.
	Bytes int64
}

// DownloadWithFallback tries each URL in order until one yields a complete
// file at dest. A failed attempt's partial file is removed before the next
// URL is tried, and only after the attempt has released its file handle.
// Context cancellation aborts the whole sequence; every other exhaustion
// surfaces as *AllSourcesExhaustedError.
func DownloadWithFallback(ctx context.Context, httpClient *http.Client, urls []string, dest string, cfg FallbackConfig) (*Result, error) {
	total := len(urls)
	attempts := make([]AttemptError, 0, total)
	for i, rawURL := range urls {
		if cfg.OnAttemptStart != nil {
			cfg.OnAttemptStart(i+1, total, rawURL)
		}
		written, err := DownloadURL(ctx, httpClient, rawURL, dest, cfg.Config)
		if cfg.OnAttemptDone != nil {
			cfg.OnAttemptDone(i+1, total, rawURL, err)
		}
		if err == nil {
			return &Result{URL: rawURL, Attempt: i + 1, Path: dest, Bytes: written}, nil
		}

		removePartial(dest)
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}
		attempts = append(attempts, AttemptError{URL: rawURL, Err: err})
	}
	return nil, &AllSourcesExhaustedError{Attempts: attempts}
}

// removePartial deletes the leftover file of a failed attempt. The attempt
// has already closed its handle by the time this runs, so the remove never
// races an in-flight write.
func removePartial(path string) {
	_ = os.Remove(path)
}
