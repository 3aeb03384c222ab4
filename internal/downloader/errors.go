package downloader

import (
	"fmt"
	"time"
)

// AttemptError records one failed source URL attempt.
type AttemptError struct {
	URL string
	Err error
}

// AllSourcesExhaustedError is returned when no candidate URL produced a
// complete file.
type AllSourcesExhaustedError struct {
	Attempts []AttemptError
}

func (e *AllSourcesExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all sources exhausted"
	}
	return fmt.Sprintf("all sources exhausted: %d attempt(s)", len(e.Attempts))
}

// Unwrap exposes the final attempt's error as the primary cause.
func (e *AllSourcesExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// HTTPStatusError indicates a non-200, non-redirect response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("download failed: status=%d", e.StatusCode)
}

// NetworkError wraps a transport-level failure, including defective
// redirect chains.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError indicates the stall watchdog aborted an attempt.
type TimeoutError struct {
	URL   string
	Stall time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("download stalled: no data for %s", e.Stall)
}

// FilesystemError wraps a local I/O failure at the destination.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s failed: path=%s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
