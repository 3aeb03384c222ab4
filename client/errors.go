package client

import (
	"errors"
	"net/http"

	"github.com/famomatic/vget/internal/downloader"
	"github.com/famomatic/vget/internal/fsx"
	"github.com/famomatic/vget/internal/player"
)

var (
	// ErrInvalidInput indicates malformed input (not a track ID/url).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoBaseURL indicates a bare track ID was given without a configured host.
	ErrNoBaseURL = errors.New("no base url configured")
	// ErrUnplayable indicates the track exists but cannot be played.
	ErrUnplayable = errors.New("track unplayable")
	// ErrLoginRequired indicates an authenticated session is required.
	ErrLoginRequired = errors.New("login required")
	// ErrNoVariants indicates the track exposes no downloadable variants.
	ErrNoVariants = errors.New("no variants available")
	// ErrNoMatchingVariant indicates no variant satisfied the selection.
	ErrNoMatchingVariant = errors.New("no variant matches selection")
	// ErrAllSourcesExhausted indicates every source URL of the chosen variant failed.
	ErrAllSourcesExhausted = errors.New("all sources exhausted")
	// ErrLowDiskSpace indicates the destination volume is under the free-space floor.
	ErrLowDiskSpace = errors.New("low disk space")
)

// mapError funnels resolver and downloader failures into package sentinels
// while keeping the typed cause reachable through errors.As.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, player.ErrInvalidInput):
		return ErrInvalidInput
	case errors.Is(err, player.ErrNoBaseURL):
		return ErrNoBaseURL
	case errors.Is(err, player.ErrNoSources):
		return errors.Join(ErrNoVariants, err)
	case errors.Is(err, player.ErrSetupNotFound):
		return errors.Join(ErrUnplayable, err)
	}

	var unplayableErr *player.UnplayableError
	if errors.As(err, &unplayableErr) {
		if unplayableErr.RequiresLogin() {
			return errors.Join(ErrLoginRequired, err)
		}
		return errors.Join(ErrUnplayable, err)
	}

	var pageErr *player.PageStatusError
	if errors.As(err, &pageErr) {
		switch pageErr.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			return errors.Join(ErrUnplayable, err)
		}
		return err
	}

	var exhaustedErr *downloader.AllSourcesExhaustedError
	if errors.As(err, &exhaustedErr) {
		return errors.Join(ErrAllSourcesExhausted, err)
	}

	var lowSpaceErr *fsx.LowSpaceError
	if errors.As(err, &lowSpaceErr) {
		return errors.Join(ErrLowDiskSpace, err)
	}

	return err
}

// ErrorCategory is a coarse bucket for user-facing error reporting.
type ErrorCategory string

const (
	CategoryInvalidInput  ErrorCategory = "invalid_input"
	CategoryLoginRequired ErrorCategory = "login_required"
	CategoryUnplayable    ErrorCategory = "unplayable"
	CategoryNoVariants    ErrorCategory = "no_variants"
	CategoryLowDiskSpace  ErrorCategory = "low_disk_space"
	CategoryExhausted     ErrorCategory = "sources_exhausted"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryNetwork       ErrorCategory = "network"
	CategoryFilesystem    ErrorCategory = "filesystem"
	CategoryUnknown       ErrorCategory = "unknown"
)

// ClassifyError places err into the most specific matching category.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoBaseURL):
		return CategoryInvalidInput
	case errors.Is(err, ErrLoginRequired):
		return CategoryLoginRequired
	case errors.Is(err, ErrUnplayable):
		return CategoryUnplayable
	case errors.Is(err, ErrNoVariants), errors.Is(err, ErrNoMatchingVariant):
		return CategoryNoVariants
	case errors.Is(err, ErrLowDiskSpace):
		return CategoryLowDiskSpace
	case errors.Is(err, ErrAllSourcesExhausted):
		return CategoryExhausted
	}

	var timeoutErr *downloader.TimeoutError
	if errors.As(err, &timeoutErr) {
		return CategoryTimeout
	}
	var statusErr *downloader.HTTPStatusError
	if errors.As(err, &statusErr) {
		return CategoryNetwork
	}
	var pageErr *player.PageStatusError
	if errors.As(err, &pageErr) {
		return CategoryNetwork
	}
	var netErr *downloader.NetworkError
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}
	var fsErr *downloader.FilesystemError
	if errors.As(err, &fsErr) {
		return CategoryFilesystem
	}
	return CategoryUnknown
}
