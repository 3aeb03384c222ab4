package client

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/famomatic/vget/internal/downloader"
	"github.com/famomatic/vget/internal/fsx"
	"github.com/famomatic/vget/internal/sanitize"
)

// SaveOptions controls track download behavior.
type SaveOptions struct {
	// Quality picks the variant: "best" (default), "audio", "video" or an
	// explicit quality label such as "720p".
	Quality SelectionMode

	// OutputDir is the library root receiving
	// "tracks/<collection>/<title>.<ext>". Empty means the current directory.
	OutputDir string

	// OutputPath overrides the full destination path. OutputDir and the
	// library layout are ignored when set.
	OutputPath string
}

// SaveResult describes a completed track download.
type SaveResult struct {
	JobID      string
	TrackID    string
	Title      string
	Quality    string
	OutputPath string
	SourceURL  string
	Attempt    int
	Bytes      int64
}

// Save resolves the input, picks a variant and streams it into the library,
// trying the variant's source URLs in order until one yields a complete file.
func (c *Client) Save(ctx context.Context, input string, options SaveOptions) (*SaveResult, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	jobID := uuid.NewString()

	c.emitDownloadEvent("resolve", "start", jobID, "", "", input)
	track, err := c.resolver.Resolve(ctx, input)
	if err != nil {
		mapped := mapError(err)
		c.emitDownloadEvent("resolve", "failure", jobID, "", "", mapped.Error())
		return nil, mapped
	}
	info := toTrackInfo(track)
	c.emitDownloadEvent("resolve", "complete", jobID, info.ID, "", info.Title)

	if len(info.Variants) == 0 {
		return nil, ErrNoVariants
	}
	variant, ok := selectVariant(info.Variants, options.Quality)
	if !ok {
		return nil, fmt.Errorf("%w: quality=%q", ErrNoMatchingVariant, string(options.Quality))
	}
	if len(variant.Sources) == 0 {
		return nil, fmt.Errorf("%w: variant %q lists no sources", ErrNoVariants, variant.Quality)
	}

	dest := strings.TrimSpace(options.OutputPath)
	if dest == "" {
		dest = libraryPath(options.OutputDir, info, variant)
	}
	c.emitDownloadEvent("download", "destination", jobID, info.ID, dest, "quality="+variant.Quality)

	if err := c.preflight(jobID, info.ID, dest); err != nil {
		return nil, err
	}

	fallbackCfg := downloader.FallbackConfig{
		Config: downloader.Config{
			StallTimeout:   c.config.StallTimeout,
			RequestHeaders: c.mediaRequestHeaders(info.ID),
			Progress:       c.config.Progress,
		},
		OnAttemptStart: func(attempt, total int, rawURL string) {
			c.emitDownloadEvent("download", "attempt", jobID, info.ID, dest,
				fmt.Sprintf("source=%d/%d host=%s", attempt, total, hostOf(rawURL)))
		},
		OnAttemptDone: func(attempt, total int, rawURL string, attemptErr error) {
			if attemptErr == nil {
				return
			}
			c.emitDownloadEvent("download", "failure", jobID, info.ID, dest,
				fmt.Sprintf("source=%d/%d: %v", attempt, total, attemptErr))
		},
	}

	c.emitDownloadEvent("download", "start", jobID, info.ID, dest,
		fmt.Sprintf("quality=%s sources=%d", variant.Quality, len(variant.Sources)))
	res, err := downloader.DownloadWithFallback(ctx, c.config.HTTPClient, variant.Sources, dest, fallbackCfg)
	if err != nil {
		mapped := mapError(err)
		c.emitDownloadEvent("download", "failure", jobID, info.ID, dest, mapped.Error())
		return nil, mapped
	}
	c.emitDownloadEvent("download", "complete", jobID, info.ID, dest,
		fmt.Sprintf("bytes=%d attempt=%d", res.Bytes, res.Attempt))

	return &SaveResult{
		JobID:      jobID,
		TrackID:    info.ID,
		Title:      info.Title,
		Quality:    variant.Quality,
		OutputPath: dest,
		SourceURL:  res.URL,
		Attempt:    res.Attempt,
		Bytes:      res.Bytes,
	}, nil
}

// preflight creates the destination directory and verifies the volume has
// room left for a download.
func (c *Client) preflight(jobID, trackID, dest string) error {
	dir := filepath.Dir(dest)
	if err := fsx.EnsureDir(dir); err != nil {
		return &downloader.FilesystemError{Op: "mkdir", Path: dir, Err: err}
	}
	if c.config.MinFreeBytes < 0 {
		return nil
	}
	min := uint64(c.config.MinFreeBytes)
	if min == 0 {
		min = fsx.DefaultMinFreeBytes
	}

	c.emitDownloadEvent("preflight", "start", jobID, trackID, dir, fmt.Sprintf("min_free=%d", min))
	if err := fsx.CheckFreeSpace(dir, min); err != nil {
		var lowErr *fsx.LowSpaceError
		if errors.As(err, &lowErr) {
			mapped := mapError(err)
			c.emitDownloadEvent("preflight", "failure", jobID, trackID, dir, mapped.Error())
			return mapped
		}
		c.warnf("free space probe failed for %s; continuing: %v", dir, err)
	}
	c.emitDownloadEvent("preflight", "complete", jobID, trackID, dir, "")
	return nil
}

// libraryPath builds "<root>/tracks/<collection>/<title>.<ext>" with both
// variable segments sanitized for portability.
func libraryPath(root string, track *TrackInfo, variant VariantInfo) string {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	title := sanitize.Filename(track.Title)
	collection := sanitize.Filename(firstNonEmptyString(track.Collection, "playlist"))
	return filepath.Join(root, "tracks", collection, title+"."+variantExt(variant))
}

func variantExt(v VariantInfo) string {
	if ext := strings.TrimPrefix(strings.TrimSpace(v.Ext), "."); ext != "" {
		return strings.ToLower(ext)
	}
	if mediaType, _, err := mime.ParseMediaType(v.MimeType); err == nil {
		if parts := strings.SplitN(mediaType, "/", 2); len(parts) == 2 && parts[1] != "" {
			return strings.ToLower(parts[1])
		}
	}
	return "bin"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
