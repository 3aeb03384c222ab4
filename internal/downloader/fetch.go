package downloader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

var (
	errMissingLocation  = errors.New("redirect without location header")
	errTooManyRedirects = errors.New("too many redirects")
)

// DownloadURL fetches rawURL into dest in a single attempt. The output
// file is created before any network I/O starts, and 301/302 hops are
// followed transparently against the same file. Every exit path releases
// the file handle and the response body and yields exactly one outcome.
func DownloadURL(ctx context.Context, httpClient *http.Client, rawURL, dest string, cfg Config) (int64, error) {
	effective := normalizeConfig(cfg)
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	file, err := os.Create(dest)
	if err != nil {
		return 0, &FilesystemError{Op: "create", Path: dest, Err: err}
	}

	written, fetchErr := fetchInto(ctx, httpClient, rawURL, dest, file, effective)
	if closeErr := file.Close(); closeErr != nil && fetchErr == nil {
		fetchErr = &FilesystemError{Op: "close", Path: dest, Err: closeErr}
	}
	if fetchErr != nil {
		return 0, fetchErr
	}
	return written, nil
}

func fetchInto(ctx context.Context, httpClient *http.Client, rawURL, dest string, file *os.File, cfg effectiveConfig) (int64, error) {
	attemptCtx := ctx
	var stalled atomic.Bool
	var watchdog *time.Timer
	if cfg.StallTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithCancel(ctx)
		defer cancel()
		watchdog = time.AfterFunc(cfg.StallTimeout, func() {
			stalled.Store(true)
			cancel()
		})
		defer watchdog.Stop()
	}

	client := noRedirectClient(httpClient)
	currentURL := rawURL
	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, currentURL, nil)
		if err != nil {
			return 0, &NetworkError{URL: currentURL, Err: err}
		}
		applyRequestHeaders(req, cfg.RequestHeaders)

		resp, err := client.Do(req)
		if err != nil {
			return 0, classifyTransport(ctx, currentURL, err, &stalled, cfg.StallTimeout)
		}
		if watchdog != nil {
			watchdog.Reset(cfg.StallTimeout)
		}

		switch resp.StatusCode {
		case http.StatusMovedPermanently, http.StatusFound:
			location := resp.Header.Get("Location")
			discardBody(resp.Body)
			if location == "" {
				return 0, &NetworkError{URL: currentURL, Err: errMissingLocation}
			}
			if hop >= maxRedirectHops {
				return 0, &NetworkError{URL: currentURL, Err: errTooManyRedirects}
			}
			currentURL = resolveRedirectURL(currentURL, location)

		case http.StatusOK:
			written, copyErr := copyBody(resp.Body, resp.ContentLength, file, dest, watchdog, cfg)
			_ = resp.Body.Close()
			if copyErr == nil {
				return written, nil
			}
			var fsErr *FilesystemError
			if errors.As(copyErr, &fsErr) {
				return 0, copyErr
			}
			return 0, classifyTransport(ctx, currentURL, copyErr, &stalled, cfg.StallTimeout)

		default:
			discardBody(resp.Body)
			return 0, &HTTPStatusError{URL: currentURL, StatusCode: resp.StatusCode}
		}
	}
}

// copyBody streams the response into the file, feeding the stall watchdog
// on every read that yields data. A slow but active stream never trips
// the watchdog.
func copyBody(body io.Reader, total int64, file *os.File, dest string, watchdog *time.Timer, cfg effectiveConfig) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if watchdog != nil {
				watchdog.Reset(cfg.StallTimeout)
			}
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				return written, &FilesystemError{Op: "write", Path: dest, Err: writeErr}
			}
			written += int64(n)
			if cfg.Progress != nil {
				cfg.Progress.OnProgress(written, total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

func classifyTransport(parent context.Context, rawURL string, err error, stalled *atomic.Bool, stall time.Duration) error {
	if stalled.Load() {
		return &TimeoutError{URL: rawURL, Stall: stall}
	}
	if parent.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return parent.Err()
	}
	return &NetworkError{URL: rawURL, Err: err}
}

// noRedirectClient returns a shallow copy of c that surfaces 3xx responses
// instead of following them. Hops are handled by the caller so redirect
// targets never count as separate fallback entries.
func noRedirectClient(c *http.Client) *http.Client {
	clone := *c
	clone.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &clone
}

func resolveRedirectURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func discardBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func applyRequestHeaders(req *http.Request, headers http.Header) {
	for k, vals := range headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
}
