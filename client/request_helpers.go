package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func defaultHTTPClient(proxyURL string) *http.Client {
	if strings.TrimSpace(proxyURL) == "" {
		return http.DefaultClient
	}
	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return http.DefaultClient
	}
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultClient
	}
	transport := baseTransport.Clone()
	transport.Proxy = http.ProxyURL(parsed)
	return &http.Client{Transport: transport}
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	out := make(http.Header, len(h))
	for k, vals := range h {
		cp := make([]string, len(vals))
		copy(cp, vals)
		out[k] = cp
	}
	return out
}

// mediaRequestHeaders builds headers for CDN media fetches: caller headers
// plus the browser-like defaults the host expects on file URLs.
func (c *Client) mediaRequestHeaders(trackID string) http.Header {
	merged := cloneHeader(c.config.RequestHeaders)
	if merged == nil {
		merged = make(http.Header)
	}

	if merged.Get("User-Agent") == "" {
		ua := c.config.UserAgent
		if ua == "" {
			ua = defaultUserAgent
		}
		merged.Set("User-Agent", ua)
	}
	if base := strings.TrimRight(strings.TrimSpace(c.config.BaseURL), "/"); base != "" {
		if merged.Get("Origin") == "" {
			merged.Set("Origin", base)
		}
		if merged.Get("Referer") == "" {
			if trackID != "" {
				merged.Set("Referer", base+"/watch?t="+trackID)
			} else {
				merged.Set("Referer", base+"/")
			}
		}
	}

	return merged
}
