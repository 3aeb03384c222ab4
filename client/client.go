// Package client is the public surface of vget: it resolves tracks on the
// media host, selects an encoding and saves it into the local library.
package client

import (
	"context"
	"strings"

	"github.com/famomatic/vget/internal/media"
	"github.com/famomatic/vget/internal/player"
)

// Client is the high-level media host client.
type Client struct {
	config   Config
	resolver media.Resolver
	logger   Logger
}

// New creates a new media client.
func New(config Config) *Client {
	return NewClient(config)
}

// NewClient creates a new media client.
func NewClient(config Config) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = defaultHTTPClient(config.ProxyURL)
	}
	if config.CookieJar != nil && config.HTTPClient.Jar == nil {
		// Copy before attaching the jar; the fallback client is shared.
		jarClient := *config.HTTPClient
		jarClient.Jar = config.CookieJar
		config.HTTPClient = &jarClient
	}
	logger := config.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	resolver := config.Resolver
	if resolver == nil {
		resolver = player.NewResolver(config.HTTPClient, player.Config{
			BaseURL:   config.BaseURL,
			UserAgent: config.UserAgent,
			Headers:   cloneHeader(config.RequestHeaders),
			Retry:     config.PageRetry,
			Warnf:     logger.Warnf,
		})
	}

	return &Client{
		config:   config,
		resolver: resolver,
		logger:   logger,
	}
}

// GetTrack fetches track metadata and normalized variants for the input ID/URL.
func (c *Client) GetTrack(ctx context.Context, input string) (*TrackInfo, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	track, err := c.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return toTrackInfo(track), nil
}

// ListVariants returns normalized variants only.
func (c *Client) ListVariants(ctx context.Context, input string) ([]VariantInfo, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	t, err := c.GetTrack(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(t.Variants) == 0 {
		return nil, ErrNoVariants
	}
	return t.Variants, nil
}

func (c *Client) warnf(format string, args ...any) {
	if c == nil || c.logger == nil {
		return
	}
	c.logger.Warnf(format, args...)
}

func firstNonEmptyString(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
