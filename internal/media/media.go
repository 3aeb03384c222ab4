// Package media defines the track model shared between resolvers and the
// download path.
package media

import "context"

// Track is one resolved media resource.
type Track struct {
	ID          string
	Title       string
	Uploader    string
	Collection  string
	DurationSec int64
	Variants    []Variant
}

// Variant is one encoding of a track. Sources lists mirror URLs for the
// same bytes in host preference order; the first entry is tried first.
type Variant struct {
	Quality  string
	MimeType string
	Ext      string
	Bitrate  int
	HasAudio bool
	HasVideo bool
	Sources  []string
}

// Resolver turns a track id or watch URL into a Track with ranked variants.
type Resolver interface {
	Resolve(ctx context.Context, input string) (*Track, error)
}
