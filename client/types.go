package client

import "github.com/famomatic/vget/internal/media"

// TrackInfo is the package-level metadata result.
type TrackInfo struct {
	ID          string
	Title       string
	Uploader    string
	Collection  string
	DurationSec int64
	Variants    []VariantInfo
}

// VariantInfo is the normalized public variant model.
type VariantInfo struct {
	Quality  string
	MimeType string
	Ext      string
	Bitrate  int
	HasAudio bool
	HasVideo bool
	Sources  []string
}

func toTrackInfo(t *media.Track) *TrackInfo {
	if t == nil {
		return nil
	}
	variants := make([]VariantInfo, 0, len(t.Variants))
	for _, v := range t.Variants {
		variants = append(variants, toVariantInfo(v))
	}
	return &TrackInfo{
		ID:          t.ID,
		Title:       t.Title,
		Uploader:    t.Uploader,
		Collection:  t.Collection,
		DurationSec: t.DurationSec,
		Variants:    variants,
	}
}

func toVariantInfo(v media.Variant) VariantInfo {
	return VariantInfo{
		Quality:  v.Quality,
		MimeType: v.MimeType,
		Ext:      v.Ext,
		Bitrate:  v.Bitrate,
		HasAudio: v.HasAudio,
		HasVideo: v.HasVideo,
		Sources:  append([]string(nil), v.Sources...),
	}
}
