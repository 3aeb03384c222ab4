package client

import "strings"

// SelectionMode controls how a variant is chosen. Any value besides the
// named modes selects by exact quality label, case-insensitively.
type SelectionMode string

const (
	SelectionModeBest      SelectionMode = "best"
	SelectionModeAudioOnly SelectionMode = "audio"
	SelectionModeVideo     SelectionMode = "video"
)

func selectVariant(variants []VariantInfo, mode SelectionMode) (VariantInfo, bool) {
	if len(variants) == 0 {
		return VariantInfo{}, false
	}

	normalized := SelectionMode(strings.ToLower(strings.TrimSpace(string(mode))))
	switch normalized {
	case "":
		normalized = SelectionModeBest
	case SelectionModeBest, SelectionModeAudioOnly, SelectionModeVideo:
	default:
		return selectByLabel(variants, strings.TrimSpace(string(mode)))
	}

	var best VariantInfo
	hasBest := false
	for _, v := range variants {
		if !matchesSelectionMode(v, normalized) {
			continue
		}
		if !hasBest || betterForMode(v, best, normalized) {
			best = v
			hasBest = true
		}
	}
	return best, hasBest
}

func selectByLabel(variants []VariantInfo, label string) (VariantInfo, bool) {
	for _, v := range variants {
		if strings.EqualFold(strings.TrimSpace(v.Quality), label) {
			return v, true
		}
	}
	return VariantInfo{}, false
}

func matchesSelectionMode(v VariantInfo, mode SelectionMode) bool {
	switch mode {
	case SelectionModeAudioOnly:
		return v.HasAudio && !v.HasVideo
	case SelectionModeVideo:
		return v.HasVideo
	default:
		return v.HasAudio || v.HasVideo
	}
}

// betterForMode ranks a above b. Ties keep the earlier variant, preserving
// the host's own ordering.
func betterForMode(a, b VariantInfo, mode SelectionMode) bool {
	switch mode {
	case SelectionModeAudioOnly:
		return compareKeys(
			[]int{a.Bitrate, sourceScore(a)},
			[]int{b.Bitrate, sourceScore(b)},
		)
	default:
		return compareKeys(
			[]int{trackRank(a), a.Bitrate, sourceScore(a)},
			[]int{trackRank(b), b.Bitrate, sourceScore(b)},
		)
	}
}

func compareKeys(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] > b[i]
	}
	return false
}

func trackRank(v VariantInfo) int {
	switch {
	case v.HasVideo && v.HasAudio:
		return 3
	case v.HasVideo:
		return 2
	case v.HasAudio:
		return 1
	default:
		return 0
	}
}

// sourceScore favors variants with more mirrors to fall back on.
func sourceScore(v VariantInfo) int {
	return len(v.Sources)
}
