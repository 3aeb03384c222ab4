package player

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput indicates the input is neither a track ID nor a watch URL.
	ErrInvalidInput = errors.New("invalid track input")
	// ErrNoBaseURL indicates a bare track ID was given without a configured host.
	ErrNoBaseURL = errors.New("no base url configured")
	// ErrSetupNotFound indicates the watch page carries no player setup block.
	ErrSetupNotFound = errors.New("player setup not found")
	// ErrNoSources indicates the player setup lists no downloadable sources.
	ErrNoSources = errors.New("player setup has no sources")
)

// UnplayableError indicates the host refused playback for the track.
type UnplayableError struct {
	Status string
	Reason string
}

func (e *UnplayableError) Error() string {
	return fmt.Sprintf("unplayable status=%s reason=%s", e.Status, e.Reason)
}

func (e *UnplayableError) RequiresLogin() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "LOGIN") || strings.Contains(s, "SIGN IN") || strings.Contains(s, "MEMBERS")
}

func (e *UnplayableError) IsGeoRestricted() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "COUNTRY") ||
		strings.Contains(s, "REGION") ||
		strings.Contains(s, "LOCATION")
}

func (e *UnplayableError) IsRemoved() bool {
	s := strings.ToUpper(e.Status + " " + e.Reason)
	return strings.Contains(s, "REMOVED") ||
		strings.Contains(s, "DELETED") ||
		strings.Contains(s, "PRIVATE")
}
