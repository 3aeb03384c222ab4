// Package sanitize turns untrusted track titles into names that every
// major filesystem accepts.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultReplacement is substituted for characters filesystems reject.
const DefaultReplacement = '-'

const (
	fallbackName = "untitled"
	maxRunes     = 200
)

// Options tunes FilenameWith.
type Options struct {
	// PreserveSpaces keeps interior whitespace as single spaces instead of
	// folding it into Replacement.
	PreserveSpaces bool

	// Replacement substitutes disallowed characters.
	// The zero value selects DefaultReplacement.
	Replacement rune
}

// Filename sanitizes raw with defaults: spaces preserved, '-' replacement.
func Filename(raw string) string {
	return FilenameWith(raw, Options{PreserveSpaces: true})
}

// FilenameWith maps any string onto a non-empty name of at most 200 code
// points with no reserved characters, no leading/trailing whitespace or
// periods, and no bare reserved device name. Re-applying it is a no-op.
func FilenameWith(raw string, o Options) string {
	if raw == "" {
		return fallbackName
	}
	repl := o.Replacement
	if repl == 0 {
		repl = DefaultReplacement
	}

	s := replaceDisallowed(raw, repl)
	s = stripSupplementary(s)
	s = strings.TrimFunc(s, isSpaceOrPeriod)
	s = collapseWhitespace(s, o.PreserveSpaces, repl)
	s = collapseRuns(s, repl)
	if s == "" {
		return fallbackName
	}
	s = truncateRunes(s, maxRunes)
	s = trimTail(s, repl)
	if s == "" {
		return fallbackName
	}
	if _, bad := reservedNames[strings.ToUpper(s)]; bad {
		s = "_" + s
	}
	return s
}

// reservedNames are device names Windows refuses as bare filenames.
var reservedNames = func() map[string]struct{} {
	names := []string{"CON", "PRN", "AUX", "NUL"}
	for i := 1; i <= 9; i++ {
		names = append(names, fmt.Sprintf("COM%d", i), fmt.Sprintf("LPT%d", i))
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}()

func replaceDisallowed(s string, repl rune) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isReserved(r) || isProblematic(r) {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isReserved(r rune) bool {
	if r <= 0x1F {
		return true
	}
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return false
}

func isProblematic(r rune) bool {
	switch r {
	case '#', '%', '&', '{', '}', '[', ']', '~', '`', '$', '!', ':', '@', '=', '+', ';', ',', '^':
		return true
	}
	return false
}

func isSpaceOrPeriod(r rune) bool {
	return unicode.IsSpace(r) || r == '.'
}

// stripSupplementary drops code points above the Basic Multilingual Plane
// (emoji and other supplementary characters). It runs before the trim and
// collapse passes so a removal cannot leave a fresh whitespace or
// replacement run behind.
func stripSupplementary(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return -1
		}
		return r
	}, s)
}

func collapseWhitespace(s string, preserveSpaces bool, repl rune) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inRun {
				if preserveSpaces {
					b.WriteRune(' ')
				} else {
					b.WriteRune(repl)
				}
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func collapseRuns(s string, repl rune) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == repl {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// trimTail removes trailing whitespace, periods, and replacement runes
// until none remain. Truncation can expose any of the three, and a dirty
// tail would make a second sanitizing pass disagree with the first.
func trimTail(s string, repl rune) string {
	for {
		t := strings.TrimRightFunc(s, isSpaceOrPeriod)
		t = strings.TrimSuffix(t, string(repl))
		if t == s {
			return s
		}
		s = t
	}
}
