package player

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	trackIDPattern  = regexp.MustCompile(`^[0-9A-Za-z_-]{6,20}$`)
	watchURLPattern = regexp.MustCompile(`(?:[?&]t=|/t/|/embed/)([0-9A-Za-z_-]{6,20})`)
)

// ExtractTrackID accepts either a raw id or common watch URL shapes.
func ExtractTrackID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidInput
	}
	if trackIDPattern.MatchString(s) {
		return s, nil
	}
	m := watchURLPattern.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1], nil
	}
	return "", ErrInvalidInput
}

// baseURLFromInput recovers the host from a full watch URL so bare-ID
// configuration is not needed when the caller pasted a complete link.
func baseURLFromInput(input string) string {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
