package player

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// playerSetup mirrors the JSON configuration block embedded in watch pages.
type playerSetup struct {
	Status  string        `json:"status"`
	Reason  string        `json:"reason"`
	Track   setupTrack    `json:"track"`
	Sources []setupSource `json:"sources"`
}

type setupTrack struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Uploader string `json:"uploader"`
	Playlist string `json:"playlist"`
	Duration int64  `json:"duration"`
}

type setupSource struct {
	File    string   `json:"file"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Bitrate int      `json:"bitrate"`
	Mirrors []string `json:"mirrors"`
}

var inlineSetupPattern = regexp.MustCompile(`(?:var|let|const)\s+playerSetup\s*=\s*\{`)

// parsePlayerSetup locates the setup JSON in a watch page and decodes it.
// Pages embed it either as <script id="player-setup" type="application/json">
// or as an inline "var playerSetup = {...}" assignment.
func parsePlayerSetup(page []byte) (*playerSetup, error) {
	raw, err := extractSetupJSON(page)
	if err != nil {
		return nil, err
	}
	var setup playerSetup
	if err := json.Unmarshal(raw, &setup); err != nil {
		return nil, fmt.Errorf("malformed player setup: %w", err)
	}
	return &setup, nil
}

func extractSetupJSON(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err == nil {
		if text := strings.TrimSpace(doc.Find("script#player-setup").First().Text()); text != "" {
			return []byte(text), nil
		}
	}
	if m := inlineSetupPattern.FindIndex(page); m != nil {
		return matchBracedBlock(page, m[1]-1)
	}
	return nil, ErrSetupNotFound
}

// matchBracedBlock returns the slice of page spanning the brace block that
// opens at start. String literals are tracked so braces inside quoted
// values do not unbalance the scan.
func matchBracedBlock(page []byte, start int) ([]byte, error) {
	if start < 0 || start >= len(page) || page[start] != '{' {
		return nil, errors.New("no opening brace at block start")
	}
	pos := start + 1
	var strChar byte
	for depth := 1; depth > 0; pos++ {
		if pos >= len(page) {
			return nil, errors.New("unterminated brace block")
		}
		b := page[pos]
		switch b {
		case '{':
			if strChar == 0 {
				depth++
			}
		case '}':
			if strChar == 0 {
				depth--
			}
		case '`', '"', '\'':
			if pos > 1 && page[pos-1] == '\\' && page[pos-2] != '\\' {
				continue
			}
			if strChar == 0 {
				strChar = b
			} else if strChar == b {
				strChar = 0
			}
		}
	}
	return page[start:pos], nil
}
