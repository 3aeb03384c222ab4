package player

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// unlocker extracts and evaluates the token function embedded in watch
// pages. The host gates source URLs behind a per-track "tk" query value
// that the page's player script computes from the track id.
type unlocker struct {
	pageBody []byte
}

func newUnlocker(page []byte) *unlocker {
	return &unlocker{pageBody: page}
}

var tokenFnNameRegexps = []*regexp.Regexp{
	// "&tk=" + fn(id) concatenation in the player script.
	regexp.MustCompile(`["'][&?]tk=["']\s*\+\s*([A-Za-z0-9_$]+)\(`),
	// params.set("tk", fn(id)) style.
	regexp.MustCompile(`\(["']tk["']\s*,\s*([A-Za-z0-9_$]+)\(`),
	// tk: fn(id) object literal.
	regexp.MustCompile(`\btk\s*:\s*([A-Za-z0-9_$]+)\(`),
}

// tokenFor computes the unlock token for trackID.
func (u *unlocker) tokenFor(trackID string) (string, error) {
	fn, err := u.findTokenFunction()
	if err != nil {
		return "", err
	}
	return evalTokenFunction(fn, trackID)
}

func (u *unlocker) findTokenFunction() (string, error) {
	for _, re := range tokenFnNameRegexps {
		m := re.FindSubmatch(u.pageBody)
		if len(m) < 2 {
			continue
		}
		fn, err := u.extractFunction(string(m[1]))
		if err == nil {
			return fn, nil
		}
	}
	return "", errors.New("unable to locate token function")
}

func (u *unlocker) extractFunction(name string) (string, error) {
	name = strings.TrimSpace(name)
	defPatterns := [][]byte{
		[]byte(name + "=function("),
		[]byte(name + " = function("),
		[]byte("function " + name + "("),
	}
	start := -1
	for _, def := range defPatterns {
		start = bytes.Index(u.pageBody, def)
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("unable to extract token function body")
	}

	bodyStart := start + bytes.IndexByte(u.pageBody[start:], '{')
	body, err := matchBracedBlock(u.pageBody, bodyStart)
	if err != nil {
		return "", fmt.Errorf("unterminated token function body")
	}
	return string(u.pageBody[start:bodyStart]) + string(body), nil
}

func evalTokenFunction(jsFunction, arg string) (string, error) {
	const fnName = "vgetTokenFunction"
	vm := goja.New()
	if _, err := vm.RunString(fnName + "=" + jsFunction); err != nil {
		return "", err
	}
	var output func(string) string
	if err := vm.ExportTo(vm.Get(fnName), &output); err != nil {
		return "", err
	}
	return output(arg), nil
}
