// Package cookies loads browser-exported Netscape cookie files so tracks
// gated behind a sign-in can be fetched with an existing session.
package cookies

import (
	"bufio"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// httpOnlyPrefix marks HttpOnly cookies in browser exports; the rest of the
// line is a normal record.
const httpOnlyPrefix = "#HttpOnly_"

// ParseNetscape reads a Netscape cookies.txt stream. Records are tab
// separated: domain, include-subdomains flag, path, secure flag, expiry,
// name, value. Comments, blank lines and malformed records are skipped.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		cookie := &http.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		}
		if cookie.Name == "" {
			continue
		}
		// Expiry 0 marks a session cookie; keep Expires zero for those.
		if expires, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
		}
		cookies = append(cookies, cookie)
	}
	return cookies, scanner.Err()
}

// NewJar returns a cookie jar pre-loaded with the given cookies, grouped by
// their domain attribute.
func NewJar(cookies []*http.Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	byDomain := make(map[string][]*http.Cookie)
	for _, cookie := range cookies {
		byDomain[cookie.Domain] = append(byDomain[cookie.Domain], cookie)
	}
	for domain, group := range byDomain {
		scheme := "http"
		for _, cookie := range group {
			if cookie.Secure {
				scheme = "https"
				break
			}
		}
		u := &url.URL{Scheme: scheme, Host: strings.TrimPrefix(domain, ".")}
		jar.SetCookies(u, group)
	}
	return jar, nil
}
