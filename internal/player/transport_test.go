package player

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestFetchBytes_RetriesRetryableStatuses(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 2 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("done"))
	}))
	defer srv.Close()

	body, err := fetchBytes(context.Background(), srv.Client(), srv.URL, nil, fastRetry(2))
	if err != nil {
		t.Fatalf("fetchBytes() error = %v", err)
	}
	if string(body) != "done" {
		t.Errorf("body = %q, want %q", body, "done")
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}

func TestFetchBytes_NonRetryableStatusFailsFast(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchBytes(context.Background(), srv.Client(), srv.URL, nil, fastRetry(3))
	var statusErr *PageStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("fetchBytes() error = %v, want *PageStatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", statusErr.StatusCode)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestFetchBytes_CustomRetryStatusList(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "teapot", http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte("brewed"))
	}))
	defer srv.Close()

	cfg := fastRetry(2)
	cfg.RetryStatusCodes = []int{http.StatusTeapot}
	body, err := fetchBytes(context.Background(), srv.Client(), srv.URL, nil, cfg)
	if err != nil {
		t.Fatalf("fetchBytes() error = %v", err)
	}
	if string(body) != "brewed" {
		t.Errorf("body = %q, want %q", body, "brewed")
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
}

func TestFetchBytes_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetchBytes(ctx, srv.Client(), srv.URL, nil, fastRetry(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("fetchBytes() error = %v, want context.Canceled", err)
	}
}

func TestBackoffFor(t *testing.T) {
	cfg := effectiveRetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 350 * time.Millisecond}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 350 * time.Millisecond},
		{5, 350 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := cfg.backoffFor(tt.attempt); got != tt.want {
			t.Errorf("backoffFor(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{name: "empty", raw: "", want: 0},
		{name: "seconds", raw: "2", want: 2 * time.Second},
		{name: "negative seconds", raw: "-1", want: 0},
		{name: "garbage", raw: "soon", want: 0},
		{name: "past date", raw: "Mon, 02 Jan 2006 15:04:05 GMT", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.raw); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfter_FutureDate(t *testing.T) {
	when := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(when)
	if got <= 0 || got > 90*time.Second {
		t.Errorf("parseRetryAfter(%q) = %s, want within (0, 90s]", when, got)
	}
}
