package cli

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/famomatic/vget/client"
	"github.com/famomatic/vget/internal/cookies"
)

// Options holds all command-line options.
type Options struct {
	// Input
	Inputs []string

	// General
	Version bool

	// Network
	BaseURL     string // --base-url
	ProxyURL    string // --proxy
	UserAgent   string // --user-agent
	CookiesFile string // --cookies
	TimeoutSec  int    // --timeout-sec

	// Variant selection
	Quality      string // -q, --quality
	ListVariants bool   // -F, --list-variants

	// Download / Filesystem
	OutputDir    string // -o, --output-dir
	OutputPath   string // --output-path
	Retries      int    // --retries
	RetrySleepMS int    // --retry-sleep-ms
	StallSec     int    // --stall-sec
	MinFreeMB    int    // --min-free-mb

	// Verbosity / Output
	Verbose    bool
	PrintJSON  bool // --print-json
	NoProgress bool // --no-progress
}

// ParseFlags parses command-line arguments into Options.
func ParseFlags() Options {
	opts := Options{}

	// Helper to bind multiple flags to one variable
	var qualityShort, qualityLong string
	var outputDirShort, outputDirLong string
	var listVariantsShort, listVariantsLong bool

	flag.StringVar(&qualityShort, "q", "best", "Variant to save: best, audio, video, or a quality label like 720p")
	flag.StringVar(&qualityLong, "quality", "best", "Variant to save: best, audio, video, or a quality label like 720p")

	flag.StringVar(&outputDirShort, "o", "", "Library root; files land under tracks/<collection>/ below it")
	flag.StringVar(&outputDirLong, "output-dir", "", "Library root; files land under tracks/<collection>/ below it")

	flag.BoolVar(&listVariantsShort, "F", false, "List available variants without downloading")
	flag.BoolVar(&listVariantsLong, "list-variants", false, "List available variants without downloading")

	flag.StringVar(&opts.OutputPath, "output-path", "", "Exact destination file, bypassing the library layout")
	flag.StringVar(&opts.BaseURL, "base-url", "", "Host base URL, required when the input is a bare track id")
	flag.StringVar(&opts.ProxyURL, "proxy", "", "Use the specified HTTP/HTTPS/SOCKS proxy")
	flag.StringVar(&opts.UserAgent, "user-agent", "", "User-Agent header override")
	flag.StringVar(&opts.CookiesFile, "cookies", "", "Netscape formatted cookies file for sign-in gated tracks")
	flag.IntVar(&opts.TimeoutSec, "timeout-sec", 0, "Overall per-track deadline in seconds (0 = none)")
	flag.IntVar(&opts.Retries, "retries", -1, "Watch-page retry count override (-1 keeps defaults)")
	flag.IntVar(&opts.RetrySleepMS, "retry-sleep-ms", -1, "Watch-page retry initial backoff in milliseconds (-1 keeps defaults)")
	flag.IntVar(&opts.StallSec, "stall-sec", 0, "Download stall timeout in seconds (0 keeps the default, -1 disables)")
	flag.IntVar(&opts.MinFreeMB, "min-free-mb", 0, "Free-space floor in MiB checked before downloading (0 keeps the default, -1 disables)")

	flag.BoolVar(&opts.PrintJSON, "print-json", false, "Be quiet and print the result as JSON")
	flag.BoolVar(&opts.NoProgress, "no-progress", false, "Do not render the progress bar")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Print lifecycle events")
	flag.BoolVar(&opts.Version, "version", false, "Print version and exit")

	// Custom usage
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vget [OPTIONS] URL_OR_TRACK_ID\n\n")
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	// Consolidate aliases
	opts.Quality = pickValue(qualityShort, qualityLong, "best")
	opts.OutputDir = pickValue(outputDirShort, outputDirLong, "")
	opts.ListVariants = listVariantsShort || listVariantsLong

	opts.Inputs = flag.Args()
	return opts
}

func pickValue(v1, v2, def string) string {
	if v1 != def {
		return v1
	}
	if v2 != def {
		return v2
	}
	return def
}

// ToClientConfig converts Options to client.Config.
func ToClientConfig(opts Options) (client.Config, error) {
	cfg := client.Config{
		BaseURL:   strings.TrimSpace(opts.BaseURL),
		ProxyURL:  strings.TrimSpace(opts.ProxyURL),
		UserAgent: strings.TrimSpace(opts.UserAgent),
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return cfg, fmt.Errorf("invalid --base-url %q: want scheme://host", opts.BaseURL)
		}
	}
	if cfg.ProxyURL != "" {
		u, err := url.Parse(cfg.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return cfg, fmt.Errorf("invalid --proxy %q: want scheme://host", opts.ProxyURL)
		}
	}

	if opts.TimeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(opts.TimeoutSec) * time.Second
	}
	switch {
	case opts.StallSec > 0:
		cfg.StallTimeout = time.Duration(opts.StallSec) * time.Second
	case opts.StallSec < 0:
		cfg.StallTimeout = -1
	}
	switch {
	case opts.MinFreeMB > 0:
		cfg.MinFreeBytes = int64(opts.MinFreeMB) << 20
	case opts.MinFreeMB < 0:
		cfg.MinFreeBytes = -1
	}
	if opts.Retries >= 0 {
		cfg.PageRetry.MaxRetries = opts.Retries
	}
	if opts.RetrySleepMS >= 0 {
		cfg.PageRetry.InitialBackoff = time.Duration(opts.RetrySleepMS) * time.Millisecond
	}

	if opts.CookiesFile != "" {
		f, err := os.Open(opts.CookiesFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to open cookies file: %w", err)
		}
		defer f.Close()

		parsed, err := cookies.ParseNetscape(f)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse cookies file: %w", err)
		}
		jar, err := cookies.NewJar(parsed)
		if err != nil {
			return cfg, fmt.Errorf("failed to build cookie jar: %w", err)
		}
		cfg.CookieJar = jar
	}
	return cfg, nil
}
