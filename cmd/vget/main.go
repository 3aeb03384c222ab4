package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/famomatic/vget/client"
	"github.com/famomatic/vget/internal/cli"
	"github.com/famomatic/vget/internal/downloader"
	"github.com/famomatic/vget/internal/player"
)

var version = "0.1.0-dev"

func main() {
	opts := cli.ParseFlags()
	if opts.Version {
		fmt.Println("vget " + version)
		return
	}
	if len(opts.Inputs) != 1 {
		fmt.Fprintln(os.Stderr, "vget: expected exactly one track URL or id")
		flag.Usage()
		os.Exit(2)
	}
	input := opts.Inputs[0]

	cfg, err := cli.ToClientConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vget: %v\n", err)
		os.Exit(2)
	}
	cfg.Logger = stderrLogger{}
	if opts.Verbose {
		cfg.OnDownloadEvent = func(ev client.DownloadEvent) {
			fmt.Fprintln(os.Stderr, formatDownloadEvent(ev))
		}
	}
	var bar *byteBar
	if !opts.NoProgress && !opts.PrintJSON && !opts.ListVariants {
		bar = &byteBar{}
		cfg.Progress = bar
	}

	c := client.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.ListVariants {
		if err := runListVariants(ctx, c, input, opts); err != nil {
			exitWith(err, input)
		}
		return
	}

	res, err := c.Save(ctx, input, buildSaveOptions(opts))
	if bar != nil {
		bar.finish()
	}
	if err != nil {
		exitWith(err, input)
	}

	if opts.PrintJSON {
		if err := printResultJSON(os.Stdout, res); err != nil {
			fmt.Fprintf(os.Stderr, "vget: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Printf("Saved %q (%s, %s) -> %s\n",
		res.Title, res.Quality, humanize.Bytes(uint64(res.Bytes)), res.OutputPath)
}

func buildSaveOptions(opts cli.Options) client.SaveOptions {
	quality := client.SelectionModeBest
	if opts.Quality != "" {
		quality = client.SelectionMode(opts.Quality)
	}
	return client.SaveOptions{
		Quality:    quality,
		OutputDir:  opts.OutputDir,
		OutputPath: opts.OutputPath,
	}
}

func runListVariants(ctx context.Context, c *client.Client, input string, opts cli.Options) error {
	info, err := c.GetTrack(ctx, input)
	if err != nil {
		return err
	}
	if opts.PrintJSON {
		return printTrackJSON(os.Stdout, info)
	}

	fmt.Printf("Track: %s (%s)\n", info.Title, info.ID)
	if info.Uploader != "" {
		fmt.Printf("Uploader: %s\n", info.Uploader)
	}
	if info.DurationSec > 0 {
		fmt.Printf("Duration: %s\n", formatDuration(info.DurationSec))
	}
	fmt.Printf("Found %d variants:\n", len(info.Variants))
	for _, v := range info.Variants {
		fmt.Println(formatVariantRow(v))
	}
	return nil
}

func formatVariantRow(v client.VariantInfo) string {
	return fmt.Sprintf("%-12s %-6s %10s  %-24s mirrors=%d",
		v.Quality, variantKind(v), bitrateString(v.Bitrate), v.MimeType, len(v.Sources))
}

func variantKind(v client.VariantInfo) string {
	switch {
	case v.HasVideo && v.HasAudio:
		return "av"
	case v.HasVideo:
		return "video"
	case v.HasAudio:
		return "audio"
	default:
		return "data"
	}
}

func bitrateString(bitrate int) string {
	if bitrate <= 0 {
		return "-"
	}
	return humanize.SI(float64(bitrate), "bps")
}

func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatDownloadEvent(ev client.DownloadEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", ev.Stage, ev.Phase)
	if ev.TrackID != "" {
		fmt.Fprintf(&b, " track=%s", ev.TrackID)
	}
	if ev.Path != "" {
		fmt.Fprintf(&b, " path=%s", ev.Path)
	}
	if ev.Detail != "" {
		fmt.Fprintf(&b, " detail=%s", ev.Detail)
	}
	return b.String()
}

func printResultJSON(w io.Writer, res *client.SaveResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		JobID      string `json:"job_id"`
		TrackID    string `json:"track_id"`
		Title      string `json:"title"`
		Quality    string `json:"quality"`
		OutputPath string `json:"output_path"`
		SourceURL  string `json:"source_url"`
		Attempt    int    `json:"attempt"`
		Bytes      int64  `json:"bytes"`
	}{res.JobID, res.TrackID, res.Title, res.Quality, res.OutputPath, res.SourceURL, res.Attempt, res.Bytes})
}

func printTrackJSON(w io.Writer, info *client.TrackInfo) error {
	type variantJSON struct {
		Quality  string `json:"quality"`
		Kind     string `json:"kind"`
		MimeType string `json:"mime_type,omitempty"`
		Ext      string `json:"ext,omitempty"`
		Bitrate  int    `json:"bitrate,omitempty"`
		Mirrors  int    `json:"mirrors"`
	}
	out := struct {
		ID          string        `json:"id"`
		Title       string        `json:"title"`
		Uploader    string        `json:"uploader,omitempty"`
		Collection  string        `json:"collection,omitempty"`
		DurationSec int64         `json:"duration_sec,omitempty"`
		Variants    []variantJSON `json:"variants"`
	}{
		ID:          info.ID,
		Title:       info.Title,
		Uploader:    info.Uploader,
		Collection:  info.Collection,
		DurationSec: info.DurationSec,
	}
	for _, v := range info.Variants {
		out.Variants = append(out.Variants, variantJSON{
			Quality:  v.Quality,
			Kind:     variantKind(v),
			MimeType: v.MimeType,
			Ext:      v.Ext,
			Bitrate:  v.Bitrate,
			Mirrors:  len(v.Sources),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exitWith(err error, input string) {
	fmt.Fprintf(os.Stderr, "vget: %s: %v\n", input, err)
	for _, hint := range remediationHints(err) {
		fmt.Fprintf(os.Stderr, "vget: hint: %s\n", hint)
	}
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	switch client.ClassifyError(err) {
	case client.CategoryInvalidInput:
		return 2
	case client.CategoryLoginRequired:
		return 3
	case client.CategoryUnplayable:
		return 4
	case client.CategoryNoVariants:
		return 5
	case client.CategoryLowDiskSpace:
		return 6
	case client.CategoryExhausted:
		return 7
	case client.CategoryTimeout, client.CategoryNetwork:
		return 8
	case client.CategoryFilesystem:
		return 9
	default:
		return 1
	}
}

// remediationHints suggests flags or conditions behind a failed save. Best
// effort only; an empty slice is fine.
func remediationHints(err error) []string {
	var hints []string

	var unplayable *player.UnplayableError
	if errors.As(err, &unplayable) {
		switch {
		case unplayable.RequiresLogin():
			hints = append(hints, "the host requires a signed-in session; export browser cookies and pass --cookies")
		case unplayable.IsGeoRestricted():
			hints = append(hints, "the track is blocked for your region; retry with --proxy through an allowed region")
		case unplayable.IsRemoved():
			hints = append(hints, "the track was removed by the host; no variant can be fetched")
		}
	}

	var exhausted *downloader.AllSourcesExhaustedError
	if errors.As(err, &exhausted) {
		if n := countForbiddenAttempts(exhausted.Attempts); n > 0 && n == len(exhausted.Attempts) {
			hints = append(hints, "every mirror answered 403; the unlock token may have expired, re-running fetches a fresh one")
		}
		if hasStalledAttempt(exhausted.Attempts) {
			hints = append(hints, "a mirror stalled mid-transfer; --stall-sec raises the watchdog for slow links")
		}
	}

	if errors.Is(err, client.ErrNoBaseURL) {
		hints = append(hints, "bare track ids need --base-url to locate the watch page")
	}
	return hints
}

func countForbiddenAttempts(attempts []downloader.AttemptError) int {
	n := 0
	for _, attempt := range attempts {
		var statusErr *downloader.HTTPStatusError
		if errors.As(attempt.Err, &statusErr) && statusErr.StatusCode == http.StatusForbidden {
			n++
		}
	}
	return n
}

func hasStalledAttempt(attempts []downloader.AttemptError) bool {
	for _, attempt := range attempts {
		var timeoutErr *downloader.TimeoutError
		if errors.As(attempt.Err, &timeoutErr) {
			return true
		}
	}
	return false
}

type stderrLogger struct{}

func (stderrLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "vget: warning: "+format+"\n", args...)
}

// byteBar adapts the downloader's progress callback to a terminal bar. A new
// bar is started whenever the byte counter rewinds, which happens when the
// fallback engine moves to the next mirror.
type byteBar struct {
	bar   *progressbar.ProgressBar
	total int64
	last  int64
}

func (p *byteBar) OnProgress(bytesWritten, totalBytes int64) {
	if p.bar == nil || totalBytes != p.total || bytesWritten < p.last {
		if p.bar != nil {
			_ = p.bar.Clear()
		}
		p.bar = newProgressBar(totalBytes)
		p.total = totalBytes
	}
	p.last = bytesWritten
	_ = p.bar.Set64(bytesWritten)
}

func (p *byteBar) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
}

func newProgressBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
