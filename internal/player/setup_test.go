package player

import (
	"errors"
	"testing"
)

func TestParsePlayerSetup_ScriptTag(t *testing.T) {
	page := []byte(`<html><head></head><body>
<script id="player-setup" type="application/json">
{"status":"ok","track":{"id":"abc123XYZ","title":"First Light","uploader":"Nova","playlist":"night-drive","duration":214},"sources":[{"file":"https://cdn.example/v/abc.mp4","label":"720p","type":"video/mp4","bitrate":1800000,"mirrors":["https://cdn2.example/v/abc.mp4"]}]}
</script>
</body></html>`)

	setup, err := parsePlayerSetup(page)
	if err != nil {
		t.Fatalf("parsePlayerSetup() error = %v", err)
	}
	if setup.Status != "ok" {
		t.Errorf("Status = %q, want %q", setup.Status, "ok")
	}
	if setup.Track.Title != "First Light" {
		t.Errorf("Track.Title = %q, want %q", setup.Track.Title, "First Light")
	}
	if setup.Track.Duration != 214 {
		t.Errorf("Track.Duration = %d, want 214", setup.Track.Duration)
	}
	if len(setup.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(setup.Sources))
	}
	if setup.Sources[0].Label != "720p" {
		t.Errorf("Sources[0].Label = %q, want %q", setup.Sources[0].Label, "720p")
	}
	if len(setup.Sources[0].Mirrors) != 1 {
		t.Errorf("Sources[0].Mirrors = %d, want 1", len(setup.Sources[0].Mirrors))
	}
}

func TestParsePlayerSetup_InlineAssignment(t *testing.T) {
	page := []byte(`<html><body><script>
var playerSetup = {"status":"ok","reason":"","track":{"id":"abc123XYZ","title":"Braces } in \" title","uploader":"","playlist":"","duration":0},"sources":[{"file":"https://cdn.example/x.m4a","label":"audio","type":"audio/mp4","bitrate":128000}]};
playerSetup.start();
</script></body></html>`)

	setup, err := parsePlayerSetup(page)
	if err != nil {
		t.Fatalf("parsePlayerSetup() error = %v", err)
	}
	want := `Braces } in " title`
	if setup.Track.Title != want {
		t.Errorf("Track.Title = %q, want %q", setup.Track.Title, want)
	}
	if len(setup.Sources) != 1 {
		t.Fatalf("Sources = %d, want 1", len(setup.Sources))
	}
	if setup.Sources[0].Type != "audio/mp4" {
		t.Errorf("Sources[0].Type = %q, want %q", setup.Sources[0].Type, "audio/mp4")
	}
}

func TestParsePlayerSetup_Missing(t *testing.T) {
	page := []byte(`<html><body><p>nothing to play here</p></body></html>`)
	_, err := parsePlayerSetup(page)
	if !errors.Is(err, ErrSetupNotFound) {
		t.Fatalf("parsePlayerSetup() error = %v, want ErrSetupNotFound", err)
	}
}

func TestParsePlayerSetup_BadJSON(t *testing.T) {
	page := []byte(`<html><body><script id="player-setup" type="application/json">not json at all</script></body></html>`)
	_, err := parsePlayerSetup(page)
	if err == nil {
		t.Fatal("parsePlayerSetup() error = nil, want non-nil")
	}
	if errors.Is(err, ErrSetupNotFound) {
		t.Fatalf("parsePlayerSetup() error = %v, want decode failure, not ErrSetupNotFound", err)
	}
}

func TestMatchBracedBlock(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		start   int
		want    string
		wantErr bool
	}{
		{name: "flat", page: `{"a":1}`, start: 0, want: `{"a":1}`},
		{name: "nested", page: `x{"a":{"b":2}}y`, start: 1, want: `{"a":{"b":2}}`},
		{name: "brace in string", page: `{"a":"}{"}`, start: 0, want: `{"a":"}{"}`},
		{name: "unterminated", page: `{"a":1`, start: 0, wantErr: true},
		{name: "not a brace", page: `abc`, start: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchBracedBlock([]byte(tt.page), tt.start)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("matchBracedBlock() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("matchBracedBlock() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("matchBracedBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}
