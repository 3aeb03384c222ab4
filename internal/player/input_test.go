package player

import (
	"errors"
	"testing"
)

func TestExtractTrackID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare id", input: "abc123XYZ_-", want: "abc123XYZ_-"},
		{name: "short id", input: "a1b2c3", want: "a1b2c3"},
		{name: "watch url", input: "https://media.example/watch?t=abc123XYZ", want: "abc123XYZ"},
		{name: "watch url extra params", input: "https://media.example/watch?list=pl9&t=abc123XYZ", want: "abc123XYZ"},
		{name: "short path", input: "https://media.example/t/abc123XYZ", want: "abc123XYZ"},
		{name: "embed url", input: "https://media.example/embed/abc123XYZ?autoplay=1", want: "abc123XYZ"},
		{name: "surrounding whitespace", input: "  abc123XYZ  ", want: "abc123XYZ"},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "abc", wantErr: true},
		{name: "too long", input: "a23456789012345678901", wantErr: true},
		{name: "illegal characters", input: "abc 123!", wantErr: true},
		{name: "unrelated url", input: "https://media.example/about", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTrackID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("ExtractTrackID(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTrackID(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExtractTrackID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBaseURLFromInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://media.example/watch?t=abc123XYZ", "https://media.example"},
		{"http://127.0.0.1:9090/t/abc123XYZ", "http://127.0.0.1:9090"},
		{"abc123XYZ", ""},
		{"ftp://media.example/t/abc123XYZ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := baseURLFromInput(tt.input); got != tt.want {
			t.Errorf("baseURLFromInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
