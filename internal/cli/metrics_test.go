package cli

import (
	"testing"
	"time"
)

func TestParseSince(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"30d", 30 * 24 * time.Hour},
		{"", 7 * 24 * time.Hour}, // default
	}
	for _, tt := range tests {
		got, err := parseSince(tt.input)
		if err != nil {
			t.Errorf("parseSince(%q): %v", tt.input, err)
			continue
		}
		elapsed := time.Now().UTC().Sub(got)
		if diff := elapsed - tt.want; diff < -time.Minute || diff > time.Minute {
			t.Errorf("parseSince(%q) is %v back, want ~%v", tt.input, elapsed, tt.want)
		}
	}
}

func TestParseSince_Invalid(t *testing.T) {
	for _, input := range []string{"xd", "abc", "7w"} {
		if _, err := parseSince(input); err == nil {
			t.Errorf("parseSince(%q): expected error", input)
		}
	}
}
