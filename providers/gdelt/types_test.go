package gdelt

import "testing"

func TestParseSeenDate(t *testing.T) {
	ts := parseSeenDate("20260827T101500Z")
	if ts == nil {
		t.Fatal("expected parsed timestamp")
	}
	if ts.Year() != 2026 || ts.Month() != 8 || ts.Day() != 27 {
		t.Errorf("unexpected date: %v", ts)
	}
	if parseSeenDate("not a date") != nil {
		t.Error("garbage must parse to nil")
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"English", "en"},
		{"hindi", "hi"},
		{"Tamil", "ta"},
		{"Klingon", ""},
	}
	for _, tt := range tests {
		if got := normalizeLanguage(tt.in); got != tt.want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
