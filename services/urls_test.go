package services

import (
	"strings"
	"testing"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase host and sorted params",
			in:   "https://X.com/a?b=2&a=1",
			want: "https://x.com/a?a=1&b=2",
		},
		{
			name: "default https port stripped",
			in:   "https://example.com:443/news",
			want: "https://example.com/news",
		},
		{
			name: "default http port stripped",
			in:   "http://example.com:80/news",
			want: "http://example.com/news",
		},
		{
			name: "fragment removed",
			in:   "https://example.com/story#section-2",
			want: "https://example.com/story",
		},
		{
			name: "trailing slash removed",
			in:   "https://example.com/story/",
			want: "https://example.com/story",
		},
		{
			name: "tracking params removed",
			in:   "https://example.com/story?utm_source=x&id=5&fbclid=abc",
			want: "https://example.com/story?id=5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalURL(tt.in); got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalURLEquivalence(t *testing.T) {
	a := CanonicalURL("https://X.com/a?b=2&a=1")
	b := CanonicalURL("https://x.com/a?a=1&b=2")
	if a != b {
		t.Errorf("equivalent URLs canonicalize differently: %q vs %q", a, b)
	}
	if strings.Contains(a, "#") {
		t.Errorf("canonical form contains fragment: %q", a)
	}
}

func TestCanonicalURLUnparseable(t *testing.T) {
	if got := CanonicalURL("  not a url  "); got != "not a url" {
		t.Errorf("unparseable input should come back trimmed, got %q", got)
	}
}

func TestURLHost(t *testing.T) {
	if got := URLHost("https://www.TheHindu.com/news/x"); got != "thehindu.com" {
		t.Errorf("URLHost = %q, want thehindu.com", got)
	}
}
