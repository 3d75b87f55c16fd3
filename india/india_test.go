package india

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shri Rajesh Sharma", "Rajesh Sharma"},
		{"Dr. Anita  Rao", "Anita Rao"},
		{"  Rajesh   Kumar   Sharma  ", "Rajesh Kumar Sharma"},
		{"Smt Meena Iyer", "Meena Iyer"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateNamePatterns(t *testing.T) {
	patterns := GenerateNamePatterns("Rajesh Kumar Sharma", "Rajesh", "Kumar", "Sharma", []string{"R.K. Sharma"})

	want := []string{
		"Rajesh Kumar Sharma",
		"R.K. Sharma",
		"Rajesh Sharma",
		"R. Sharma",
		"Shri Rajesh Sharma",
	}
	for _, w := range want {
		found := false
		for _, p := range patterns {
			if p == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("pattern %q missing from %v", w, patterns)
		}
	}

	// Keine Duplikate.
	seen := map[string]bool{}
	for _, p := range patterns {
		if seen[p] {
			t.Errorf("duplicate pattern %q", p)
		}
		seen[p] = true
	}
}

func TestGenerateNamePatternsKeepsHonorificVariants(t *testing.T) {
	patterns := GenerateNamePatterns("Dr. Anita Rao", "", "", "", nil)
	foundStripped := false
	for _, p := range patterns {
		if p == "Anita Rao" {
			foundStripped = true
		}
		if strings.HasPrefix(p, "Shri Dr.") {
			t.Errorf("honorific stacked on honorific: %q", p)
		}
	}
	if !foundStripped {
		t.Errorf("honorific-stripped form missing from %v", patterns)
	}
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		host      string
		wantType  string
		wantScore int
	}{
		{"https://www.thehindu.com/news/x", SourceMainstreamNational, 85},
		{"deccanherald.com", SourceCredibleRegional, 70},
		{"opindia.com", SourcePartisan, 35},
		{"spotboye.com", SourceTabloid, 25},
		{"random-blog.example", SourceUnknown, 40},
		{"sports.ndtv.com", SourceMainstreamNational, 85},
	}
	for _, tt := range tests {
		gotType, gotScore := ClassifySource(tt.host)
		if gotType != tt.wantType || gotScore != tt.wantScore {
			t.Errorf("ClassifySource(%q) = %s/%d, want %s/%d",
				tt.host, gotType, gotScore, tt.wantType, tt.wantScore)
		}
	}
}

func TestStateName(t *testing.T) {
	if got := StateName("MH"); got != "Maharashtra" {
		t.Errorf("StateName(MH) = %q", got)
	}
	if got := StateName("mh"); got != "Maharashtra" {
		t.Errorf("StateName must be case-insensitive, got %q", got)
	}
	if got := StateName("Maharashtra"); got != "Maharashtra" {
		t.Errorf("unknown code must pass through, got %q", got)
	}
}

func TestDefaultContextTermsAreCopies(t *testing.T) {
	regulatory, _, _ := DefaultContextTerms()
	regulatory[0] = "mutated"
	fresh, _, _ := DefaultContextTerms()
	if fresh[0] == "mutated" {
		t.Error("DefaultContextTerms must return copies")
	}
}
