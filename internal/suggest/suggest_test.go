package suggest

import (
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"both empty", "", "", 0},
		{"first empty", "", "abc", 3},
		{"second empty", "abc", "", 3},
		{"identical", "open", "open", 0},
		{"single substitution", "cat", "bat", 1},
		{"single insertion", "open", "opens", 1},
		{"single deletion", "minimize", "minimze", 1},
		{"transposition", "snap", "sanp", 2},
		{"kitten sitting", "kitten", "sitting", 3},
		{"case difference", "ABC", "abc", 3},
		{"dashes", "no-resize", "noresize", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levenshtein(tt.a, tt.b); got != tt.expected {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	pairs := []struct{ a, b string }{
		{"cat", "bat"},
		{"hello", "world"},
		{"", "test"},
		{"snap-to-top", "snap"},
	}

	for _, p := range pairs {
		ab := levenshtein(p.a, p.b)
		ba := levenshtein(p.b, p.a)
		if ab != ba {
			t.Errorf("levenshtein not symmetric: (%q,%q)=%d but (%q,%q)=%d",
				p.a, p.b, ab, p.b, p.a, ba)
		}
	}
}

func TestFlag(t *testing.T) {
	validFlags := []string{"--help", "--config", "--content", "--configure", "--json", "--log-file"}

	tests := []struct {
		name      string
		unknown   string
		wantFirst string // empty means no results expected
	}{
		{"exact match with dashes", "--help", "--help"},
		{"exact match without dashes", "json", "--json"},
		{"typo in help", "hlep", "--help"},
		{"typo in config", "--confg", "--config"},
		{"typo in content", "--contnet", "--content"},
		{"triple dash normalized", "---json", "--json"},
		{"very long unknown", "thisisaverylongflagthatdoesnotmatch", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Flag(tt.unknown, validFlags)

			if tt.wantFirst == "" {
				if len(result) != 0 {
					t.Errorf("Flag(%q) expected no results, got %v", tt.unknown, result)
				}
				return
			}
			if len(result) == 0 {
				t.Fatalf("Flag(%q) returned no results, want first=%q", tt.unknown, tt.wantFirst)
			}
			if result[0] != tt.wantFirst {
				t.Errorf("Flag(%q) first result = %q, want %q", tt.unknown, result[0], tt.wantFirst)
			}
		})
	}
}

func TestFlagLimitsToThree(t *testing.T) {
	validFlags := []string{"--aa", "--ab", "--ac", "--ad", "--ae", "--af"}

	if result := Flag("a", validFlags); len(result) > 3 {
		t.Errorf("Flag should return at most 3 results, got %d: %v", len(result), result)
	}
}

func TestFlagPreservesFormat(t *testing.T) {
	tests := []struct {
		validFlags []string
		unknown    string
		want       string
	}{
		{[]string{"--help"}, "help", "--help"},
		{[]string{"-h"}, "h", "-h"},
		{[]string{"help"}, "help", "help"},
	}

	for _, tt := range tests {
		result := Flag(tt.unknown, tt.validFlags)
		if len(result) == 0 {
			t.Fatalf("no results for %q", tt.unknown)
		}
		if result[0] != tt.want {
			t.Errorf("Flag(%q) = %q, want %q", tt.unknown, result[0], tt.want)
		}
	}
}

func TestAttribute(t *testing.T) {
	known := []string{"open", "no-resize", "minimize", "snap-to-top", "min-content-height"}

	tests := []struct {
		name    string
		unknown string
		want    string
	}{
		{"typo", "minimise", "minimize"},
		{"missing dash", "noresize", "no-resize"},
		{"alias visible", "visible", "open"},
		{"alias upper case", "FullScreen", "snap-to-top"},
		{"edit distance", "opne", "open"},
		{"content height typo", "min-contnet-height", "min-content-height"},
		{"fuzzy abbreviation", "mincontenthgt", "min-content-height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Attribute(tt.unknown, known)
			if len(got) == 0 {
				t.Fatalf("Attribute(%q) returned nothing, want %q", tt.unknown, tt.want)
			}
			if got[0] != tt.want {
				t.Errorf("Attribute(%q) = %v, want first %q", tt.unknown, got, tt.want)
			}
		})
	}
}

func TestAttributeNoMatch(t *testing.T) {
	if got := Attribute("zzzzzzzzzzzzzzzzzz", []string{"open"}); len(got) != 0 {
		t.Errorf("Attribute(zzz…) = %v, want none", got)
	}
}

func TestFuzzyEmptyPattern(t *testing.T) {
	if got := Fuzzy("", []string{"open"}); got != nil {
		t.Errorf("Fuzzy(\"\") = %v, want nil", got)
	}
}

func BenchmarkAttribute(b *testing.B) {
	known := []string{"open", "no-resize", "minimize", "snap-to-top", "min-content-height"}
	for i := 0; i < b.N; i++ {
		Attribute("snap-to-tpo", known)
	}
}
