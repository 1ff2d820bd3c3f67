package language

import (
	"testing"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"en", true},
		{"fr", true},
		{"zht", true},
		{"cz", true},
		{"nb", true},
		{"tr", true},
		// Not in the table
		{"xx", false},
		{"cs", false}, // Czech is listed as "cz"
		{"no", false},
		{"pt_BR", false},
		{"", false},
		{"EN", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsSupported(tt.code); got != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	got := Codes()
	if len(got) != 22 {
		t.Fatalf("Codes() returned %d languages, want 22", len(got))
	}

	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("Codes() not sorted at %d: %q >= %q", i, got[i-1], got[i])
		}
	}

	// Mutating the copy must not leak into the table
	got[0] = "xx"
	if Codes()[0] == "xx" {
		t.Error("Codes() returned the shared backing slice")
	}
}

func TestName(t *testing.T) {
	if got := Name("pt"); got != "Portuguese (Brazil)" {
		t.Errorf("Name(pt) = %q", got)
	}
	if got := Name("xx"); got != "" {
		t.Errorf("Name(xx) = %q, want empty", got)
	}
}

func TestEntries(t *testing.T) {
	entries := Entries()
	if len(entries) != len(Codes()) {
		t.Fatalf("Entries() returned %d, want %d", len(entries), len(Codes()))
	}
	for _, e := range entries {
		if e.Name == "" || Name(e.Code) != e.Name {
			t.Errorf("entry %+v does not match table", e)
		}
	}
}

func TestBaseIsSupported(t *testing.T) {
	if !IsSupported(Base) {
		t.Errorf("base language %q must be in the table", Base)
	}
}

func TestConfident(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   bool
	}{
		{0.9, true},
		{0.41, true},
		{0.4, false}, // strict comparison
		{0.39, false},
		{0, false},
	}

	for _, tt := range tests {
		if got := Confident(tt.confidence); got != tt.expected {
			t.Errorf("Confident(%v) = %v, want %v", tt.confidence, got, tt.expected)
		}
	}
}
