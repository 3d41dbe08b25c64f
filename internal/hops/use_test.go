package hops

import "testing"

func TestParseUse(t *testing.T) {
	tests := map[string]Use{
		"boil":       Boil,
		"":           Boil,
		"First-Wort": FirstWort,
		"FWH":        FirstWort,
		"dry hop":    DryHop,
		"hop stand":  Whirlpool,
		"whirlpool":  Whirlpool,
		"mash":       Mash,
	}
	for in, want := range tests {
		got, err := ParseUse(in)
		if err != nil || got != want {
			t.Fatalf("ParseUse(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseUse("bottle"); err == nil {
		t.Fatalf("expected error for unknown use")
	}
}
