package textutil

import "testing"

func TestNormalizeCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"nbsp only", "\u00a0", ""},
		{"nbsp padding", "\u00a0CPSC\u00a0", "CPSC"},
		{"interior runs", "Algrthms  &\n\tData   Strctrs", "Algrthms & Data Strctrs"},
		{"zero width", "10\u200b234", "10234"},
		{"fullwidth digits", "\uff11\uff12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCell(tt.in); got != tt.want {
				t.Errorf("NormalizeCell(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("  \t") {
		t.Error("expected whitespace to be blank")
	}
	if IsBlank(" x ") {
		t.Error("expected text to be non-blank")
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "yes", "no"); got != "yes" {
		t.Errorf("Ternary(true) = %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Errorf("Ternary(false) = %d", got)
	}
}
