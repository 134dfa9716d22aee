package term

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveHeading(t *testing.T) {
	r, err := NewResolver(DefaultHeadingSelector, DefaultHeadingPattern)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	tests := []struct {
		name string
		page string
		want Term
	}{
		{"spring", `<html><body><h2>Spring 2024</h2></body></html>`, Term{Year: 2024, Code: 10, Season: "Spring"}},
		{"summer uppercase", `<h2>SUMMER&nbsp;2023</h2>`, Term{Year: 2023, Code: 20, Season: "Summer"}},
		{"fall legacy", `<h2>Course Search</h2><h2>Fall 1999</h2>`, Term{Year: 1999, Code: 30, Season: "Fall"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(strings.NewReader(tt.page))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
			if got.Identifier() != tt.want.Identifier() {
				t.Fatalf("Identifier = %s", got.Identifier())
			}
		})
	}
}

func TestResolveUnknownSeasonFails(t *testing.T) {
	r, err := NewResolver(DefaultHeadingSelector, DefaultHeadingPattern)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	_, err = r.Resolve(strings.NewReader(`<h2>Winter 2024</h2>`))
	if !errors.Is(err, ErrUnknownSeason) {
		t.Fatalf("expected ErrUnknownSeason, got %v", err)
	}
}

func TestResolveMissingHeading(t *testing.T) {
	r, err := NewResolver(DefaultHeadingSelector, DefaultHeadingPattern)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	_, err = r.Resolve(strings.NewReader(`<p>Spring 2024</p>`))
	if !errors.Is(err, ErrNoHeading) {
		t.Fatalf("expected ErrNoHeading, got %v", err)
	}
}

func TestNewResolverRejectsBadPattern(t *testing.T) {
	if _, err := NewResolver("h2", `(spring)`); err == nil {
		t.Fatal("expected error for single capture group")
	}
	if _, err := NewResolver("", DefaultHeadingPattern); err == nil {
		t.Fatal("expected error for empty selector")
	}
}

func TestParseIdentifier(t *testing.T) {
	got, err := ParseIdentifier("202410")
	if err != nil {
		t.Fatalf("ParseIdentifier: %v", err)
	}
	if got.Year != 2024 || got.Code != CodeSpring || got.Season != "Spring" {
		t.Fatalf("unexpected term %+v", got)
	}
	if got.String() != "Spring 2024" {
		t.Fatalf("String = %q", got.String())
	}
	for _, bad := range []string{"", "2024", "2024ab", "202440"} {
		if _, err := ParseIdentifier(bad); err == nil {
			t.Errorf("ParseIdentifier(%q) expected error", bad)
		}
	}
}

func TestCodeForSeasonSubstring(t *testing.T) {
	code, err := CodeForSeason("Fall Semester")
	if err != nil || code != CodeFall {
		t.Fatalf("CodeForSeason = %d, %v", code, err)
	}
}
