// Package term resolves the academic year and season of a course page.
package term

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"coursesys/internal/textutil"
)

// Defaults used when no heading selector or pattern is configured.
const (
	DefaultHeadingSelector = "h2"
	DefaultHeadingPattern  = `(?i)([a-z]+)\s+(\d{4})`
)

// Term codes as used in term identifiers such as "202410".
const (
	CodeSpring = 10
	CodeSummer = 20
	CodeFall   = 30
)

var (
	// ErrNoHeading indicates that no heading on the page matched the pattern.
	ErrNoHeading = errors.New("term heading not found")
	// ErrUnknownSeason indicates a heading whose season maps to no term code.
	ErrUnknownSeason = errors.New("unknown season")
)

// Term identifies one academic term.
type Term struct {
	Year   int
	Code   int
	Season string
}

// Identifier renders the term as "YYYYTT".
func (t Term) Identifier() string {
	return fmt.Sprintf("%04d%02d", t.Year, t.Code)
}

func (t Term) String() string {
	if t.Season == "" {
		return t.Identifier()
	}
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

// CodeForSeason maps a season name to its term code by case-insensitive substring.
func CodeForSeason(season string) (int, error) {
	lowered := strings.ToLower(season)
	switch {
	case strings.Contains(lowered, "spring"):
		return CodeSpring, nil
	case strings.Contains(lowered, "summer"):
		return CodeSummer, nil
	case strings.Contains(lowered, "fall"):
		return CodeFall, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSeason, season)
	}
}

// SeasonForCode returns the display season for a term code.
func SeasonForCode(code int) string {
	switch code {
	case CodeSpring:
		return "Spring"
	case CodeSummer:
		return "Summer"
	case CodeFall:
		return "Fall"
	default:
		return ""
	}
}

// ParseIdentifier parses a "YYYYTT" identifier such as "202410".
func ParseIdentifier(id string) (Term, error) {
	id = strings.TrimSpace(id)
	if len(id) != 6 {
		return Term{}, fmt.Errorf("term identifier %q: expected YYYYTT", id)
	}
	year, err := strconv.Atoi(id[:4])
	if err != nil {
		return Term{}, fmt.Errorf("term identifier %q: year: %w", id, err)
	}
	code, err := strconv.Atoi(id[4:])
	if err != nil {
		return Term{}, fmt.Errorf("term identifier %q: code: %w", id, err)
	}
	season := SeasonForCode(code)
	if season == "" {
		return Term{}, fmt.Errorf("term identifier %q: %w: code %d", id, ErrUnknownSeason, code)
	}
	return Term{Year: year, Code: code, Season: season}, nil
}

// Resolver extracts the term from a page heading.
type Resolver struct {
	selector string
	pattern  *regexp.Regexp
}

// NewResolver builds a resolver. The pattern must capture the season name
// first and the four-digit year second.
func NewResolver(selector, pattern string) (*Resolver, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, errors.New("heading selector is empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile heading pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return nil, fmt.Errorf("heading pattern %q: expected two capture groups", pattern)
	}
	return &Resolver{selector: selector, pattern: re}, nil
}

// Resolve reads the page and resolves its term.
func (r *Resolver) Resolve(page io.Reader) (Term, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return Term{}, fmt.Errorf("parse page: %w", err)
	}
	return r.ResolveDocument(doc)
}

// ResolveDocument resolves the term from an already parsed document. The first
// heading matching the pattern decides; a matching heading with an unknown
// season fails the whole resolution.
func (r *Resolver) ResolveDocument(doc *goquery.Document) (Term, error) {
	var match []string
	doc.Find(r.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		match = r.pattern.FindStringSubmatch(textutil.NormalizeCell(s.Text()))
		return match == nil
	})
	if match == nil {
		return Term{}, ErrNoHeading
	}
	season, yearText := match[1], match[2]
	code, err := CodeForSeason(season)
	if err != nil {
		return Term{}, err
	}
	year, err := strconv.Atoi(yearText)
	if err != nil || len(yearText) != 4 {
		return Term{}, fmt.Errorf("term heading year %q is not a four-digit year", yearText)
	}
	return Term{
		Year:   year,
		Code:   code,
		Season: cases.Title(language.Und).String(strings.ToLower(season)),
	}, nil
}
