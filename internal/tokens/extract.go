package tokens

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coursesys/internal/textutil"
)

// DefaultTableSelector matches the result table of the course-search page.
const DefaultTableSelector = "table.dataentrytable"

const (
	separatorClass     = "deseparator"
	fillerColspan      = "22"
	instructorHeader   = "Instructor(s)"
	headerRowWidth     = 18
	courseBannerMarker = "***"
)

// ErrNoData indicates that the page has no course table at all.
var ErrNoData = errors.New("no course table on page")

var courseHeaderPattern = regexp.MustCompile(`^[A-Z]{2,4} [0-9]{4}$`)
var courseBannerPattern = regexp.MustCompile(`^[A-Z]{2,4} [0-9]{4} `)

// Extractor pulls cell tokens out of course-search pages.
type Extractor struct {
	selector string
}

// NewExtractor returns an extractor for tables matching selector.
func NewExtractor(selector string) *Extractor {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = DefaultTableSelector
	}
	return &Extractor{selector: selector}
}

// Extract parses the page and returns its tokens.
func (e *Extractor) Extract(page io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return e.ExtractDocument(doc)
}

// ExtractDocument returns the tokens of every matching table in document order.
func (e *Extractor) ExtractDocument(doc *goquery.Document) ([]string, error) {
	tables := doc.Find(e.selector)
	if tables.Length() == 0 {
		return nil, ErrNoData
	}
	var out []string
	tables.Find("td").Each(func(_ int, cell *goquery.Selection) {
		if skipCell(cell) {
			return
		}
		text := textutil.NormalizeCell(cell.Text())
		switch {
		case text == instructorHeader:
			out = dropTail(out, headerRowWidth)
			return
		case isCourseHeaderLine(text):
			return
		}
		out = append(out, text)
	})
	return out, nil
}

func skipCell(cell *goquery.Selection) bool {
	if cell.HasClass(separatorClass) {
		return true
	}
	if span, ok := cell.Attr("colspan"); ok && strings.TrimSpace(span) == fillerColspan {
		return true
	}
	return false
}

// isCourseHeaderLine reports cells repeating a course header or banner.
func isCourseHeaderLine(text string) bool {
	if courseHeaderPattern.MatchString(text) {
		return true
	}
	return courseBannerPattern.MatchString(text) && strings.HasSuffix(text, courseBannerMarker)
}

func dropTail(tokens []string, n int) []string {
	if n >= len(tokens) {
		return tokens[:0]
	}
	return tokens[:len(tokens)-n]
}
