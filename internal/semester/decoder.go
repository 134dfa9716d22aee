package semester

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coursesys/internal/sections"
	"coursesys/internal/term"
	"coursesys/internal/tokens"
)

// Options selects the page elements the decoder reads. Empty fields fall back
// to the package defaults of tokens and term.
type Options struct {
	TableSelector   string
	HeadingSelector string
	HeadingPattern  string
}

// Page is the decoded content of one page.
type Page struct {
	Term        term.Term
	Tokens      int
	Sections    []sections.Section
	Diagnostics []sections.Diagnostic
	// Empty is set when the page carried no course table.
	Empty bool
}

// ScheduleCount returns the number of schedule entries across all sections.
func (p Page) ScheduleCount() int {
	n := 0
	for _, sec := range p.Sections {
		n += len(sec.Schedule)
	}
	return n
}

// Decoder turns raw pages into sections.
type Decoder struct {
	extractor *tokens.Extractor
	resolver  *term.Resolver
}

// NewDecoder builds a decoder from opts.
func NewDecoder(opts Options) (*Decoder, error) {
	selector := strings.TrimSpace(opts.HeadingSelector)
	if selector == "" {
		selector = term.DefaultHeadingSelector
	}
	pattern := opts.HeadingPattern
	if strings.TrimSpace(pattern) == "" {
		pattern = term.DefaultHeadingPattern
	}
	resolver, err := term.NewResolver(selector, pattern)
	if err != nil {
		return nil, fmt.Errorf("term resolver: %w", err)
	}
	return &Decoder{
		extractor: tokens.NewExtractor(opts.TableSelector),
		resolver:  resolver,
	}, nil
}

// Decode reads and decodes one page.
func (d *Decoder) Decode(page io.Reader) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return Page{}, &Error{Kind: KindRead, Err: err}
	}
	return d.DecodeDocument(doc)
}

// DecodeDocument decodes an already parsed page.
func (d *Decoder) DecodeDocument(doc *goquery.Document) (Page, error) {
	toks, err := d.extractor.ExtractDocument(doc)
	if errors.Is(err, tokens.ErrNoData) {
		// The term is informative only for an empty page.
		resolved, _ := d.resolver.ResolveDocument(doc)
		return Page{Term: resolved, Empty: true}, nil
	}
	if err != nil {
		return Page{}, &Error{Kind: KindRead, Err: err}
	}

	resolved, err := d.resolver.ResolveDocument(doc)
	if err != nil {
		return Page{}, &Error{Kind: KindTerm, Err: err}
	}

	result := sections.Reconstruct(toks, resolved.Year, resolved.Code)
	return Page{
		Term:        resolved,
		Tokens:      len(toks),
		Sections:    result.Sections,
		Diagnostics: result.Diagnostics,
	}, nil
}
