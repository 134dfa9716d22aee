package store

import "time"

// SourceType names the kind of upstream page a source describes.
type SourceType string

// SourceSemesterSearch is a term's course-search result page. Its identifier
// is the "YYYYTT" term identifier.
const SourceSemesterSearch SourceType = "SemesterSearch"

// DefaultFetchFrequencyHours is applied to sources registered without a frequency.
const DefaultFetchFrequencyHours = 24

// Source is one registered upstream page.
type Source struct {
	ID                  int64
	Type                SourceType
	Identifier          string
	FetchFrequencyHours int
	NextFetchAt         *time.Time
	Active              bool
	CreatedAt           time.Time
}

// PageStatus tracks the parse lifecycle of a fetched page.
type PageStatus string

const (
	PageStatusPending PageStatus = "pending"
	PageStatusParsed  PageStatus = "parsed"
	PageStatusEmpty   PageStatus = "empty"
	PageStatusFailed  PageStatus = "failed"
)

var allPageStatuses = []PageStatus{
	PageStatusPending,
	PageStatusParsed,
	PageStatusEmpty,
	PageStatusFailed,
}

// PageStatuses returns every page status in lifecycle order.
func PageStatuses() []PageStatus {
	return append([]PageStatus(nil), allPageStatuses...)
}

// ParsePageStatus validates a status name.
func ParsePageStatus(value string) (PageStatus, bool) {
	for _, status := range allPageStatuses {
		if string(status) == value {
			return status, true
		}
	}
	return "", false
}

// FetchedPage is one stored payload of a source.
type FetchedPage struct {
	ID              int64
	SourceID        int64
	SourceType      SourceType
	Identifier      string
	FetchedAt       time.Time
	ContentHash     string
	ContentType     string
	ContentLink     string
	Status          PageStatus
	ParseError      string
	ParsedAt        *time.Time
	SectionCount    int
	DiagnosticCount int
}

// NewPage describes a payload being registered.
type NewPage struct {
	SourceID    int64
	FetchedAt   time.Time
	ContentHash string
	ContentType string
	ContentLink string
}

// SaveStats summarizes one SavePage call.
type SaveStats struct {
	Sections       int
	Entries        int
	RemovedEntries int64
}

// TermSummary counts stored sections for one term.
type TermSummary struct {
	Year     int
	Term     int
	Sections int
}

// Stats summarizes store contents.
type Stats struct {
	Sources  int
	Pages    map[PageStatus]int
	Sections int
	Entries  int
}
