package httpapi

import (
	"coursesys/internal/sections"
	"coursesys/internal/store"
	"coursesys/internal/term"
)

// Section describes a stored section in a transport-friendly format.
type Section struct {
	Subject          string          `json:"subject"`
	CourseNumber     string          `json:"courseNumber"`
	Year             int             `json:"year"`
	Term             int             `json:"term"`
	TermID           string          `json:"termId"`
	ReferenceNumber  int             `json:"crn"`
	SectionLabel     string          `json:"section,omitempty"`
	Credits          float64         `json:"credits"`
	AbbreviatedTitle string          `json:"title,omitempty"`
	Requisites       string          `json:"requisites,omitempty"`
	Seats            string          `json:"seats,omitempty"`
	Waitlist         string          `json:"waitlist,omitempty"`
	AdditionalFees   *float64        `json:"additionalFees,omitempty"`
	RepeatLimit      *int            `json:"repeatLimit,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Schedule         []ScheduleEntry `json:"schedule"`
}

// ScheduleEntry is one meeting of a section.
type ScheduleEntry struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Days       string `json:"days,omitempty"`
	Time       string `json:"time,omitempty"`
	Start      string `json:"start,omitempty"`
	End        string `json:"end,omitempty"`
	Room       string `json:"room,omitempty"`
	Instructor string `json:"instructor,omitempty"`
}

// TermSummary counts stored sections of one term.
type TermSummary struct {
	TermID   string `json:"termId"`
	Year     int    `json:"year"`
	Term     int    `json:"term"`
	Season   string `json:"season,omitempty"`
	Sections int    `json:"sections"`
}

// HealthResponse reports database reachability.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SubjectsResponse lists stored subjects.
type SubjectsResponse struct {
	Subjects []string `json:"subjects"`
}

// TermsResponse lists stored terms, newest first.
type TermsResponse struct {
	Terms []TermSummary `json:"terms"`
}

// SectionListResponse wraps a collection of sections.
type SectionListResponse struct {
	Sections []Section `json:"sections"`
}

// SectionResponse wraps one section.
type SectionResponse struct {
	Section Section `json:"section"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromSection converts a decoded section.
func FromSection(sec sections.Section) Section {
	out := Section{
		Subject:          sec.Subject,
		CourseNumber:     sec.CourseNumber,
		Year:             sec.Year,
		Term:             sec.Term,
		TermID:           term.Term{Year: sec.Year, Code: sec.Term}.Identifier(),
		ReferenceNumber:  sec.ReferenceNumber,
		SectionLabel:     sec.SectionLabel,
		Credits:          sec.Credits,
		AbbreviatedTitle: sec.AbbreviatedTitle,
		Requisites:       sec.Requisites,
		Seats:            sec.Seats,
		Waitlist:         sec.Waitlist,
		AdditionalFees:   sec.Fee,
		RepeatLimit:      sec.RepeatLimit,
		Notes:            sec.Notes,
		Schedule:         make([]ScheduleEntry, 0, len(sec.Schedule)),
	}
	for _, entry := range sec.Schedule {
		out.Schedule = append(out.Schedule, ScheduleEntry(entry))
	}
	return out
}

// FromTermSummary converts a stored term summary.
func FromTermSummary(summary store.TermSummary) TermSummary {
	return TermSummary{
		TermID:   term.Term{Year: summary.Year, Code: summary.Term}.Identifier(),
		Year:     summary.Year,
		Term:     summary.Term,
		Season:   term.SeasonForCode(summary.Term),
		Sections: summary.Sections,
	}
}
