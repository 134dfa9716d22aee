package testsupport

import (
	"context"
	"testing"

	"coursesys/internal/config"
	"coursesys/internal/sections"
	"coursesys/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewPage registers a pending page for the term identifier.
func NewPage(t testing.TB, st *store.Store, termID, hash string) *store.FetchedPage {
	t.Helper()

	ctx := context.Background()
	source, err := st.EnsureSource(ctx, store.SourceSemesterSearch, termID, 0)
	if err != nil {
		t.Fatalf("store.EnsureSource: %v", err)
	}
	page, err := st.AddPage(ctx, store.NewPage{
		SourceID:    source.ID,
		ContentHash: hash,
		ContentType: "text/html",
		ContentLink: "file:///pages/" + termID + "-" + hash + ".html",
	})
	if err != nil {
		t.Fatalf("store.AddPage: %v", err)
	}
	return page
}

// Section builds a decoded section with n lecture entries.
func Section(subject, course string, crn, n int) sections.Section {
	fee := 5.0
	sec := sections.Section{
		Subject:          subject,
		CourseNumber:     course,
		Year:             2024,
		Term:             10,
		ReferenceNumber:  crn,
		SectionLabel:     "001",
		Credits:          3,
		AbbreviatedTitle: subject + " " + course,
		Fee:              &fee,
	}
	for i := 0; i < n; i++ {
		sec.Schedule = append(sec.Schedule, sections.ScheduleEntry{
			Index:      i,
			Type:       "Lecture",
			Days:       "M-W----",
			Time:       "1030-1220",
			Start:      "2024-01-08",
			End:        "2024-04-05",
			Room:       "A130",
			Instructor: "Smith, J",
		})
	}
	return sec
}
