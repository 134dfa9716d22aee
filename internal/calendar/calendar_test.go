package calendar

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"coursesys/internal/sections"
)

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func entry(days, clock, start, end string) sections.ScheduleEntry {
	return sections.ScheduleEntry{
		Type:       "Lecture",
		Days:       days,
		Time:       clock,
		Start:      start,
		End:        end,
		Room:       "A130",
		Instructor: "Smith, J",
	}
}

func TestResolve(t *testing.T) {
	loc := vancouver(t)
	tests := []struct {
		name      string
		entry     sections.ScheduleEntry
		wantFirst string
		wantEnd   string
		wantDays  string
	}{
		{
			name:      "starts on meeting day",
			entry:     entry("M-W----", "1030-1220", "2024-01-08", "2024-04-05"),
			wantFirst: "2024-01-08 10:30",
			wantEnd:   "2024-01-08 12:20",
			wantDays:  "MO,WE",
		},
		{
			name:      "advances to first meeting day",
			entry:     entry("-T-R---", "0830-1020", "2024-01-08", "2024-04-05"),
			wantFirst: "2024-01-09 08:30",
			wantEnd:   "2024-01-09 10:20",
			wantDays:  "TU,TH",
		},
		{
			name:      "letters other than dash mark meetings",
			entry:     entry("-----SU", "0900-1200", "2024-01-08", "2024-04-05"),
			wantFirst: "2024-01-13 09:00",
			wantEnd:   "2024-01-13 12:00",
			wantDays:  "SA,SU",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Resolve(tt.entry, loc)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got := m.First.Format("2006-01-02 15:04"); got != tt.wantFirst {
				t.Fatalf("first = %s, want %s", got, tt.wantFirst)
			}
			if got := m.End.Format("2006-01-02 15:04"); got != tt.wantEnd {
				t.Fatalf("end = %s, want %s", got, tt.wantEnd)
			}
			if got := strings.Join(m.Days, ","); got != tt.wantDays {
				t.Fatalf("days = %s, want %s", got, tt.wantDays)
			}
			if got := m.Until.Format("2006-01-02 15:04:05"); got != "2024-04-05 23:59:59" {
				t.Fatalf("until = %s", got)
			}
		})
	}
}

func TestResolveIncomplete(t *testing.T) {
	loc := vancouver(t)
	tests := []struct {
		name  string
		entry sections.ScheduleEntry
	}{
		{name: "no days", entry: entry("-------", "1030-1220", "2024-01-08", "2024-04-05")},
		{name: "short days", entry: entry("MW", "1030-1220", "2024-01-08", "2024-04-05")},
		{name: "tba time", entry: entry("M------", "TBA", "2024-01-08", "2024-04-05")},
		{name: "reversed time", entry: entry("M------", "1220-1030", "2024-01-08", "2024-04-05")},
		{name: "bad clock", entry: entry("M------", "2500-2600", "2024-01-08", "2024-04-05")},
		{name: "missing start", entry: entry("M------", "1030-1220", "", "2024-04-05")},
		{name: "missing end", entry: entry("M------", "1030-1220", "2024-01-08", "")},
		{name: "no meeting before end", entry: entry("----F--", "1030-1220", "2024-01-08", "2024-01-10")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.entry, loc); !errors.Is(err, ErrIncomplete) {
				t.Fatalf("expected ErrIncomplete, got %v", err)
			}
		})
	}
}

func sampleSections() []sections.Section {
	lab := entry("----F--", "1430-1620", "2024-01-12", "2024-04-05")
	lab.Index = 1
	lab.Type = "Lab"
	online := entry("-------", "-", "", "")
	online.Index = 2
	return []sections.Section{{
		Subject:          "CPSC",
		CourseNumber:     "1150",
		Year:             2024,
		Term:             10,
		ReferenceNumber:  10234,
		SectionLabel:     "001",
		AbbreviatedTitle: "Data Structures",
		Schedule: []sections.ScheduleEntry{
			entry("M-W----", "1030-1220", "2024-01-08", "2024-04-05"),
			lab,
			online,
		},
	}}
}

func TestWriteSerializesWeeklyEvents(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	summary, err := Write(&buf, sampleSections(), Options{Name: "CPSC 1150", Now: stamp})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if summary.Events != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	out := buf.String()
	for _, fragment := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:CPSC 1150",
		"UID:202410-10234-0@coursesys",
		"DTSTART;TZID=America/Vancouver:20240108T103000",
		"DTEND;TZID=America/Vancouver:20240108T122000",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20240406T065959Z",
		"DTSTART;TZID=America/Vancouver:20240112T143000",
		"SUMMARY:CPSC 1150 001 Lab",
		"LOCATION:A130",
		"DTSTAMP:20240101T120000Z",
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in calendar:\n%s", fragment, out)
		}
	}

	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := parsed.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events after parse, got %d", len(events))
	}
	if got := events[0].GetProperty(ics.ComponentPropertySummary).Value; got != "CPSC 1150 001 Lecture" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestBuildRejectsUnknownTimeZone(t *testing.T) {
	if _, _, err := Build(sampleSections(), Options{TimeZone: "Mars/Olympus"}); err == nil {
		t.Fatal("expected error for unknown time zone")
	}
}

func TestBuildWithNoSections(t *testing.T) {
	cal, summary, err := Build(nil, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if summary.Events != 0 || len(cal.Events()) != 0 {
		t.Fatalf("expected empty calendar, got %+v", summary)
	}
}
