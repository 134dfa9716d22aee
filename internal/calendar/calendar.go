// Package calendar exports section schedules as iCalendar weekly events.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"coursesys/internal/sections"
	"coursesys/internal/term"
)

// DefaultTimeZone is the campus time zone meeting times are expressed in.
const DefaultTimeZone = "America/Vancouver"

const (
	localTimestamp = "20060102T150405"
	utcTimestamp   = "20060102T150405Z"
	entryDate      = "2006-01-02"
)

var weekdays = [7]struct {
	day  time.Weekday
	code string
}{
	{time.Monday, "MO"},
	{time.Tuesday, "TU"},
	{time.Wednesday, "WE"},
	{time.Thursday, "TH"},
	{time.Friday, "FR"},
	{time.Saturday, "SA"},
	{time.Sunday, "SU"},
}

// ErrIncomplete marks a schedule entry that cannot be placed on a calendar.
var ErrIncomplete = errors.New("schedule entry is incomplete")

// Options configures an export.
type Options struct {
	TimeZone string
	Name     string
	// Now stamps every event; zero means time.Now.
	Now time.Time
}

// Summary counts exported and skipped schedule entries.
type Summary struct {
	Events  int
	Skipped int
}

// Meeting is a schedule entry resolved to concrete times.
type Meeting struct {
	First time.Time
	End   time.Time
	Until time.Time
	Days  []string
}

// Resolve places entry in loc. Entries without meeting days, a HHMM-HHMM
// time, or start and end dates return ErrIncomplete.
func Resolve(entry sections.ScheduleEntry, loc *time.Location) (Meeting, error) {
	days, weekdaySet := parseDays(entry.Days)
	if len(days) == 0 {
		return Meeting{}, fmt.Errorf("%w: days %q", ErrIncomplete, entry.Days)
	}
	startClock, endClock, ok := parseTimeRange(entry.Time)
	if !ok {
		return Meeting{}, fmt.Errorf("%w: time %q", ErrIncomplete, entry.Time)
	}
	startDate, err := time.ParseInLocation(entryDate, entry.Start, loc)
	if err != nil {
		return Meeting{}, fmt.Errorf("%w: start %q", ErrIncomplete, entry.Start)
	}
	endDate, err := time.ParseInLocation(entryDate, entry.End, loc)
	if err != nil {
		return Meeting{}, fmt.Errorf("%w: end %q", ErrIncomplete, entry.End)
	}

	first := startDate
	for !weekdaySet[first.Weekday()] {
		first = first.AddDate(0, 0, 1)
	}
	if first.After(endDate) {
		return Meeting{}, fmt.Errorf("%w: no meeting day between %s and %s", ErrIncomplete, entry.Start, entry.End)
	}
	return Meeting{
		First: at(first, startClock),
		End:   at(first, endClock),
		Until: at(endDate, 24*time.Hour-time.Second),
		Days:  days,
	}, nil
}

// at returns the wall-clock time clock after midnight on day.
func at(day time.Time, clock time.Duration) time.Time {
	h := int(clock / time.Hour)
	m := int(clock % time.Hour / time.Minute)
	s := int(clock % time.Minute / time.Second)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, day.Location())
}

// Build renders secs as a calendar with one weekly recurring event per
// placeable schedule entry.
func Build(secs []sections.Section, opts Options) (*ics.Calendar, Summary, error) {
	tz := strings.TrimSpace(opts.TimeZone)
	if tz == "" {
		tz = DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("load time zone: %w", err)
	}
	stamp := opts.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendarFor("coursesys")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRTimezone(tz)
	if name := strings.TrimSpace(opts.Name); name != "" {
		cal.SetXWRCalName(name)
	}

	var summary Summary
	for _, sec := range secs {
		for _, entry := range sec.Schedule {
			meeting, err := Resolve(entry, loc)
			if err != nil {
				summary.Skipped++
				continue
			}
			addEvent(cal, sec, entry, meeting, tz, stamp)
			summary.Events++
		}
	}
	return cal, summary, nil
}

// Write builds the calendar and serializes it to w.
func Write(w io.Writer, secs []sections.Section, opts Options) (Summary, error) {
	cal, summary, err := Build(secs, opts)
	if err != nil {
		return Summary{}, err
	}
	if err := cal.SerializeTo(w); err != nil {
		return Summary{}, fmt.Errorf("write calendar: %w", err)
	}
	return summary, nil
}

func addEvent(cal *ics.Calendar, sec sections.Section, entry sections.ScheduleEntry, m Meeting, tz string, stamp time.Time) {
	termID := term.Term{Year: sec.Year, Code: sec.Term}.Identifier()
	event := cal.AddEvent(fmt.Sprintf("%s-%d-%d@coursesys", termID, sec.ReferenceNumber, entry.Index))
	event.SetDtStampTime(stamp)
	event.SetProperty(ics.ComponentPropertyDtStart, m.First.Format(localTimestamp), ics.WithTZID(tz))
	event.SetProperty(ics.ComponentPropertyDtEnd, m.End.Format(localTimestamp), ics.WithTZID(tz))
	event.AddRrule("FREQ=WEEKLY;BYDAY=" + strings.Join(m.Days, ",") + ";UNTIL=" + m.Until.UTC().Format(utcTimestamp))

	title := strings.TrimSpace(sec.Course() + " " + sec.SectionLabel)
	if entry.Type != "" {
		title += " " + entry.Type
	}
	event.SetSummary(title)
	if entry.Room != "" {
		event.SetLocation(entry.Room)
	}
	var desc []string
	if sec.AbbreviatedTitle != "" {
		desc = append(desc, sec.AbbreviatedTitle)
	}
	if entry.Instructor != "" {
		desc = append(desc, "Instructor: "+entry.Instructor)
	}
	desc = append(desc, "CRN "+strconv.Itoa(sec.ReferenceNumber))
	event.SetDescription(strings.Join(desc, "\n"))
}

func parseDays(pattern string) ([]string, map[time.Weekday]bool) {
	pattern = strings.TrimSpace(pattern)
	if len(pattern) != len(weekdays) {
		return nil, nil
	}
	var codes []string
	set := make(map[time.Weekday]bool)
	for i, wd := range weekdays {
		if c := pattern[i]; c == '-' || c == ' ' {
			continue
		}
		codes = append(codes, wd.code)
		set[wd.day] = true
	}
	return codes, set
}

func parseTimeRange(value string) (time.Duration, time.Duration, bool) {
	from, to, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return 0, 0, false
	}
	start, ok := parseClock(from)
	if !ok {
		return 0, 0, false
	}
	end, ok := parseClock(to)
	if !ok || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func parseClock(value string) (time.Duration, bool) {
	if len(value) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, false
	}
	hours, minutes := n/100, n%100
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, true
}
