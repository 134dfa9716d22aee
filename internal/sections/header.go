package sections

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"coursesys/internal/fields"
)

const (
	headerWidth   = 12
	headerFields  = 11
	scheduleWidth = 7
)

// Header group positions.
const (
	colRequisites = iota
	colSeats
	colWaitlist
	colReference
	colSubject
	colCourse
	colSection
	colCredits
	colTitle
	colFee
	colRepeatLimit
	colTrailing
)

var (
	referencePattern = regexp.MustCompile(`^[0-9]{5}$`)
	subjectPattern   = regexp.MustCompile(`^[A-Z]{2,6}$`)
	coursePattern    = regexp.MustCompile(`^[0-9A-Z]{3,5}$`)
)

var errShortHeader = errors.New("header group runs past end of stream")

// parseHeader assigns the first eleven tokens of a header group to a section.
// It fails when the group is not well formed: the reference number, subject,
// course number, and credits are required.
func parseHeader(group []string, year, term int) (Section, error) {
	if len(group) < headerFields {
		return Section{}, errShortHeader
	}
	ref, ok := fields.Int(group[colReference])
	if !ok || !referencePattern.MatchString(fields.Text(group[colReference])) {
		return Section{}, fmt.Errorf("reference number %q", group[colReference])
	}
	subject := fields.Text(group[colSubject])
	if !subjectPattern.MatchString(subject) {
		return Section{}, fmt.Errorf("subject %q", group[colSubject])
	}
	course := fields.Text(group[colCourse])
	if !coursePattern.MatchString(course) {
		return Section{}, fmt.Errorf("course number %q", group[colCourse])
	}
	credits, ok := fields.Number(group[colCredits])
	if !ok {
		return Section{}, fmt.Errorf("credits %q", group[colCredits])
	}

	sec := Section{
		Subject:          subject,
		CourseNumber:     course,
		Year:             year,
		Term:             term,
		ReferenceNumber:  ref,
		SectionLabel:     fields.Text(group[colSection]),
		Credits:          credits,
		AbbreviatedTitle: fields.Text(group[colTitle]),
		Requisites:       fields.Text(group[colRequisites]),
		Seats:            fields.Text(group[colSeats]),
		Waitlist:         fields.Text(group[colWaitlist]),
	}
	if fee, ok := fields.Currency(group[colFee]); ok {
		sec.Fee = &fee
	}
	if limit, ok := fields.Int(group[colRepeatLimit]); ok {
		sec.RepeatLimit = &limit
	}
	return sec, nil
}

type shiftOutcome int

const (
	shiftNone shiftOutcome = iota
	shiftCorrected
	shiftRejected
)

// correctShift decides how many tokens the header group starting at start
// occupies. The trailing slot normally holds blank or marker text; a bare
// integer there means the group was rendered one token short and the integer
// opens the next record. The shift is accepted only when a well-formed header
// starts at that integer, otherwise the full width is kept.
//
// The trigger is a heuristic over occasional upstream misalignment and is kept
// here so it can be revised without touching the state machine.
func correctShift(tokens []string, start int, wellFormedAt func(int) bool) (int, shiftOutcome) {
	trailing := start + colTrailing
	if trailing >= len(tokens) {
		return len(tokens) - start, shiftNone
	}
	if !fields.IsInteger(tokens[trailing]) {
		return headerWidth, shiftNone
	}
	if wellFormedAt(trailing) {
		return headerFields, shiftCorrected
	}
	return headerWidth, shiftRejected
}

// startsHeader reports whether the group at pos opens the next section instead
// of a meeting. A blank first slot is both the meeting-type placeholder and an
// empty requisites cell, and a section may have no meetings at all. Meeting
// groups hold a date in the fourth slot where a header holds the reference
// number, so a well-formed header always wins.
func startsHeader(pos int, wellFormedAt func(int) bool) bool {
	return wellFormedAt(pos)
}

// parseSchedule assigns a 7-token meeting group.
func parseSchedule(group []string, index, pageYear int) ScheduleEntry {
	return ScheduleEntry{
		Index:      index,
		Type:       strings.TrimSpace(group[0]),
		Days:       fields.Text(group[1]),
		Time:       fields.Text(group[2]),
		Start:      fields.Date(group[3], pageYear),
		End:        fields.Date(group[4], pageYear),
		Room:       fields.Text(group[5]),
		Instructor: fields.Text(group[6]),
	}
}
