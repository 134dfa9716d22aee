package sections

import (
	"fmt"

	"coursesys/internal/textutil"
)

type state int

const (
	stateScanningForHeader state = iota
	stateEmittingSection
	stateEmittingScheduleBlock
	stateResolvingGap
	stateEndOfStream
)

func (s state) String() string {
	switch s {
	case stateScanningForHeader:
		return "ScanningForHeader"
	case stateEmittingSection:
		return "EmittingSection"
	case stateEmittingScheduleBlock:
		return "EmittingScheduleBlock"
	case stateResolvingGap:
		return "ResolvingGap"
	default:
		return "EndOfStream"
	}
}

// Result is the ordered output of one reconstruction.
type Result struct {
	Sections    []Section
	Diagnostics []Diagnostic
}

// ScheduleCount returns the number of schedule entries across all sections.
func (r Result) ScheduleCount() int {
	n := 0
	for _, sec := range r.Sections {
		n += len(sec.Schedule)
	}
	return n
}

// Reconstruct decodes a page's token stream into sections for the given
// year and term code.
func Reconstruct(tokens []string, year, term int) Result {
	r := &reconstructor{
		tokens:    tokens,
		year:      year,
		term:      term,
		seen:      make(map[Key]struct{}),
		skipStart: -1,
	}
	r.run()
	return r.result
}

type reconstructor struct {
	tokens []string
	pos    int
	year   int
	term   int

	pending *pendingNote
	current *Section
	discard bool
	seen    map[Key]struct{}

	skipStart int
	skipped   int

	result Result
}

func (r *reconstructor) run() {
	st := stateScanningForHeader
	for st != stateEndOfStream {
		switch st {
		case stateScanningForHeader:
			st = r.scanForHeader()
		case stateEmittingSection:
			st = r.emitSection()
		case stateEmittingScheduleBlock:
			st = r.emitScheduleGroup()
		case stateResolvingGap:
			st = r.resolveGap()
		default:
			panic(fmt.Sprintf("sections: unhandled state %s", st))
		}
	}
	r.closeSection()
	r.flushSkipped()
}

func (r *reconstructor) scanForHeader() state {
	r.closeSection()
	if r.restBlank(r.pos) {
		r.pos = len(r.tokens)
		return stateEndOfStream
	}
	if note, ok := detectClassNote(r.tokens[r.pos]); ok {
		r.flushSkipped()
		r.pending = &note
		r.pos++
		return stateScanningForHeader
	}
	return stateEmittingSection
}

func (r *reconstructor) emitSection() state {
	sec, err := r.headerAt(r.pos)
	if err != nil {
		// Blank tokens here are padding before the next header.
		if !textutil.IsBlank(r.tokens[r.pos]) {
			if r.skipStart < 0 {
				r.skipStart = r.pos
			}
			r.skipped++
		}
		r.pos++
		return stateScanningForHeader
	}
	r.flushSkipped()

	width, outcome := correctShift(r.tokens, r.pos, r.wellFormedAt)
	key := sec.Key()
	switch outcome {
	case shiftCorrected:
		r.diagnose(DiagShiftCorrected, r.pos+colTrailing, &key, "header group is one token short; rewound onto the next record")
	case shiftRejected:
		r.diagnose(DiagShiftRejected, r.pos+colTrailing, &key, "numeric trailing slot does not start a well-formed record")
	}

	if r.pending != nil {
		if r.pending.course == sec.Course() {
			sec.Notes = r.pending.text
		} else {
			r.pending = nil
		}
	}

	_, dup := r.seen[key]
	if dup {
		r.diagnose(DiagDuplicateSection, r.pos, &key, "section key already emitted on this page")
	} else {
		r.seen[key] = struct{}{}
	}
	r.current = &sec
	r.discard = dup
	r.pos += width

	if outcome == shiftCorrected {
		return stateScanningForHeader
	}
	return stateEmittingScheduleBlock
}

func (r *reconstructor) emitScheduleGroup() state {
	if r.pos >= len(r.tokens) {
		return stateEndOfStream
	}
	if startsHeader(r.pos, r.wellFormedAt) {
		return stateScanningForHeader
	}
	if !IsMeetingType(r.tokens[r.pos]) {
		r.diagnose(DiagUnknownMeetingType, r.pos, r.currentKey(), "schedule consumption stopped")
		return stateScanningForHeader
	}
	if len(r.tokens)-r.pos < scheduleWidth {
		r.diagnose(DiagTruncatedSchedule, r.pos, r.currentKey(),
			fmt.Sprintf("%d of %d meeting tokens remain", len(r.tokens)-r.pos, scheduleWidth))
		r.pos = len(r.tokens)
		return stateEndOfStream
	}
	group := r.tokens[r.pos : r.pos+scheduleWidth]
	entry := parseSchedule(group, len(r.current.Schedule), r.year)
	r.current.Schedule = append(r.current.Schedule, entry)
	r.pos += scheduleWidth
	return stateResolvingGap
}

func (r *reconstructor) resolveGap() state {
	run := blankRun(r.tokens, r.pos)
	if r.pos+run >= len(r.tokens) {
		r.pos = len(r.tokens)
		return stateEndOfStream
	}
	switch classifyGap(run) {
	case gapNextSection:
		return stateScanningForHeader
	case gapTrailingNote:
		r.current.Notes = joinNotes(r.tokens[r.pos+run], r.current.Notes)
		r.pos += run + 1
		return stateScanningForHeader
	case gapContinuation:
		r.pos += run
		return stateEmittingScheduleBlock
	default:
		// The run may end inside the next header's blank leading slots, so the
		// scan restarts at the run and steps over blanks one at a time.
		r.diagnose(DiagUnexpectedGap, r.pos, r.currentKey(), fmt.Sprintf("blank run of %d", run))
		return stateScanningForHeader
	}
}

func (r *reconstructor) headerAt(pos int) (Section, error) {
	end := pos + headerFields
	if end > len(r.tokens) {
		return Section{}, errShortHeader
	}
	return parseHeader(r.tokens[pos:end], r.year, r.term)
}

func (r *reconstructor) wellFormedAt(pos int) bool {
	_, err := r.headerAt(pos)
	return err == nil
}

// closeSection finalizes the section under construction.
func (r *reconstructor) closeSection() {
	if r.current == nil {
		return
	}
	if !r.discard {
		r.result.Sections = append(r.result.Sections, *r.current)
	}
	r.current = nil
	r.discard = false
}

func (r *reconstructor) flushSkipped() {
	if r.skipped == 0 {
		return
	}
	r.diagnose(DiagMalformedHeader, r.skipStart, nil, fmt.Sprintf("skipped %d tokens", r.skipped))
	r.skipStart = -1
	r.skipped = 0
}

func (r *reconstructor) restBlank(pos int) bool {
	return pos+blankRun(r.tokens, pos) >= len(r.tokens)
}

func (r *reconstructor) currentKey() *Key {
	if r.current == nil {
		return nil
	}
	key := r.current.Key()
	return &key
}

func (r *reconstructor) diagnose(kind DiagnosticKind, pos int, key *Key, detail string) {
	d := Diagnostic{Kind: kind, Position: pos, Section: key, Detail: detail}
	if pos >= 0 && pos < len(r.tokens) {
		d.Token = r.tokens[pos]
	}
	r.result.Diagnostics = append(r.result.Diagnostics, d)
}
