package sections

import "fmt"

// DiagnosticKind classifies a local irregularity found while decoding.
type DiagnosticKind string

const (
	// DiagUnknownMeetingType: a meeting group began with a label outside the vocabulary.
	DiagUnknownMeetingType DiagnosticKind = "unknown_meeting_type"
	// DiagUnexpectedGap: a blank run after a meeting group had an unrecognized length.
	DiagUnexpectedGap DiagnosticKind = "unexpected_gap"
	// DiagMalformedHeader: tokens were skipped because no well-formed header group started there.
	DiagMalformedHeader DiagnosticKind = "malformed_header"
	// DiagTruncatedSchedule: the stream ended inside a meeting group.
	DiagTruncatedSchedule DiagnosticKind = "truncated_schedule"
	// DiagDuplicateSection: a header repeated the key of an earlier section and was dropped.
	DiagDuplicateSection DiagnosticKind = "duplicate_section"
	// DiagShiftCorrected: a header group was one token short and the cursor was rewound.
	DiagShiftCorrected DiagnosticKind = "shift_corrected"
	// DiagShiftRejected: a numeric trailing slot did not lead to a well-formed record and was kept.
	DiagShiftRejected DiagnosticKind = "shift_rejected"
)

// Diagnostic describes one skip or truncate event.
type Diagnostic struct {
	Kind     DiagnosticKind
	Position int
	Section  *Key
	Token    string
	Detail   string
}

func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s at token %d", d.Kind, d.Position)
	if d.Section != nil {
		msg += " (" + d.Section.String() + ")"
	}
	if d.Token != "" {
		msg += fmt.Sprintf(" token=%q", d.Token)
	}
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	return msg
}

// Recovered reports whether the irregularity was corrected without losing data.
func (d Diagnostic) Recovered() bool {
	return d.Kind == DiagShiftCorrected
}
