package sections

import (
	"regexp"
	"strings"
)

// A class-wide note is keyed by a fixed-width "SUBJ NNNN" prefix. Requisite
// indicators are at most two characters, so a longer token in the first
// header slot is tested against this shape.
var classNotePattern = regexp.MustCompile(`^([A-Z]{4} [0-9]{4}) (\S.*)$`)

type pendingNote struct {
	course string
	text   string
}

func detectClassNote(token string) (pendingNote, bool) {
	if len(token) <= 2 {
		return pendingNote{}, false
	}
	match := classNotePattern.FindStringSubmatch(token)
	if match == nil {
		return pendingNote{}, false
	}
	return pendingNote{course: match[1], text: strings.TrimSpace(match[2])}, true
}

// joinNotes orders a trailing note before any class-wide note already attached.
func joinNotes(trailing, existing string) string {
	trailing = strings.TrimSpace(trailing)
	switch {
	case trailing == "":
		return existing
	case existing == "":
		return trailing
	default:
		return trailing + "\n" + existing
	}
}
