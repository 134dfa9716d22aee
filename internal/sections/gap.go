package sections

import "coursesys/internal/textutil"

// Blank-run lengths with structural meaning.
const (
	maxPaddingRun = 5
	noteRun       = 9
	continuedRun  = 12
)

type gapAction int

const (
	gapNextSection gapAction = iota
	gapTrailingNote
	gapContinuation
	gapUnrecognized
)

func (a gapAction) String() string {
	switch a {
	case gapNextSection:
		return "next_section"
	case gapTrailingNote:
		return "trailing_note"
	case gapContinuation:
		return "continuation"
	default:
		return "unrecognized"
	}
}

// classifyGap maps a blank-run length to the action that follows it.
func classifyGap(run int) gapAction {
	switch {
	case run <= maxPaddingRun:
		return gapNextSection
	case run == noteRun:
		return gapTrailingNote
	case run == continuedRun:
		return gapContinuation
	default:
		return gapUnrecognized
	}
}

// blankRun counts consecutive blank tokens starting at pos.
func blankRun(tokens []string, pos int) int {
	n := 0
	for pos+n < len(tokens) && textutil.IsBlank(tokens[pos+n]) {
		n++
	}
	return n
}
