// Package sections reconstructs course sections and their meeting schedules
// from the flat token stream of a course-search page.
//
// The source table has no schema. A section is a fixed 12-token header group
// followed by 7-token meeting groups, and the only delimiter between records
// is the length of the run of blank tokens that follows each meeting group:
//
//	run <= 5   padding before the next section header (the run is not consumed)
//	run == 9   the next token is a trailing note for the current section
//	run == 12  a continuation row: another meeting group for the same section
//
// Any other run length ends the current section and resumes header scanning
// after the run. The thresholds are exact.
//
// Reconstruct is single-pass and keeps no state between calls. It never
// fails: local corruption (unknown meeting types, unexpected runs, malformed
// header groups, duplicate keys) truncates the affected section and is
// reported as a Diagnostic alongside the partial result.
package sections
