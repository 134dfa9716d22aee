// Package tokens flattens the course-search result table into an ordered
// sequence of cleaned cell strings.
//
// Order is the only structure retained: the reconstructor in package sections
// infers every field's role from its position and from runs of blank cells.
// The extractor therefore keeps blank cells and removes only cells that carry
// no record content:
//   - separator cells (style class "deseparator")
//   - wide filler cells spanning the row (colspan 22)
//   - repeated "SUBJ NNNN" course header lines and course banners ending in
//     the banner marker
//   - the column header row, removed retroactively when its final
//     "Instructor(s)" cell is seen (the 18 cells before it are dropped)
//
// A page without a matching table yields ErrNoData, which callers treat as an
// empty page rather than a malformed one.
package tokens
