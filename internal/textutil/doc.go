// Package textutil normalizes scraped table-cell text: Unicode compatibility
// folding, whitespace collapsing, and blank detection.
//
// Cell normalization folds compatibility characters such as non-breaking
// spaces into their plain equivalents before whitespace is collapsed, so a
// cell rendered as "&nbsp;" is indistinguishable from an empty one.
package textutil
