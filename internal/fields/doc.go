// Package fields converts individual table-cell tokens into typed scalars.
//
// Classification follows a fixed priority: blank tokens are null, then the
// strict decimal pattern, then the strict integer pattern, and anything else
// is trimmed text. Currency tokens have "$" and thousands separators removed
// before numeric parsing.
//
// Dates arrive as day-abbreviatedMonth-twoDigitYear ("11-Apr-23"). The century
// is taken from the page being decoded rather than from the two-digit value:
// pages for 1999 and earlier resolve to the 1900s, later pages to the 2000s.
// Tokens that do not parse are passed through as opaque text.
package fields
