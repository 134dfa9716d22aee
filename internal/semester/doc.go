// Package semester decodes one course-search page into sections.
//
// A Decoder parses the markup once, flattens the course table into tokens,
// resolves the term from the page heading, and runs the section
// reconstructor over the tokens. Pages without a course table decode to an
// empty Page. Pages whose term cannot be resolved fail with an *Error so the
// caller can skip persistence for that page and carry on with the batch.
//
// Decoders hold no per-page state and are safe for concurrent use.
package semester
