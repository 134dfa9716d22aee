// Package main hosts the coursesys CLI.
//
// The Cobra command tree decodes course-search pages, registers them as
// fetched pages, drains them through the parse worker into SQLite, and reads
// the stored sections back as tables, JSON, iCalendar files, or over the
// read-only HTTP API. Configuration and logging are resolved once per
// invocation by commandContext.
package main
