// Package store persists sources, fetched pages, and decoded sections in
// SQLite.
//
// The Store manages database connections, schema initialization, busy
// retries, and the page lifecycle (pending, parsed, empty, failed). Decoded
// sections and their schedule entries are upserted by natural key inside one
// transaction per page together with the page status, so a page is either
// fully visible or not at all. Re-saving a page converges to its content:
// rows are replaced and schedule indices the page no longer has are removed.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package store
