// Package driver provides the database/sql driver behind cocafreq sessions.
// It loads derived corpus files (CSV or TSV, optionally compressed) into an
// in-memory SQLite database, one table per file.
package driver
