// Package store persists the movie catalog and its discovered releases in
// SQLite. Titles are keyed by the upstream metadata service id; releases are
// deduplicated per title by magnet link.
package store
