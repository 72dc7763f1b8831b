// Package runstate owns the on-disk run coordination files: the progress
// document, the stop marker, and the single-instance lock.
package runstate
