// Package pipeline orchestrates a reconciliation run: metadata sync from
// the daily export, release discovery on the tracker, and the always-on
// finalization steps (archive, progress reset, stop marker cleanup).
package pipeline
