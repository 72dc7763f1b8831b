// Package textutil holds the text normalization primitives the ingestion
// pipeline leans on: size unit conversion, digit-only extraction, and the
// searchable form used for title matching.
package textutil
