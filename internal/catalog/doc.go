// Package catalog fetches the metadata service's daily id export and
// computes the set of titles that still need a local row.
package catalog
