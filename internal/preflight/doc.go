// Package preflight validates the environment before a run: directory
// permissions, credentials, and service reachability.
package preflight
