// Command moviesync is the operator CLI: run the pipeline, inspect the
// store, request a stop, and manage configuration.
package main
