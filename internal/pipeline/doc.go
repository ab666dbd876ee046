// Package pipeline runs one consolidation: it ingests every configured
// extract, annotates durations, merges the periods into the canonical set and
// hands the result to the export and store sinks.
//
// A Runner holds a file lock on the output directory for the duration of a
// run and tees its logger into a per-run JSON log under the log directory.
package pipeline
