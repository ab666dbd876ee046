// Package store persists consolidation results in SQLite.
//
// The database keeps the latest canonical incident set (replaced as a whole
// by each successful run), the history of runs with their per-extract
// outcomes, and the anomalies flagged by each run. Schema changes ship as
// embedded, ordered migrations recorded in schema_migrations.
package store
