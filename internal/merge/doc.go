// Package merge combines per-period incident lists into one canonical set.
//
// Monthly extracts overlap: an incident still open at the end of one month is
// reported again by the next extract, usually with a later or newly known end
// date. Merge partitions the concatenated records by identity key and keeps
// one survivor per partition, preferring the most recent known end date.
//
// The merge never corrects data. Conditions a product owner has to rule on
// (negative durations, one equipment id reported under several codes on the
// same day) are returned as Anomalies alongside the canonical set.
package merge
