// Package incident defines the canonical maintenance incident record shared by
// ingestion, duration annotation, merging and the output sinks.
//
// An Incident is one reported unavailability event for one piece of
// equipment. Its identity for deduplication is the pair (StartDate,
// EquipmentCode); see Key. The equipment type is never stored: it is derived
// from the code on every call so the two cannot disagree.
package incident
