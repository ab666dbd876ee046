// Package services defines shared utilities consumed by the ingestion,
// merge, and export stages.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, period labels, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (rejected extract vs fatal run error).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
