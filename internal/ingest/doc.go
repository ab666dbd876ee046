// Package ingest turns one period extract (an xlsx workbook or a csv dump)
// into canonical incident records.
//
// An Ingestor checks the extract header against a column profile, rejects
// the whole extract with a *SchemaError when a profiled column is missing,
// and otherwise coerces every row: dates from spreadsheet serials or text,
// times through the timefield normalizer, line codes through the configured
// aliases, and the equipment id from the equipment code. Field-level
// failures never abort an extract; they leave the field empty and are
// logged with the period, row, column and raw value.
package ingest
