// Package export renders incident records to the canonical CSV and XLSX
// files. Dates are written DD/MM/YYYY, absent values as empty cells, and
// the equipment type is derived from the code at write time.
package export
