// Package preflight provides readiness checks for the filesystem paths,
// database and extracts a consolidation run depends on.
//
// The CLI "ascesc check" command runs RunAll and renders the results; a
// failing check does not stop the remaining checks.
package preflight
