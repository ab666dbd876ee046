// Package textutil provides filename sanitization for output artifacts.
//
// Period labels and base names come from configuration and may contain
// slashes or spaces; these helpers turn them into safe path segments.
package textutil
