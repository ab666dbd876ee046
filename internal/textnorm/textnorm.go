// Package textnorm cleans free-text cells and matches spreadsheet headers.
package textnorm

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Clean trims surrounding whitespace, converts the text to NFC and collapses
// internal runs of whitespace (including non-breaking spaces) to one space.
func Clean(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// HeaderKey returns the comparison key for a column header: cleaned and
// case-folded, so "N° EQUIP." and "n° equip. " compare equal.
func HeaderKey(s string) string {
	return folder.String(Clean(s))
}

// StripAccents removes combining marks after NFD decomposition. It is used
// for lenient matching of station names only, never for stored values.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// LineNormalizer collapses known variants of transit line codes.
type LineNormalizer struct {
	aliases []alias
}

type alias struct {
	from string
	to   string
}

// NewLineNormalizer builds a normalizer from variant -> canonical pairs.
// Longer variants are applied first so overlapping aliases behave
// predictably.
func NewLineNormalizer(aliases map[string]string) LineNormalizer {
	list := make([]alias, 0, len(aliases))
	for from, to := range aliases {
		if from == "" {
			continue
		}
		list = append(list, alias{from: from, to: to})
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i].from) != len(list[j].from) {
			return len(list[i].from) > len(list[j].from)
		}
		return list[i].from < list[j].from
	})
	return LineNormalizer{aliases: list}
}

// Normalize applies the aliases to the raw cell text, then cleans it.
func (n LineNormalizer) Normalize(raw string) string {
	for _, a := range n.aliases {
		raw = strings.ReplaceAll(raw, a.from, a.to)
	}
	return Clean(raw)
}
