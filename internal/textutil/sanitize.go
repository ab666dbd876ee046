package textutil

import (
	"strings"
	"unicode"

	"ascesc/internal/textnorm"
)

// FileStem makes an output base name safe to use as a file name. Path
// separators and characters that Windows shares reject become dashes or are
// dropped; the name keeps its case and accents.
func FileStem(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
		default:
			if unicode.IsControl(r) {
				continue
			}
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Token turns a period label such as "Février 2024" into a lowercase ASCII
// suffix ("fevrier_2024") for per-period file names. Runs of other characters
// collapse to one underscore. Empty results become "unknown".
func Token(label string) string {
	folded := strings.ToLower(textnorm.StripAccents(textnorm.Clean(label)))
	var b strings.Builder
	gap := false
	for _, r := range folded {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
		if !keep {
			gap = b.Len() > 0
			continue
		}
		if gap {
			b.WriteByte('_')
			gap = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
