package form4

import (
	"strings"
	"unicode"
)

// NormalizeName canonicalizes a reporting person's raw name: runs of
// whitespace collapse to single spaces and each token is title-cased.
// Lossy on purpose: "DOE JANE" keeps the filing's token order, no
// attempt is made to detect last-first ordering.
func NormalizeName(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		r := []rune(strings.ToLower(f))
		r[0] = unicode.ToUpper(r[0])
		fields[i] = string(r)
	}
	return strings.Join(fields, " ")
}
