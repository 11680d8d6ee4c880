// Package normalize canonicalizes free text and document numbers so that
// manual entries from different sources compare equal.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// invisible maps characters that render as blank. Non-breaking spaces become
// ordinary spaces; zero-width characters are dropped.
var invisible = strings.NewReplacer(
	"\u00a0", " ",
	"\u202f", " ",
	"\u2007", " ",
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
)

// Text trims, collapses whitespace runs to one space and upper-cases s with
// Turkish rules (i → İ, ı → I). Text is idempotent.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = invisible.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	// Casers carry state, so one is built per call.
	return cases.Upper(language.Turkish).String(s)
}
