package normalize

import (
	"regexp"
	"strings"
)

// DefaultDispatchPrefix is the reserved prefix of fulfillment documents.
const DefaultDispatchPrefix = "SFR"

// minBareDigits is the shortest purely numeric entry treated as a dispatch
// number typed without its prefix.
const minBareDigits = 8

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Dispatcher normalizes dispatch numbers for a configured prefix.
type Dispatcher struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewDispatcher returns a Dispatcher for prefix. An empty prefix falls back
// to DefaultDispatchPrefix.
func NewDispatcher(prefix string) *Dispatcher {
	prefix = Text(prefix)
	if prefix == "" {
		prefix = DefaultDispatchPrefix
	}
	return &Dispatcher{
		prefix:  prefix,
		pattern: regexp.MustCompile(regexp.QuoteMeta(prefix) + `([0-9]+)`),
	}
}

// Prefix returns the normalized reserved prefix.
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Normalize canonicalizes a dispatch number:
//   - prefix followed by digits anywhere in the text (whitespace ignored) → prefix+digits
//   - purely numeric with at least eight digits → prefix+digits
//   - otherwise the first whitespace-delimited token
func (d *Dispatcher) Normalize(s string) string {
	t := Text(s)
	if t == "" {
		return ""
	}
	compact := strings.Join(strings.Fields(t), "")
	if m := d.pattern.FindStringSubmatch(compact); m != nil {
		return d.prefix + m[1]
	}
	if len(compact) >= minBareDigits && digitsOnly.MatchString(compact) {
		return d.prefix + compact
	}
	return strings.Fields(t)[0]
}

// IsFulfillment reports whether a normalized id carries the reserved prefix.
func (d *Dispatcher) IsFulfillment(id string) bool {
	return id != "" && strings.HasPrefix(id, d.prefix)
}

var defaultDispatcher = NewDispatcher(DefaultDispatchPrefix)

// DispatchID normalizes s with the default prefix.
func DispatchID(s string) string {
	return defaultDispatcher.Normalize(s)
}

// RequestID normalizes a demand-side document number.
func RequestID(s string) string {
	return Text(s)
}

// HasAnyPrefix reports whether s starts with any of the given prefixes.
// Prefixes are compared after normalization; empty prefixes are ignored.
func HasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		p = Text(p)
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
