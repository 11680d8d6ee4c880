// Package timing parses source timestamps and classifies dispatch timeliness.
package timing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
)

// DefaultZone is used when Europe/Istanbul cannot be loaded from the system
// tz database. Turkey has observed UTC+3 year round since 2016.
var DefaultZone = time.FixedZone("+03", 3*60*60)

// LoadLocation resolves name, falling back to DefaultZone.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Debug("timing: unknown zone, using +03", zap.String("zone", name), zap.Error(err))
		return DefaultZone
	}
	return loc
}

var (
	// 10.01.2024, 10.01.2024 08:00, 10.01.2024 08:00:30
	dottedPattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})(?:[ T]+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	// 2024-01-10, 2024-01-10 08:00, 2024-01-10T08:00:00.123456Z, 2024-01-10T08:00:00+03:00
	isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[T ](\d{2}):(\d{2})(?::(\d{2})(?:[.,](\d+))?)?)?\s*(Z|z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// Parse reads a timestamp from a native time value or one of the accepted
// textual forms. Strings without a zone are read in loc. Unparseable input
// reports ok=false and is never an error.
func Parse(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = DefaultZone
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return ParseString(t, loc)
	}
	return time.Time{}, false
}

// ParseString parses the textual forms accepted by Parse.
func ParseString(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, model.NoDataLabel) || s == "-" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = DefaultZone
	}
	if m := dottedPattern.FindStringSubmatch(s); m != nil {
		return build(atoi(m[3]), atoi(m[2]), atoi(m[1]), atoi(m[4]), atoi(m[5]), atoi(m[6]), 0, loc)
	}
	if m := isoPattern.FindStringSubmatch(s); m != nil {
		zone := loc
		if m[8] != "" {
			z, ok := parseZone(m[8])
			if !ok {
				return time.Time{}, false
			}
			zone = z
		}
		return build(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), atoi(m[6]), millis(m[7]), zone)
	}
	return time.Time{}, false
}

// build assembles a time and rejects out-of-range fields that time.Date would
// silently normalize (31.02 → 02.03).
func build(year, month, day, hour, minute, second, ms int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, ms*int(time.Millisecond), loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// millis truncates or pads a fractional-second string to exactly three
// digits.
func millis(frac string) int {
	if frac == "" {
		return 0
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return atoi(frac)
}

func parseZone(z string) (*time.Location, bool) {
	if z == "Z" || z == "z" {
		return time.UTC, true
	}
	sign := 1
	if z[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(z[1:], ":", "")
	hours := atoi(digits[:2])
	minutes := 0
	if len(digits) == 4 {
		minutes = atoi(digits[2:])
	}
	if hours > 14 || minutes > 59 {
		return nil, false
	}
	return time.FixedZone(z, sign*(hours*3600+minutes*60)), true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
