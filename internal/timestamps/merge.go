// Package timestamps merges externally supplied dispatch milestones without
// ever erasing a previously filled value.
package timestamps

import (
	"strings"
	"time"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// noData is the normalized form of model.NoDataLabel.
var noData = normalize.Text(model.NoDataLabel)

// dash is the short no-data marker some exports use.
const dash = "-"

// Filled reports whether v carries a value. Nil, blank and no-data markers
// are unfilled.
func Filled(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return filledString(x)
	case *string:
		return x != nil && filledString(*x)
	case time.Time:
		return !x.IsZero()
	case *time.Time:
		return x != nil && !x.IsZero()
	default:
		return true
	}
}

func filledString(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != dash && normalize.Text(s) != noData
}

// MergeKeepFilled returns a copy of prev overlaid with every filled value of
// next. Unfilled values in next never overwrite or delete anything.
func MergeKeepFilled[K comparable, V any](prev, next map[K]V) map[K]V {
	out := make(map[K]V, len(prev)+len(next))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range next {
		if Filled(v) {
			out[k] = v
		}
	}
	return out
}

// MergeRecord applies MergeKeepFilled to timestamp records.
func MergeRecord(prev, next model.TimestampRecord) model.TimestampRecord {
	return MergeKeepFilled(prev, next)
}
