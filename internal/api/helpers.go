package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/aggregate"
	"github.com/sells-group/freight-kpi/internal/coerce"
	"github.com/sells-group/freight-kpi/internal/kpi"
	"github.com/sells-group/freight-kpi/internal/timing"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// viewOptions reads q, late, unfulfilled and sort.
func viewOptions(r *http.Request) kpi.ViewOptions {
	q := r.URL.Query()
	return kpi.ViewOptions{
		Filter: kpi.Filter{
			Query:           q.Get("q"),
			LateOnly:        coerce.Truthy(q.Get("late")),
			UnfulfilledOnly: coerce.Truthy(q.Get("unfulfilled")),
		},
		Sort: kpi.ParseSortKey(q.Get("sort")),
	}
}

// window reads the from and to bounds. Both accept the engine's timestamp
// forms; naive values use loc.
func window(r *http.Request, loc *time.Location) (aggregate.Window, error) {
	var w aggregate.Window
	for _, b := range []struct {
		name string
		dst  *time.Time
	}{{"from", &w.From}, {"to", &w.To}} {
		raw := strings.TrimSpace(r.URL.Query().Get(b.name))
		if raw == "" {
			continue
		}
		t, ok := timing.ParseString(raw, loc)
		if !ok {
			return aggregate.Window{}, eris.Errorf("api: invalid %s %q", b.name, raw)
		}
		*b.dst = t
	}
	return w, nil
}

func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
