package timestamps

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// dispatchAliases name the dispatch number column. Longer, more specific
// aliases come first so substring matching prefers them.
var dispatchAliases = []string{
	"SEFER NUMARASI",
	"SEFER NO",
	"SEFER ID",
	"DISPATCH ID",
	"DISPATCH NO",
	"SEFER",
}

var fieldAliases = map[model.TimestampField][]string{
	model.PickupArrival:   {"YÜKLEME VARIŞ", "YÜKLEMEYE VARIŞ", "PICKUP ARRIVAL"},
	model.PickupEntry:     {"YÜKLEME GİRİŞ", "PICKUP ENTRY"},
	model.PickupExit:      {"YÜKLEME ÇIKIŞ", "PICKUP EXIT"},
	model.DeliveryArrival: {"TESLİMAT VARIŞ", "BOŞALTMA VARIŞ", "DELIVERY ARRIVAL"},
	model.DeliveryEntry:   {"TESLİMAT GİRİŞ", "BOŞALTMA GİRİŞ", "DELIVERY ENTRY"},
	model.DeliveryExit:    {"TESLİMAT ÇIKIŞ", "BOŞALTMA ÇIKIŞ", "DELIVERY EXIT"},
}

// Columns maps a header row to column indexes. Fields holds only resolved
// milestone columns.
type Columns struct {
	Dispatch int
	Fields   map[model.TimestampField]int
}

// ResolveHeader locates the dispatch column and any milestone columns.
// Exact matches on the normalized header win over substring matches and a
// column is claimed at most once. Only a missing dispatch column is an error.
func ResolveHeader(header []string) (Columns, error) {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = headerKey(h)
	}
	claimed := make(map[int]bool)

	cols := Columns{Dispatch: -1, Fields: make(map[model.TimestampField]int)}
	cols.Dispatch = match(names, dispatchAliases, claimed)
	if cols.Dispatch < 0 {
		return Columns{}, eris.New("timestamps: no dispatch number column in header")
	}
	for _, f := range model.TimestampFields {
		if idx := match(names, fieldAliases[f], claimed); idx >= 0 {
			cols.Fields[f] = idx
		}
	}
	return cols, nil
}

// match finds the first unclaimed column equal to an alias, then the first
// containing one, and claims it.
func match(names, aliases []string, claimed map[int]bool) int {
	normalized := make([]string, len(aliases))
	for i, a := range aliases {
		normalized[i] = headerKey(a)
	}
	for _, exact := range []bool{true, false} {
		for _, alias := range normalized {
			for i, name := range names {
				if claimed[i] || name == "" {
					continue
				}
				if (exact && name == alias) || (!exact && strings.Contains(name, alias)) {
					claimed[i] = true
					return i
				}
			}
		}
	}
	return -1
}

// headerKey folds dotted and dotless capital I so English headers typed in
// either case match.
func headerKey(s string) string {
	return strings.ReplaceAll(normalize.Text(s), "İ", "I")
}
