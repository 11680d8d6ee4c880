package project

import (
	"slices"

	"go.uber.org/zap"

	"github.com/sells-group/freight-kpi/internal/model"
	"github.com/sells-group/freight-kpi/internal/normalize"
)

// Resolver maps raw records to canonical project identities using a
// catalog's excluded names and splitting rules.
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a Resolver over c.
func NewResolver(c *Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Catalog returns the catalog backing r.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// Resolve returns the canonical identity of rec, or ok=false when the record
// is out of scope. The result depends only on the project name, pickup city
// and pickup county.
func (r *Resolver) Resolve(rec model.RawRecord) (identity string, ok bool) {
	return r.ResolveName(rec.ProjectName, rec.PickupCity, rec.PickupCounty)
}

// ResolveName is Resolve over the three inputs that determine identity.
func (r *Resolver) ResolveName(projectName, pickupCity, pickupCounty string) (string, bool) {
	name := normalize.Text(projectName)
	if name == "" {
		return "", false
	}
	if r.catalog.excluded[name] {
		zap.L().Debug("project: excluded name", zap.String("project", name))
		return "", false
	}
	rule, found := r.catalog.rules[name]
	if !found {
		return name, true
	}

	city := normalize.Text(pickupCity)
	county := normalize.Text(pickupCounty)
	for _, b := range rule.Branches {
		if b.City != "" && b.City != city {
			continue
		}
		if len(b.Counties) > 0 && !slices.Contains(b.Counties, county) {
			continue
		}
		return b.Result, true
	}

	if rule.FallbackExcludes {
		// Excluded outright; the unsplit name is never used as a fallback.
		zap.L().Debug("project: no branch matched",
			zap.String("project", name),
			zap.String("city", city),
			zap.String("county", county),
		)
		return "", false
	}
	return name, true
}

// RegionOf returns the region of a resolved identity.
func (r *Resolver) RegionOf(identity string) (string, bool) {
	return r.catalog.RegionOf(identity)
}
