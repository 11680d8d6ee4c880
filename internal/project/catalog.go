// Package project resolves raw project names to canonical identities and
// maps identities to reporting regions.
package project

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/freight-kpi/internal/normalize"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Region is one reporting region with its projects in display order.
type Region struct {
	Name     string   `yaml:"name" json:"name"`
	Projects []string `yaml:"projects" json:"projects"`
}

// Branch rewrites a raw name when the pickup city and county match. Empty
// City matches any city; empty Counties matches any county.
type Branch struct {
	City     string   `yaml:"city" json:"city,omitempty"`
	Counties []string `yaml:"counties" json:"counties,omitempty"`
	Result   string   `yaml:"result" json:"result"`
}

// Rule splits one raw project name into finer identities.
type Rule struct {
	Match            string   `yaml:"match" json:"match"`
	Branches         []Branch `yaml:"branches" json:"branches"`
	FallbackExcludes bool     `yaml:"fallback_excludes" json:"fallback_excludes"`
}

// Catalog is the versionable region and splitting-rule table.
type Catalog struct {
	Version  string   `yaml:"version" json:"version"`
	Regions  []Region `yaml:"regions" json:"regions"`
	Excluded []string `yaml:"excluded" json:"excluded"`
	Rules    []Rule   `yaml:"rules" json:"rules"`

	regionOf map[string]string
	order    map[string]int
	excluded map[string]bool
	rules    map[string]*Rule
}

// CatalogError reports projects listed in more than one region.
type CatalogError struct {
	Duplicates map[string][]string
}

func (e *CatalogError) Error() string {
	names := make([]string, 0, len(e.Duplicates))
	for p := range e.Duplicates {
		names = append(names, p)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, p := range names {
		parts = append(parts, fmt.Sprintf("%s (%s)", p, strings.Join(e.Duplicates[p], ", ")))
	}
	return "project: catalog lists projects in multiple regions: " + strings.Join(parts, "; ")
}

// ParseCatalog decodes YAML and builds the lookup indexes. Names are
// normalized so that the file may use any casing.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "project: parse catalog")
	}
	c.index()
	return &c, nil
}

// LoadCatalog reads a catalog file. An empty path returns the embedded
// default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "project: read catalog %s", path)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

func (c *Catalog) index() {
	c.regionOf = make(map[string]string)
	c.order = make(map[string]int)
	c.excluded = make(map[string]bool, len(c.Excluded))
	c.rules = make(map[string]*Rule, len(c.Rules))

	pos := 0
	for i := range c.Regions {
		r := &c.Regions[i]
		r.Name = normalize.Text(r.Name)
		for j, p := range r.Projects {
			p = normalize.Text(p)
			r.Projects[j] = p
			// First listing wins; Validate reports the rest.
			if _, seen := c.regionOf[p]; !seen {
				c.regionOf[p] = r.Name
				c.order[p] = pos
				pos++
			}
		}
	}
	for i, name := range c.Excluded {
		name = normalize.Text(name)
		c.Excluded[i] = name
		c.excluded[name] = true
	}
	for i := range c.Rules {
		rule := &c.Rules[i]
		rule.Match = normalize.Text(rule.Match)
		for j := range rule.Branches {
			b := &rule.Branches[j]
			b.City = normalize.Text(b.City)
			b.Result = normalize.Text(b.Result)
			for k, county := range b.Counties {
				b.Counties[k] = normalize.Text(county)
			}
		}
		if _, seen := c.rules[rule.Match]; !seen {
			c.rules[rule.Match] = rule
		}
	}
}

// Validate checks that no project is listed in two regions.
func (c *Catalog) Validate() error {
	seen := make(map[string][]string)
	for _, r := range c.Regions {
		for _, p := range r.Projects {
			seen[p] = append(seen[p], r.Name)
		}
	}
	dups := make(map[string][]string)
	for p, regions := range seen {
		if len(regions) > 1 {
			dups[p] = regions
		}
	}
	if len(dups) > 0 {
		return &CatalogError{Duplicates: dups}
	}
	return nil
}

// Unplaced lists split-rule results that no region lists. Such identities
// aggregate normally but never reach a region view.
func (c *Catalog) Unplaced() []string {
	var out []string
	seen := make(map[string]bool)
	for _, rule := range c.Rules {
		for _, b := range rule.Branches {
			if _, ok := c.regionOf[b.Result]; !ok && !seen[b.Result] {
				seen[b.Result] = true
				out = append(out, b.Result)
			}
		}
	}
	return out
}

// RegionOf returns the region listing identity.
func (c *Catalog) RegionOf(identity string) (string, bool) {
	r, ok := c.regionOf[identity]
	return r, ok
}

// Order returns the global display position of identity, or -1.
func (c *Catalog) Order(identity string) int {
	if pos, ok := c.order[identity]; ok {
		return pos
	}
	return -1
}

// RegionNames returns region names in catalog order.
func (c *Catalog) RegionNames() []string {
	names := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		names[i] = r.Name
	}
	return names
}

// Region returns the named region.
func (c *Catalog) Region(name string) (Region, bool) {
	name = normalize.Text(name)
	for _, r := range c.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}
