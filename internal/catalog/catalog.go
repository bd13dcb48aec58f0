// Package catalog holds the ranked reference set of popular package names
// that dependency names are compared against.
//
// A Catalog is built once from a Source and is read-only afterwards, so it
// can be shared by any number of concurrent readers.
package catalog

import (
	"github.com/tsukumogami/squatcheck/internal/log"
)

// Catalog is an ordered, de-duplicated list of normalized package names,
// most popular first.
type Catalog struct {
	entries []PackageName
	index   map[PackageName]int
	rules   Rules
}

// Empty returns a catalog with no entries. Evaluating against it never
// reports a risk.
func Empty(rules Rules) *Catalog {
	return &Catalog{index: map[PackageName]int{}, rules: rules}
}

// Load builds a catalog from the ranked names supplied by src.
//
// Names are normalized in rank order. Names that fail normalization are
// skipped, the first occurrence of a duplicate keeps its rank, and loading
// stops once topN distinct names have been collected.
func Load(src Source, topN int, rules Rules) (*Catalog, error) {
	if topN <= 0 {
		return nil, &InvalidCatalogError{Reason: "top-packages must be positive"}
	}
	if src == nil {
		return nil, &InvalidCatalogError{Reason: "no catalog source"}
	}

	names, err := src.Names()
	if err != nil {
		return nil, &InvalidCatalogError{Reason: "reading catalog source", Err: err}
	}
	if len(names) == 0 {
		return nil, &InvalidCatalogError{Reason: "catalog source is empty"}
	}

	logger := log.Default()
	c := &Catalog{
		entries: make([]PackageName, 0, min(topN, len(names))),
		index:   make(map[PackageName]int, min(topN, len(names))),
		rules:   rules,
	}

	for _, raw := range names {
		if len(c.entries) == topN {
			break
		}
		name, err := Normalize(raw, rules)
		if err != nil {
			logger.Debug("skipping catalog entry", "name", raw, "error", err)
			continue
		}
		if _, dup := c.index[name]; dup {
			logger.Debug("skipping duplicate catalog entry", "name", raw, "normalized", name)
			continue
		}
		c.index[name] = len(c.entries)
		c.entries = append(c.entries, name)
	}

	if len(c.entries) == 0 {
		return nil, &InvalidCatalogError{Reason: "catalog source contains no valid names"}
	}

	logger.Debug("catalog loaded", "entries", len(c.entries), "top_n", topN, "source_size", len(names))
	return c, nil
}

// Contains reports whether name, after normalization, is a catalog entry.
func (c *Catalog) Contains(name string) bool {
	if c == nil {
		return false
	}
	n, err := Normalize(name, c.rules)
	if err != nil {
		return false
	}
	_, ok := c.index[n]
	return ok
}

// Rank returns the 0-based popularity rank of a normalized name.
func (c *Catalog) Rank(name PackageName) (int, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.index[name]
	return r, ok
}

// Entries returns a copy of the catalog entries in rank order.
func (c *Catalog) Entries() []PackageName {
	if c == nil {
		return nil
	}
	out := make([]PackageName, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Rules returns the normalization rules the catalog was built with.
func (c *Catalog) Rules() Rules {
	if c == nil {
		return DefaultRules()
	}
	return c.rules
}

// Each calls fn for every entry in rank order without copying. It stops
// early if fn returns false.
func (c *Catalog) Each(fn func(rank int, name PackageName) bool) {
	if c == nil {
		return
	}
	for i, n := range c.entries {
		if !fn(i, n) {
			return
		}
	}
}
