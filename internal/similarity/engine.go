// Package similarity scores dependency names against a reference catalog
// and flags the ones that look like typos of a popular package.
//
// The metric is the normalized Levenshtein ratio
//
//	score(a, b) = 1 - distance(a, b) / max(len(a), len(b))
//
// which is 1 for identical names and symmetric in its arguments. An Engine
// holds only immutable state, so Evaluate may be called from any number of
// goroutines.
package similarity

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/log"
)

// scoreEpsilon absorbs float rounding when a score lands exactly on the
// threshold, e.g. 1 - 1/5 against 0.8.
const scoreEpsilon = 1e-9

// Engine evaluates dependency names against a catalog.
type Engine struct {
	catalog  *catalog.Catalog
	cfg      Config
	logger   log.Logger
	progress func(done, total int)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-evaluation debug records.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgress registers fn to be called by EvaluateAll after each name is
// evaluated. fn may be called from several goroutines at once.
func WithProgress(fn func(done, total int)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an Engine. A nil or empty catalog is valid; every
// evaluation against it reports no risk.
func New(cat *catalog.Catalog, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		cfg:     cfg,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Catalog returns the reference catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// rules returns the catalog's normalization rules so that dependency names
// and entries are always normalized the same way.
func (e *Engine) rules() catalog.Rules {
	if e.catalog != nil {
		return e.catalog.Rules()
	}
	return e.cfg.Rules()
}

// Evaluate classifies one dependency name.
//
// A name equal to a catalog entry after normalization is never a risk. Any
// other name is a risk when at least one catalog entry scores at or above
// the threshold.
func (e *Engine) Evaluate(dependency string) (Finding, error) {
	name, err := catalog.Normalize(dependency, e.rules())
	if err != nil {
		return Finding{}, &InvalidInputError{Input: dependency, Err: err}
	}

	finding := Finding{
		DependencyName: dependency,
		Normalized:     name,
		Matches:        []Match{},
	}

	if e.catalog.Contains(dependency) {
		e.logger.Debug("dependency is a catalog entry", "dependency", dependency)
		return finding, nil
	}

	threshold := e.cfg.Threshold()
	e.catalog.Each(func(rank int, entry catalog.PackageName) bool {
		if entry == name {
			return true
		}
		score, dist := scoreWithDistance(name, entry)
		if score+scoreEpsilon >= threshold {
			finding.Matches = append(finding.Matches, Match{
				ReferenceName: entry,
				Score:         score,
				Distance:      dist,
				Rank:          rank,
			})
		}
		return true
	})

	sort.SliceStable(finding.Matches, func(i, j int) bool {
		a, b := finding.Matches[i], finding.Matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Rank < b.Rank
	})

	best, ok := finding.Best()
	finding.Risk = ok
	if ok {
		e.logger.Debug("dependency resembles popular package",
			"dependency", dependency, "similar_to", best.ReferenceName,
			"score", best.Score, "matches", len(finding.Matches))
	} else {
		e.logger.Debug("no similar popular package", "dependency", dependency)
	}

	return finding, nil
}

// EvaluateAll evaluates a batch of names with up to workers concurrent
// evaluations (runtime.NumCPU() when workers <= 0). Results are returned in
// input order. An invalid name yields a Result carrying its
// InvalidInputError and does not stop the batch. Once ctx is done, names
// not yet started carry ctx.Err().
func (e *Engine) EvaluateAll(ctx context.Context, dependencies []string, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(dependencies))
	for i, dep := range dependencies {
		results[i] = Result{Index: i, Input: dep}
	}

	var completed atomic.Int64
	done := func() {
		if e.progress != nil {
			e.progress(int(completed.Add(1)), len(dependencies))
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i := range dependencies {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			defer done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			finding, err := e.Evaluate(dependencies[i])
			if err != nil {
				e.logger.Warn("skipping dependency", "input", dependencies[i], "error", err)
				results[i].Err = err
				return nil
			}
			results[i].Finding = &finding
			return nil
		})
	}

	// Workers never return errors; failures are recorded per result.
	_ = g.Wait()
	return results
}
