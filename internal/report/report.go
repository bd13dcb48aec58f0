// Package report renders scan results as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tsukumogami/squatcheck/internal/manifest"
	"github.com/tsukumogami/squatcheck/internal/similarity"
)

// Format selects the output renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json)", s)
	}
}

// Entry is a finding together with where it was declared.
type Entry struct {
	Manifest string `json:"manifest,omitempty"`
	Declaration
	similarity.Finding
}

// Declaration describes how a dependency was written in its manifest.
type Declaration struct {
	// Specifier is the version constraint as written.
	Specifier string `json:"specifier,omitempty"`

	// Version is the canonical form of an exact pin, e.g. "2.31.0" for "==2.31".
	Version string `json:"version,omitempty"`

	Group string `json:"group,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// Skipped records an input that could not be evaluated.
type Skipped struct {
	Manifest string `json:"manifest,omitempty"`
	Input    string `json:"input"`
	Reason   string `json:"reason"`
	Line     int    `json:"line,omitempty"`
}

// Summary counts the outcome of a scan.
type Summary struct {
	Scanned int `json:"scanned"`
	AtRisk  int `json:"at_risk"`
	Skipped int `json:"skipped"`
}

// Report is the complete, ordered outcome of a scan.
type Report struct {
	Threshold   float64   `json:"threshold"`
	CatalogSize int       `json:"catalog_size"`
	Ecosystem   string    `json:"ecosystem,omitempty"`
	Findings    []Entry   `json:"findings"`
	Skipped     []Skipped `json:"skipped"`
	Summary     Summary   `json:"summary"`
}

// New creates an empty report.
func New(threshold float64, catalogSize int, ecosystem string) *Report {
	return &Report{
		Threshold:   threshold,
		CatalogSize: catalogSize,
		Ecosystem:   ecosystem,
		Findings:    []Entry{},
		Skipped:     []Skipped{},
	}
}

// Add appends batch results for one manifest, preserving their order.
// deps, when non-nil, holds the manifest entry each result was evaluated
// from, indexed like the batch input. Every result becomes either a
// finding or a skipped record.
func (r *Report) Add(path string, deps []manifest.Dependency, results []similarity.Result) {
	for _, res := range results {
		decl := declarationAt(deps, res.Index)
		if res.Skipped() {
			r.Skipped = append(r.Skipped, Skipped{
				Manifest: path,
				Input:    res.Input,
				Reason:   res.Err.Error(),
				Line:     decl.Line,
			})
			r.Summary.Skipped++
			continue
		}
		r.Findings = append(r.Findings, Entry{Manifest: path, Declaration: decl, Finding: *res.Finding})
		r.Summary.Scanned++
		if res.Finding.Risk {
			r.Summary.AtRisk++
		}
	}
}

func declarationAt(deps []manifest.Dependency, i int) Declaration {
	if i < 0 || i >= len(deps) {
		return Declaration{}
	}
	d := deps[i]
	decl := Declaration{Specifier: d.Specifier, Group: d.Group, Line: d.Line}
	if d.Version != nil {
		decl.Version = d.Version.String()
	}
	return decl
}

// Risks returns the findings flagged as at risk.
func (r *Report) Risks() []Entry {
	var out []Entry
	for _, e := range r.Findings {
		if e.Risk {
			out = append(out, e)
		}
	}
	return out
}

// HasRisk reports whether any finding is at risk.
func (r *Report) HasRisk() bool {
	return r.Summary.AtRisk > 0
}

// Write renders the report in the given format.
func Write(w io.Writer, r *Report, format Format, opts TextOptions) error {
	if format == FormatJSON {
		return WriteJSON(w, r)
	}
	return WriteText(w, r, opts)
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
