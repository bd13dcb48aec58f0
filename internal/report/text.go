package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

// TextOptions controls the text renderer.
type TextOptions struct {
	// Color enables ANSI colors; callers set it when stdout is a terminal.
	Color bool

	// ShowManifest prefixes each line with the manifest path, for scans
	// covering more than one manifest.
	ShowManifest bool
}

func (o TextOptions) paint(code, s string) string {
	if !o.Color {
		return s
	}
	return code + s + ansiReset
}

// WriteText writes one line per (dependency, similar package) pair,
// followed by any skipped inputs.
func WriteText(w io.Writer, r *Report, opts TextOptions) error {
	var sb strings.Builder

	risks := r.Risks()
	if len(risks) == 0 {
		sb.WriteString("No potential typosquatting risks found.\n")
	} else {
		sb.WriteString(opts.paint(ansiBold+ansiRed, "Potential typosquatting risks found:"))
		sb.WriteString("\n")
		for _, e := range risks {
			for _, m := range e.Matches {
				sb.WriteString("  ")
				if opts.ShowManifest && e.Manifest != "" {
					fmt.Fprintf(&sb, "%s: ", e.Manifest)
				}
				fmt.Fprintf(&sb, "Dependency: %s, Similar to: %s, Similarity: %.2f%s\n",
					opts.paint(ansiBold, e.DependencyName), m.ReferenceName, m.Score, e.Declaration.suffix())
			}
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&sb, "%s\n", opts.paint(ansiYellow, fmt.Sprintf("Skipped %d invalid dependencies:", len(r.Skipped))))
		for _, s := range r.Skipped {
			sb.WriteString("  ")
			if opts.ShowManifest && s.Manifest != "" {
				fmt.Fprintf(&sb, "%s: ", s.Manifest)
			}
			fmt.Fprintf(&sb, "%q: %s%s\n", s.Input, s.Reason, Declaration{Line: s.Line}.suffix())
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// suffix renders " (line 3, pinned 2.31.0)", or "" when nothing is known.
func (d Declaration) suffix() string {
	var parts []string
	if d.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", d.Line))
	}
	if d.Version != "" {
		parts = append(parts, "pinned "+d.Version)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
