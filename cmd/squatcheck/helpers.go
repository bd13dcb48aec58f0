package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/tsukumogami/squatcheck/internal/errmsg"
)

// printInfof prints a formatted informational message to w unless quiet mode is enabled
func printInfof(w io.Writer, format string, a ...any) {
	if !quietFlag {
		fmt.Fprintf(w, format, a...)
	}
}

// printJSON marshals the given value to indented JSON on w
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// printError prints an error to stderr with suggestions if available.
func printError(err error) {
	errmsg.Fprint(os.Stderr, err)
}

// useColor reports whether w is a terminal that should get ANSI colors.
// NO_COLOR disables colors regardless.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
