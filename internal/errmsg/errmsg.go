// Package errmsg provides enhanced error message formatting with actionable suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/manifest"
	"github.com/tsukumogami/squatcheck/internal/similarity"
)

// Format returns a formatted error message with possible causes and suggestions.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var catErr *catalog.InvalidCatalogError
	if errors.As(err, &catErr) {
		return formatCatalogError(err, catErr)
	}

	var cfgErr *similarity.InvalidConfigError
	if errors.As(err, &cfgErr) {
		return formatConfigError(err, cfgErr)
	}

	var inErr *similarity.InvalidInputError
	if errors.As(err, &inErr) {
		return formatInputError(err)
	}

	var unsupported *manifest.UnsupportedError
	if errors.As(err, &unsupported) {
		return formatUnsupportedError(err)
	}

	if errors.Is(err, os.ErrNotExist) {
		return formatNotFoundError(err)
	}

	if errors.Is(err, os.ErrPermission) || isPermissionError(err.Error()) {
		return formatPermissionError(err)
	}

	return err.Error()
}

// Fprint writes the formatted error to w, prefixed with "Error: ".
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", strings.TrimRight(Format(err), "\n"))
}

func formatCatalogError(err error, catErr *catalog.InvalidCatalogError) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	switch {
	case catErr.Err != nil:
		sb.WriteString("  - The catalog file could not be read or parsed\n")
	case strings.Contains(catErr.Reason, "top-packages"):
		sb.WriteString("  - --top-packages is zero or negative\n")
	default:
		sb.WriteString("  - The catalog list is empty\n")
		sb.WriteString("  - Every entry in the catalog list is blank\n")
	}

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Run 'squatcheck catalog list' to inspect the reference catalog\n")
	sb.WriteString("  - Use --ecosystem to select a bundled list (" + strings.Join(catalog.Ecosystems(), ", ") + ")\n")
	sb.WriteString("  - Catalog files are .txt (one name per line), .json or .toml, optionally .gz/.zst/.xz/.lz\n")

	return sb.String()
}

func formatConfigError(err error, cfgErr *similarity.InvalidConfigError) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	switch cfgErr.Field {
	case "threshold":
		sb.WriteString("  - Use a threshold greater than 0 and at most 1, e.g. --threshold 0.8\n")
		sb.WriteString("  - Higher thresholds report fewer, closer matches\n")
	case "top-packages":
		sb.WriteString("  - Use a positive number of packages, e.g. --top-packages 20\n")
	}
	sb.WriteString("  - Check SQUATCHECK_THRESHOLD, SQUATCHECK_TOP_PACKAGES and 'squatcheck config list'\n")

	return sb.String()
}

func formatInputError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - A manifest line has a version specifier but no package name\n")
	sb.WriteString("  - The name contains non-ASCII characters while ascii_only is enabled\n")

	return sb.String()
}

func formatUnsupportedError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Pass a requirements file, pyproject.toml or package.json\n")
	sb.WriteString("  - Requirements files must end in .txt or .in, or start with 'requirements'\n")

	return sb.String()
}

func formatNotFoundError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The manifest or catalog path is misspelled\n")
	sb.WriteString("  - The command was run from a different directory\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Pass the manifest path explicitly: squatcheck scan path/to/requirements.txt\n")

	return sb.String()
}

func formatPermissionError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - Insufficient permissions on the file or on $SQUATCHECK_HOME\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check file permissions with: ls -la\n")

	return sb.String()
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
