package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyName is returned when a name is empty after trimming.
var ErrEmptyName = errors.New("empty package name")

// ErrNonASCII is returned when Rules.ASCIIOnly is set and a name contains
// a non-ASCII character.
var ErrNonASCII = errors.New("package name contains non-ASCII characters")

// PackageName is a normalized package name. Two names that differ only in
// case, surrounding whitespace, or (optionally) separator characters have
// the same PackageName.
type PackageName string

// String returns the normalized form.
func (n PackageName) String() string {
	return string(n)
}

// Len returns the length of the name in runes.
func (n PackageName) Len() int {
	return len([]rune(string(n)))
}

// Rules controls how raw names are normalized.
type Rules struct {
	// UnifySeparators collapses every run of '-', '_' and '.' into a single
	// '-', matching PEP 503 canonical names.
	UnifySeparators bool `json:"unify_separators" toml:"unify_separators"`

	// ASCIIOnly rejects names containing non-ASCII characters, which could
	// be homoglyphs of a popular name.
	ASCIIOnly bool `json:"ascii_only" toml:"ascii_only"`
}

// DefaultRules returns the normalization rules used when none are configured.
func DefaultRules() Rules {
	return Rules{UnifySeparators: true}
}

// Normalize lowercases and trims a raw name and applies the given rules.
func Normalize(raw string, rules Rules) (PackageName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyName
	}

	if rules.ASCIIOnly {
		for _, r := range name {
			if r > unicode.MaxASCII {
				return "", fmt.Errorf("%w: %q contains %q", ErrNonASCII, name, string(r))
			}
		}
	}

	name = strings.ToLower(name)
	if rules.UnifySeparators {
		name = unifySeparators(name)
		if name == "" {
			return "", ErrEmptyName
		}
	}

	return PackageName(name), nil
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.'
}

// unifySeparators replaces each run of separators with a single '-'.
func unifySeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if isSeparator(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}

	return b.String()
}
