// Package manifest reads dependency names from project manifests:
// requirements files, pyproject.toml and package.json.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultPath is the manifest scanned when none is given.
const DefaultPath = "requirements.txt"

// maxManifestSize limits manifest files to prevent memory exhaustion (4MB).
const maxManifestSize = 4 * 1024 * 1024

// Kind identifies a manifest format.
type Kind string

const (
	KindRequirements Kind = "requirements"
	KindPyProject    Kind = "pyproject"
	KindPackageJSON  Kind = "package.json"
)

// Dependency is one declared dependency.
type Dependency struct {
	// Name is the dependency name as written. It may be empty when a line
	// has a version specifier but no name; the engine reports such entries
	// as skipped.
	Name string `json:"name"`

	// Specifier is the version constraint as written, e.g. "==2.31.0" or "^4.17".
	Specifier string `json:"specifier,omitempty"`

	// Version is set when the specifier pins an exact version.
	Version *semver.Version `json:"version,omitempty"`

	// Group is the dependency table the entry came from, e.g. "devDependencies".
	Group string `json:"group,omitempty"`

	// Line is the 1-based line number for requirements files, 0 otherwise.
	Line int `json:"line,omitempty"`
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Path         string       `json:"path"`
	Kind         Kind         `json:"kind"`
	Dependencies []Dependency `json:"dependencies"`
}

// Names returns the dependency names in declaration order.
func (m *Manifest) Names() []string {
	out := make([]string, 0, len(m.Dependencies))
	for _, d := range m.Dependencies {
		out = append(out, d.Name)
	}
	return out
}

// UnsupportedError reports a file whose format cannot be determined.
type UnsupportedError struct {
	Path string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported manifest %s: expected requirements*.txt, pyproject.toml or package.json", e.Path)
}

// DetectKind determines the manifest format from the file name.
func DetectKind(path string) (Kind, bool) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == "pyproject.toml":
		return KindPyProject, true
	case base == "package.json":
		return KindPackageJSON, true
	case strings.HasSuffix(base, ".txt"), strings.HasSuffix(base, ".in"), strings.HasPrefix(base, "requirements"):
		return KindRequirements, true
	default:
		return "", false
	}
}

// Parse reads and parses the manifest at path.
func Parse(path string) (*Manifest, error) {
	kind, ok := DetectKind(path)
	if !ok {
		return nil, &UnsupportedError{Path: path}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if info.Size() > maxManifestSize {
		return nil, fmt.Errorf("manifest %s exceeds %d bytes", path, maxManifestSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var deps []Dependency
	switch kind {
	case KindRequirements:
		deps, err = ParseRequirements(data)
	case KindPyProject:
		deps, err = ParsePyProject(data)
	case KindPackageJSON:
		deps, err = ParsePackageJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &Manifest{Path: path, Kind: kind, Dependencies: deps}, nil
}

// exactVersion returns the pinned version of a bare version string, or nil
// when v is a range or not a version.
func exactVersion(v string) *semver.Version {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "*,<>^~!| ") {
		return nil
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil
	}
	return parsed
}
