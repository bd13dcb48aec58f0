package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// pyproject represents the dependency tables of pyproject.toml.
type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ParsePyProject reads PEP 621 [project] dependencies, optional
// dependency groups (sorted by group name), and Poetry dependency tables.
// Poetry's "python" entry is not a package and is skipped.
func ParsePyProject(data []byte) ([]Dependency, error) {
	var doc pyproject
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("decode pyproject.toml: %w", err)
	}

	var deps []Dependency
	for _, req := range doc.Project.Dependencies {
		dep := parseRequirement(req)
		dep.Group = "dependencies"
		deps = append(deps, dep)
	}

	groups := make([]string, 0, len(doc.Project.OptionalDependencies))
	for g := range doc.Project.OptionalDependencies {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		for _, req := range doc.Project.OptionalDependencies[g] {
			dep := parseRequirement(req)
			dep.Group = "optional:" + g
			deps = append(deps, dep)
		}
	}

	deps = append(deps, poetryDeps(md, "dependencies", doc.Tool.Poetry.Dependencies)...)
	deps = append(deps, poetryDeps(md, "dev-dependencies", doc.Tool.Poetry.DevDependencies)...)

	return deps, nil
}

// poetryDeps converts a Poetry dependency table, keeping document order
// via the decoder metadata.
func poetryDeps(md toml.MetaData, table string, values map[string]any) []Dependency {
	if len(values) == 0 {
		return nil
	}

	var deps []Dependency
	for _, key := range md.Keys() {
		if len(key) != 4 || key[0] != "tool" || key[1] != "poetry" || key[2] != table {
			continue
		}
		name := key[3]
		if strings.EqualFold(name, "python") {
			continue
		}
		spec := poetrySpecifier(values[name])
		deps = append(deps, Dependency{
			Name:      name,
			Specifier: spec,
			Version:   exactVersion(strings.TrimPrefix(spec, "==")),
			Group:     "poetry:" + table,
		})
	}
	return deps
}

// poetrySpecifier extracts the version constraint from either the short
// form (requests = "^2.31") or the table form (requests = {version = "^2.31"}).
func poetrySpecifier(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return ""
}
