package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var packageJSONGroups = []string{"dependencies", "devDependencies", "optionalDependencies", "peerDependencies"}

// ParsePackageJSON reads the dependency objects of an npm package.json in
// document order.
func ParsePackageJSON(data []byte) ([]Dependency, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode package.json: %w", err)
	}

	var deps []Dependency
	for _, group := range packageJSONGroups {
		raw, ok := doc[group]
		if !ok {
			continue
		}
		entries, err := orderedStringObject(raw)
		if err != nil {
			return nil, fmt.Errorf("decode package.json %s: %w", group, err)
		}
		for _, e := range entries {
			deps = append(deps, Dependency{
				Name:      e[0],
				Specifier: e[1],
				Version:   exactVersion(e[1]),
				Group:     group,
			})
		}
	}
	return deps, nil
}

// orderedStringObject decodes a JSON object of string values into
// key/value pairs, preserving key order.
func orderedStringObject(raw json.RawMessage) ([][2]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}

	var out [][2]string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		out = append(out, [2]string{key, value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
