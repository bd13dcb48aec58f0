package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// nameTerminators end the distribution name in a PEP 508 requirement.
const nameTerminators = "[;<>=!~@( \t"

// ParseRequirements parses a pip requirements file. Comments, blank lines,
// option lines (-r, -e, --index-url, ...) and bare URLs or paths are
// skipped. Backslash continuations are joined.
func ParseRequirements(data []byte) ([]Dependency, error) {
	var deps []Dependency

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	startLine := 0
	var pending strings.Builder

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if pending.Len() == 0 {
			startLine = lineNo
		}

		if cont, ok := strings.CutSuffix(strings.TrimRight(line, " \t"), `\`); ok {
			pending.WriteString(cont)
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		full := pending.String()
		pending.Reset()

		if dep, ok := parseRequirementLine(full); ok {
			dep.Line = startLine
			deps = append(deps, dep)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan requirements: %w", err)
	}
	if pending.Len() > 0 {
		if dep, ok := parseRequirementLine(pending.String()); ok {
			dep.Line = startLine
			deps = append(deps, dep)
		}
	}

	return deps, nil
}

func parseRequirementLine(line string) (Dependency, bool) {
	line = stripComment(line)
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") {
		return Dependency{}, false
	}
	if strings.HasPrefix(line, ".") || strings.HasPrefix(line, "/") {
		return Dependency{}, false
	}
	if strings.Contains(line, "://") && !strings.Contains(line, "@") {
		return Dependency{}, false
	}
	return parseRequirement(line), true
}

// stripComment removes a '#' comment. pip treats '#' as a comment only at
// the start of a line or after whitespace.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

// parseRequirement splits a PEP 508 requirement string into name and
// version specifier. Extras and environment markers are dropped.
func parseRequirement(req string) Dependency {
	req = strings.TrimSpace(req)

	end := strings.IndexAny(req, nameTerminators)
	if end < 0 {
		return Dependency{Name: req}
	}

	dep := Dependency{Name: strings.TrimSpace(req[:end])}
	rest := req[end:]

	if i := strings.IndexByte(rest, ';'); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "[") {
		if i := strings.IndexByte(rest, ']'); i >= 0 {
			rest = strings.TrimSpace(rest[i+1:])
		}
	}
	if strings.HasPrefix(rest, "@") {
		// Direct reference: name @ url
		dep.Specifier = rest
		return dep
	}
	rest = strings.TrimSpace(strings.Trim(rest, "()"))
	dep.Specifier = rest

	if pin, ok := strings.CutPrefix(rest, "==="); ok {
		dep.Version = exactVersion(pin)
	} else if pin, ok := strings.CutPrefix(rest, "=="); ok && !strings.Contains(pin, ",") {
		dep.Version = exactVersion(pin)
	}

	return dep
}
