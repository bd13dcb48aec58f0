package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	lzip "github.com/sorairolake/lzip-go"
	"github.com/ulikunitz/xz"
)

// maxListSize limits a decompressed catalog file to prevent memory exhaustion (16MB).
const maxListSize = 16 * 1024 * 1024

// DefaultEcosystem is the bundled list used when none is configured.
const DefaultEcosystem = "pypi"

//go:embed data/*.toml
var bundledFS embed.FS

// Source supplies popular package names ranked most popular first.
type Source interface {
	Names() ([]string, error)
}

// StaticSource is an in-memory ranked list.
type StaticSource []string

// Names returns a copy of the list.
func (s StaticSource) Names() ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// listFile is the on-disk shape of JSON and TOML catalog lists.
type listFile struct {
	Ecosystem   string      `json:"ecosystem" toml:"ecosystem"`
	Description string      `json:"description,omitempty" toml:"description"`
	Packages    []listEntry `json:"packages" toml:"packages"`
}

type listEntry struct {
	Name      string `json:"name" toml:"name"`
	Downloads int64  `json:"downloads,omitempty" toml:"downloads"`
}

// names returns entry names in rank order. When any entry carries a
// download count the list is re-ranked by descending downloads; entries
// without counts keep their relative order after the counted ones.
func (f *listFile) names() []string {
	entries := f.Packages
	ranked := false
	for _, e := range entries {
		if e.Downloads > 0 {
			ranked = true
			break
		}
	}
	if ranked {
		entries = append([]listEntry(nil), entries...)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Downloads > entries[j].Downloads
		})
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

// bundledSource reads one of the lists embedded in the binary.
type bundledSource struct {
	ecosystem string
}

// Bundled returns the embedded popular-package list for an ecosystem.
func Bundled(ecosystem string) (Source, error) {
	ecosystem = strings.ToLower(strings.TrimSpace(ecosystem))
	if ecosystem == "" {
		ecosystem = DefaultEcosystem
	}
	if _, err := fs.Stat(bundledFS, path.Join("data", ecosystem+".toml")); err != nil {
		return nil, fmt.Errorf("no bundled catalog for ecosystem %q (available: %s)",
			ecosystem, strings.Join(Ecosystems(), ", "))
	}
	return bundledSource{ecosystem: ecosystem}, nil
}

func (b bundledSource) Names() ([]string, error) {
	data, err := bundledFS.ReadFile(path.Join("data", b.ecosystem+".toml"))
	if err != nil {
		return nil, fmt.Errorf("read bundled catalog %s: %w", b.ecosystem, err)
	}
	var f listFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("parse bundled catalog %s: %w", b.ecosystem, err)
	}
	return f.names(), nil
}

// Ecosystems lists the ecosystems with a bundled catalog, sorted.
func Ecosystems() []string {
	matches, err := bundledFS.ReadDir("data")
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if name, ok := strings.CutSuffix(m.Name(), ".toml"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// FileSource reads a ranked list from disk. The format is chosen from the
// file extension after any compression suffix is removed:
//
//   - .json and .toml: {ecosystem, packages: [{name, downloads}]}
//   - anything else: one name per line, '#' starts a comment
//
// Supported compression suffixes are .gz, .zst, .xz and .lz.
type FileSource struct {
	Path string
}

// Names reads and parses the file.
func (f FileSource) Names() ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	r, inner, closeFn, err := decompress(file, f.Path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	data, err := io.ReadAll(io.LimitReader(r, maxListSize+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", f.Path, err)
	}
	if len(data) > maxListSize {
		return nil, fmt.Errorf("catalog file %s exceeds %d bytes", f.Path, maxListSize)
	}

	switch strings.ToLower(filepath.Ext(inner)) {
	case ".json":
		var lf listFile
		if err := json.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("parse catalog file %s: %w", f.Path, err)
		}
		return lf.names(), nil
	case ".toml":
		var lf listFile
		if _, err := toml.Decode(string(data), &lf); err != nil {
			return nil, fmt.Errorf("parse catalog file %s: %w", f.Path, err)
		}
		return lf.names(), nil
	default:
		return parseLines(data)
	}
}

// decompress wraps r according to the compression suffix of name. It
// returns the reader, the file name without the compression suffix, and a
// function releasing decoder resources.
func decompress(r io.Reader, name string) (io.Reader, string, func(), error) {
	noop := func() {}
	ext := strings.ToLower(filepath.Ext(name))
	inner := strings.TrimSuffix(name, filepath.Ext(name))

	switch ext {
	case ".gz":
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, "", noop, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzr, inner, func() { gzr.Close() }, nil
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, "", noop, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr, inner, zr.Close, nil
	case ".xz":
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, "", noop, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzr, inner, noop, nil
	case ".lz":
		lr, err := lzip.NewReader(r)
		if err != nil {
			return nil, "", noop, fmt.Errorf("failed to create lzip reader: %w", err)
		}
		return lr, inner, noop, nil
	default:
		return r, name, noop, nil
	}
}

// parseLines reads one name per line, ignoring blank lines and comments.
func parseLines(data []byte) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog list: %w", err)
	}
	return out, nil
}
