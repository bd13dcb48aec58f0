package catalog

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

func TestBundled(t *testing.T) {
	src, err := Bundled("pypi")
	if err != nil {
		t.Fatalf("Bundled(pypi) error: %v", err)
	}
	names, err := src.Names()
	if err != nil {
		t.Fatalf("Names() error: %v", err)
	}

	head := []string{"requests", "numpy", "pandas", "django", "flask"}
	if len(names) < 20 || !reflect.DeepEqual(names[:5], head) {
		t.Errorf("unexpected bundled pypi head: %v", names[:min(5, len(names))])
	}
	if names[19] != "boto3" {
		t.Errorf("names[19] = %q, want boto3", names[19])
	}
}

func TestBundled_DefaultAndUnknown(t *testing.T) {
	if _, err := Bundled(""); err != nil {
		t.Errorf("Bundled(\"\") should fall back to %s: %v", DefaultEcosystem, err)
	}
	if _, err := Bundled("NPM"); err != nil {
		t.Errorf("Bundled(NPM) error: %v", err)
	}
	if _, err := Bundled("cpan"); err == nil {
		t.Error("expected error for unknown ecosystem")
	}
}

func TestBundledListsAreDistinct(t *testing.T) {
	for _, eco := range Ecosystems() {
		src, err := Bundled(eco)
		if err != nil {
			t.Fatalf("Bundled(%s): %v", eco, err)
		}
		names, _ := src.Names()
		c, err := Load(src, len(names), DefaultRules())
		if err != nil {
			t.Fatalf("Load(%s): %v", eco, err)
		}
		if c.Len() != len(names) {
			t.Errorf("%s: %d names but %d distinct", eco, len(names), c.Len())
		}
	}
}

func TestEcosystems(t *testing.T) {
	if got := Ecosystems(); !reflect.DeepEqual(got, []string{"npm", "pypi"}) {
		t.Errorf("Ecosystems() = %v", got)
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSource_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{
			name:    "text list",
			file:    "top.txt",
			content: "# most popular first\nrequests\n\n  numpy  # inline\npandas\n",
			want:    []string{"requests", "numpy", "pandas"},
		},
		{
			name:    "json without downloads keeps order",
			file:    "top.json",
			content: `{"ecosystem":"pypi","packages":[{"name":"flask"},{"name":"django"}]}`,
			want:    []string{"flask", "django"},
		},
		{
			name:    "json ranked by downloads",
			file:    "top.json",
			content: `{"packages":[{"name":"flask","downloads":10},{"name":"django","downloads":30},{"name":"bottle"}]}`,
			want:    []string{"django", "flask", "bottle"},
		},
		{
			name: "toml",
			file: "top.toml",
			content: `ecosystem = "pypi"
packages = [
  { name = "celery", downloads = 5 },
  { name = "redis", downloads = 9 },
]
`,
			want: []string{"redis", "celery"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, []byte(tt.content))
			got, err := FileSource{Path: path}.Names()
			if err != nil {
				t.Fatalf("Names() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileSource_Compressed(t *testing.T) {
	plain := []byte("requests\nnumpy\n")
	want := []string{"requests", "numpy"}

	compressors := map[string]func(io.Writer) (io.WriteCloser, error){
		"top.txt.gz": func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
		"top.txt.zst": func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		"top.txt.xz": func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) },
	}

	for file, newWriter := range compressors {
		t.Run(file, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := newWriter(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write(plain); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			got, err := FileSource{Path: writeFile(t, file, buf.Bytes())}.Names()
			if err != nil {
				t.Fatalf("Names() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Names() = %v, want %v", got, want)
			}
		})
	}
}

func TestFileSource_Errors(t *testing.T) {
	if _, err := (FileSource{Path: filepath.Join(t.TempDir(), "missing.txt")}).Names(); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := (FileSource{Path: writeFile(t, "bad.json", []byte("{"))}).Names(); err == nil {
		t.Error("expected error for malformed json")
	}
	if _, err := (FileSource{Path: writeFile(t, "bad.txt.gz", []byte("not gzip"))}).Names(); err == nil {
		t.Error("expected error for corrupt gzip")
	}
}

func TestStaticSourceReturnsCopy(t *testing.T) {
	src := StaticSource{"a", "b"}
	names, _ := src.Names()
	names[0] = "z"
	if src[0] != "a" {
		t.Error("StaticSource was mutated")
	}
}
