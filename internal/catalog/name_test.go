package catalog

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rules Rules
		want  PackageName
	}{
		{"lowercase", "Requests", DefaultRules(), "requests"},
		{"trim", "  numpy\t", DefaultRules(), "numpy"},
		{"underscore", "typing_extensions", DefaultRules(), "typing-extensions"},
		{"dot", "zope.interface", DefaultRules(), "zope-interface"},
		{"separator run", "Foo__-.Bar", DefaultRules(), "foo-bar"},
		{"separators kept", "typing_extensions", Rules{}, "typing_extensions"},
		{"scoped npm", "@Babel/Core", DefaultRules(), "@babel/core"},
		{"unicode allowed", "Café", DefaultRules(), "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, tt.rules)
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n"} {
		_, err := Normalize(input, DefaultRules())
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("Normalize(%q) error = %v, want ErrEmptyName", input, err)
		}
	}
}

func TestNormalize_ASCIIOnly(t *testing.T) {
	rules := Rules{UnifySeparators: true, ASCIIOnly: true}

	// Cyrillic 'е' in place of Latin 'e'.
	_, err := Normalize("rеquests", rules)
	if !errors.Is(err, ErrNonASCII) {
		t.Fatalf("expected ErrNonASCII, got %v", err)
	}

	got, err := Normalize("requests", rules)
	if err != nil || got != "requests" {
		t.Errorf("Normalize(requests) = %q, %v", got, err)
	}
}

func TestPackageNameLen(t *testing.T) {
	if got := PackageName("naïve").Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}
