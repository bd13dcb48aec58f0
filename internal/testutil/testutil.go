// Package testutil holds helpers shared by squatcheck tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsukumogami/squatcheck/internal/config"
)

// scanEnv lists the environment variables that change scan settings.
var scanEnv = []string{
	config.EnvThreshold,
	config.EnvTopPackages,
	config.EnvWorkers,
	config.EnvEcosystem,
	"NO_COLOR",
}

// Home points SQUATCHECK_HOME at a fresh temporary directory, clears the
// scan environment variables for the duration of the test, and returns the
// directory.
func Home(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, env := range scanEnv {
		t.Setenv(env, "")
	}
	return home
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
