package main

import (
	"errors"
	"os"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/similarity"
)

// Exit codes for different outcomes.
// These let CI scripts tell a detected risk apart from a broken run.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or configuration
	ExitUsage = 2

	// ExitCatalog indicates the reference catalog could not be built
	ExitCatalog = 3

	// ExitManifest indicates a manifest could not be read or parsed
	ExitManifest = 4

	// ExitRiskFound indicates at least one risk was found with --fail-on-risk
	ExitRiskFound = 10
)

// exitError pairs an error with the exit code it should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an error returned by a command to its exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var catErr *catalog.InvalidCatalogError
	if errors.As(err, &catErr) {
		return ExitCatalog
	}

	var cfgErr *similarity.InvalidConfigError
	if errors.As(err, &cfgErr) {
		return ExitUsage
	}

	return ExitGeneral
}

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
