package functional

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"
)

type stateKeyType struct{}

var stateKey = stateKeyType{}

type testState struct {
	workDir  string // manifests are written and commands run here
	homeDir  string // SQUATCHECK_HOME
	binPath  string
	env      []string // extra environment for the next command
	stdout   string
	stderr   string
	exitCode int
}

func getState(ctx context.Context) *testState {
	if s, ok := ctx.Value(stateKey).(*testState); ok {
		return s
	}
	return nil
}

func setState(ctx context.Context, s *testState) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

func TestFeatures(t *testing.T) {
	binPath := os.Getenv("SQUATCHECK_TEST_BINARY")
	if binPath == "" {
		t.Skip("SQUATCHECK_TEST_BINARY not set; build cmd/squatcheck and point the variable at it")
	}

	// Resolve to absolute path since go test changes the working directory
	absBin, err := filepath.Abs(binPath)
	if err != nil {
		t.Fatalf("resolving binary path: %v", err)
	}
	binPath = absBin

	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		TestingT: t,
	}
	if tags := os.Getenv("SQUATCHECK_TEST_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(ctx, binPath)
		},
		Options: opts,
	}
	if suite.Run() != 0 {
		t.Fatal("functional tests failed")
	}
}

func initializeScenario(ctx *godog.ScenarioContext, binPath string) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		workDir, err := os.MkdirTemp("", "squatcheck-functional-")
		if err != nil {
			return ctx, err
		}
		homeDir := filepath.Join(workDir, ".squatcheck")
		if err := os.MkdirAll(homeDir, 0o755); err != nil {
			return ctx, err
		}

		state := &testState{
			workDir: workDir,
			homeDir: homeDir,
			binPath: binPath,
		}
		return setState(ctx, state), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if state := getState(ctx); state != nil {
			os.RemoveAll(state.workDir)
		}
		return ctx, nil
	})

	// Environment steps
	ctx.Step(`^a clean squatcheck environment$`, aCleanSquatcheckEnvironment)
	ctx.Step(`^a file "([^"]*)" with:$`, aFileWith)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, theEnvironmentVariableIs)

	// Command steps
	ctx.Step(`^I run "([^"]*)"$`, iRun)

	// Assertion steps
	ctx.Step(`^the exit code is (\d+)$`, theExitCodeIs)
	ctx.Step(`^the output contains "([^"]*)"$`, theOutputContains)
	ctx.Step(`^the output does not contain "([^"]*)"$`, theOutputDoesNotContain)
	ctx.Step(`^the error output contains "([^"]*)"$`, theErrorOutputContains)
	ctx.Step(`^the output is valid JSON with (\d+) findings?$`, theOutputIsValidJSONWithFindings)
	ctx.Step(`^the config file contains "([^"]*)"$`, theConfigFileContains)
}
