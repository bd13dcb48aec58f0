package functional

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

// aCleanSquatcheckEnvironment is a no-op because the Before hook already
// sets up the environment. This step exists so feature files read naturally.
func aCleanSquatcheckEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// aFileWith writes a doc string to a file in the scenario's work directory.
func aFileWith(ctx context.Context, name string, content *godog.DocString) (context.Context, error) {
	state := getState(ctx)
	path := filepath.Join(state.workDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ctx, err
	}
	return ctx, os.WriteFile(path, []byte(content.Content+"\n"), 0o644)
}

func theEnvironmentVariableIs(ctx context.Context, name, value string) (context.Context, error) {
	state := getState(ctx)
	state.env = append(state.env, name+"="+value)
	return ctx, nil
}

// iRun executes a command string, replacing "squatcheck" with the test binary path.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "squatcheck" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.workDir

	env := append(os.Environ(),
		"SQUATCHECK_HOME="+state.homeDir,
		"SQUATCHECK_THRESHOLD=",
		"SQUATCHECK_TOP_PACKAGES=",
		"SQUATCHECK_ECOSYSTEM=",
		"NO_COLOR=1",
	)
	cmd.Env = append(env, state.env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theOutputIsValidJSONWithFindings(ctx context.Context, count int) error {
	state := getState(ctx)
	var out struct {
		Findings []json.RawMessage `json:"findings"`
	}
	if err := json.Unmarshal([]byte(state.stdout), &out); err != nil {
		return fmt.Errorf("stdout is not valid JSON: %v\n%s", err, state.stdout)
	}
	if len(out.Findings) != count {
		return fmt.Errorf("expected %d findings, got %d", count, len(out.Findings))
	}
	return nil
}

func theConfigFileContains(ctx context.Context, text string) error {
	state := getState(ctx)
	data, err := os.ReadFile(filepath.Join(state.homeDir, "config.toml"))
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("expected config file to contain %q, got:\n%s", text, data)
	}
	return nil
}
