package log

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug)

	logger.Info("catalog loaded", "entries", 20)

	output := buf.String()
	if !strings.Contains(output, "catalog loaded") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "entries=20") {
		t.Errorf("expected output to contain 'entries=20', got: %s", output)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger)
		want    string
	}{
		{"DEBUG", func(l Logger) { l.Debug("scored") }, "scored"},
		{"INFO", func(l Logger) { l.Info("scanning") }, "scanning"},
		{"WARN", func(l Logger) { l.Warn("skipped") }, "skipped"},
		{"ERROR", func(l Logger) { l.Error("failed") }, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(NewText(&buf, slog.LevelDebug))

			output := buf.String()
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected output to contain %q, got: %s", tt.want, output)
			}
			if !strings.Contains(output, "level="+tt.name) {
				t.Errorf("expected output to contain level %s, got: %s", tt.name, output)
			}
		})
	}
}

func TestLoggerWithChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug)

	logger.With("manifest", "requirements.txt").With("dependency", "requesrs").Debug("evaluating")

	output := buf.String()
	for _, want := range []string{"manifest=requirements.txt", "dependency=requesrs", "evaluating"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelWarn)

	logger.Debug("debug hidden")
	logger.Info("info hidden")
	logger.Warn("warn shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("records below WARN should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn shown") {
		t.Errorf("expected warn record, got: %s", output)
	}
}

func TestNoopLoggerWith(t *testing.T) {
	logger := NewNoop()
	logger.Error("should not panic")

	if _, ok := logger.With("k", "v").(noopLogger); !ok {
		t.Error("expected With() on noopLogger to return noopLogger")
	}
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewText(&buf, slog.LevelInfo))
	Default().Info("custom default")

	if !strings.Contains(buf.String(), "custom default") {
		t.Errorf("expected custom logger to be used, got: %s", buf.String())
	}

	SetDefault(nil)
	if _, ok := Default().(noopLogger); !ok {
		t.Error("SetDefault(nil) should install a noop logger")
	}
}

func TestDefaultLoggerConcurrency(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Default().Info("read")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				SetDefault(NewNoop())
			}
		}()
	}
	wg.Wait()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARNING", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{" Error ", slog.LevelError, false},
		{"CRITICAL", LevelCritical, false},
		{"TRACE", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLevel(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCriticalSuppressesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, LevelCritical)
	logger.Error("ordinary error")

	if buf.Len() != 0 {
		t.Errorf("expected no output at CRITICAL, got: %s", buf.String())
	}
}
