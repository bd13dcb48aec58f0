package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/squatcheck/internal/buildinfo"
	"github.com/tsukumogami/squatcheck/internal/log"
)

var (
	quietFlag    bool
	verboseFlag  bool
	debugFlag    bool
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "squatcheck",
	Short: "Detect dependencies that look like typosquats of popular packages",
	Long: `squatcheck compares the dependencies declared in a manifest against a
catalog of the most popular packages and flags names that are suspiciously
similar to, but not the same as, a well-known package.

It reads requirements.txt, pyproject.toml and package.json files and never
contacts a package registry.`,
	Version:       buildinfo.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel()
		if err != nil {
			return withExitCode(ExitUsage, err)
		}
		log.SetDefault(log.NewText(os.Stderr, level))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log informational messages")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log debug messages")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level ("+strings.Join(log.LevelNames, ", ")+"); overrides --quiet/--verbose/--debug")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsage, err)
	})

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveLogLevel applies --log-level when given, otherwise the
// quiet/verbose/debug flags and environment variables.
func resolveLogLevel() (slog.Level, error) {
	if logLevelFlag != "" {
		return log.ParseLevel(logLevelFlag)
	}
	return determineLogLevel(), nil
}

// determineLogLevel picks the level from flags first, then environment
// variables. Within each source debug wins over verbose, verbose over quiet.
func determineLogLevel() slog.Level {
	switch {
	case debugFlag:
		return slog.LevelDebug
	case verboseFlag:
		return slog.LevelInfo
	case quietFlag:
		return slog.LevelError
	}

	switch {
	case isTruthy(os.Getenv("SQUATCHECK_DEBUG")):
		return slog.LevelDebug
	case isTruthy(os.Getenv("SQUATCHECK_VERBOSE")):
		return slog.LevelInfo
	case isTruthy(os.Getenv("SQUATCHECK_QUIET")):
		return slog.LevelError
	}

	return slog.LevelWarn
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		exitWithCode(exitCodeFor(err))
	}
}
