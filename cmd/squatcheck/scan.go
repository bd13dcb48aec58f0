package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/config"
	"github.com/tsukumogami/squatcheck/internal/log"
	"github.com/tsukumogami/squatcheck/internal/manifest"
	"github.com/tsukumogami/squatcheck/internal/progress"
	"github.com/tsukumogami/squatcheck/internal/report"
	"github.com/tsukumogami/squatcheck/internal/similarity"
	"github.com/tsukumogami/squatcheck/internal/userconfig"
)

var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [manifest...]",
		Short: "Scan manifests for likely typosquats",
		Long: `Scan one or more dependency manifests and report every dependency whose
name is similar to, but not the same as, a popular package.

Supported manifests: requirements*.txt, pyproject.toml and package.json.
Without arguments, requirements.txt in the current directory is scanned.

Settings are resolved from flags, then SQUATCHECK_* environment variables,
then $SQUATCHECK_HOME/config.toml.

Examples:
  squatcheck scan
  squatcheck scan requirements-dev.txt pyproject.toml
  squatcheck scan --ecosystem npm package.json
  squatcheck scan --threshold 0.85 --format json --fail-on-risk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ucfg, err := userconfig.Load()
			if err != nil {
				return withExitCode(ExitUsage, err)
			}

			settings, err := resolveScanSettings(cmd, ucfg)
			if err != nil {
				return err
			}

			hasRisk, err := runScan(ctx, settings, args, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if hasRisk && settings.failOnRisk {
				exitWithCode(ExitRiskFound)
			}
			return nil
		},
	}

	cmd.Flags().Float64("threshold", similarity.DefaultThreshold, "Similarity threshold in (0, 1]")
	cmd.Flags().Int("top-packages", similarity.DefaultTopPackages, "Number of popular packages to compare against")
	cmd.Flags().String("ecosystem", catalog.DefaultEcosystem,
		"Bundled catalog to use ("+strings.Join(catalog.Ecosystems(), ", ")+")")
	cmd.Flags().String("catalog", "", "Path to a custom ranked package list (.txt, .json, .toml, optionally compressed)")
	cmd.Flags().String("format", string(report.FormatText), "Output format (text, json)")
	cmd.Flags().Int("workers", 0, "Concurrent evaluations (0 = one per CPU)")
	cmd.Flags().Bool("fail-on-risk", false, "Exit with status 10 when a risk is found")

	return cmd
}

// scanSettings is the fully resolved configuration of one scan.
type scanSettings struct {
	similarity similarity.Config
	source     catalog.Source
	ecosystem  string
	format     report.Format
	workers    int
	failOnRisk bool
	ignored    func(name string) bool
	progress   bool
}

// resolveScanSettings layers flags over environment variables over the
// user config file.
func resolveScanSettings(cmd *cobra.Command, ucfg *userconfig.Config) (*scanSettings, error) {
	flags := cmd.Flags()

	threshold := ucfg.Threshold
	if v, ok := config.LookupThreshold(); ok {
		threshold = v
	}
	if flags.Changed("threshold") {
		threshold, _ = flags.GetFloat64("threshold")
	}

	topPackages := ucfg.TopPackages
	if v, ok := config.LookupTopPackages(); ok {
		topPackages = v
	}
	if flags.Changed("top-packages") {
		topPackages, _ = flags.GetInt("top-packages")
	}

	simCfg, err := similarity.NewConfig(threshold, topPackages, ucfg.Rules())
	if err != nil {
		return nil, err
	}

	ecosystem := ucfg.Ecosystem
	if v, ok := config.LookupEcosystem(); ok {
		ecosystem = v
	}
	if flags.Changed("ecosystem") {
		ecosystem, _ = flags.GetString("ecosystem")
	}

	catalogPath := ucfg.Catalog
	if flags.Changed("catalog") {
		catalogPath, _ = flags.GetString("catalog")
	}

	var source catalog.Source
	if catalogPath != "" {
		source = catalog.FileSource{Path: catalogPath}
		ecosystem = ""
	} else {
		source, err = catalog.Bundled(ecosystem)
		if err != nil {
			return nil, withExitCode(ExitUsage, err)
		}
		ecosystem = strings.ToLower(strings.TrimSpace(ecosystem))
	}

	formatName, _ := flags.GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return nil, withExitCode(ExitUsage, err)
	}

	workers := config.GetWorkers()
	if flags.Changed("workers") {
		workers, _ = flags.GetInt("workers")
		if workers < 0 {
			return nil, withExitCode(ExitUsage, fmt.Errorf("--workers must not be negative, got %d", workers))
		}
		workers = min(workers, config.MaxWorkers)
	}

	failOnRisk, _ := flags.GetBool("fail-on-risk")

	return &scanSettings{
		similarity: simCfg,
		source:     source,
		ecosystem:  ecosystem,
		format:     format,
		workers:    workers,
		failOnRisk: failOnRisk,
		ignored:    ucfg.IsIgnored,
		progress:   !quietFlag && progress.ShouldShowProgress(),
	}, nil
}

// runScan evaluates every manifest in paths and writes the report to w.
// It returns whether any dependency was flagged.
func runScan(ctx context.Context, s *scanSettings, paths []string, w io.Writer) (bool, error) {
	logger := log.Default()

	cat, err := catalog.Load(s.source, s.similarity.TopPackages(), s.similarity.Rules())
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", "entries", cat.Len(), "ecosystem", s.ecosystem)

	// counter is replaced per manifest before its batch starts.
	var counter *progress.Counter
	opts := []similarity.Option{similarity.WithLogger(logger)}
	if s.progress {
		opts = append(opts, similarity.WithProgress(func(done, total int) {
			counter.Update(done, total)
		}))
	}
	engine := similarity.New(cat, s.similarity, opts...)
	rep := report.New(engine.Config().Threshold(), engine.Catalog().Len(), s.ecosystem)

	if len(paths) == 0 {
		paths = []string{manifest.DefaultPath}
	}

	for _, path := range paths {
		m, err := manifest.Parse(path)
		if err != nil {
			return false, withExitCode(ExitManifest, err)
		}

		deps := make([]manifest.Dependency, 0, len(m.Dependencies))
		names := make([]string, 0, len(m.Dependencies))
		for _, dep := range m.Dependencies {
			if s.ignored != nil && s.ignored(dep.Name) {
				logger.Info("ignoring dependency", "name", dep.Name, "manifest", path)
				continue
			}
			deps = append(deps, dep)
			names = append(names, dep.Name)
		}
		logger.Debug("scanning manifest", "path", path, "kind", m.Kind, "dependencies", len(names))

		if s.progress {
			counter = progress.NewCounter(os.Stderr, "dependencies")
		}
		results := engine.EvaluateAll(ctx, names, s.workers)
		if counter != nil {
			counter.Finish()
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		rep.Add(path, deps, results)
	}

	textOpts := report.TextOptions{
		Color:        useColor(w),
		ShowManifest: len(paths) > 1,
	}
	if err := report.Write(w, rep, s.format, textOpts); err != nil {
		return false, err
	}

	return rep.HasRisk(), nil
}
