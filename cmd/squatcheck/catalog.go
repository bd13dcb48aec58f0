package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/similarity"
	"github.com/tsukumogami/squatcheck/internal/userconfig"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the reference catalog of popular packages",
	Long: `Inspect the ranked list of popular packages that dependencies are compared
against.

Bundled ecosystems: ` + strings.Join(catalog.Ecosystems(), ", "),
}

type catalogEntryOutput struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog entries in popularity order",
	Long: `List the normalized catalog entries, most popular first.

Examples:
  squatcheck catalog list
  squatcheck catalog list --ecosystem npm --top-packages 50
  squatcheck catalog list --catalog top-pypi.txt.zst --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ucfg, err := userconfig.Load()
		if err != nil {
			return withExitCode(ExitUsage, err)
		}

		topPackages := ucfg.TopPackages
		if cmd.Flags().Changed("top-packages") {
			topPackages, _ = cmd.Flags().GetInt("top-packages")
		}
		ecosystem := ucfg.Ecosystem
		if cmd.Flags().Changed("ecosystem") {
			ecosystem, _ = cmd.Flags().GetString("ecosystem")
		}
		path := ucfg.Catalog
		if cmd.Flags().Changed("catalog") {
			path, _ = cmd.Flags().GetString("catalog")
		}

		var src catalog.Source = catalog.FileSource{Path: path}
		if path == "" {
			src, err = catalog.Bundled(ecosystem)
			if err != nil {
				return withExitCode(ExitUsage, err)
			}
		}

		cat, err := catalog.Load(src, topPackages, ucfg.Rules())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			entries := make([]catalogEntryOutput, 0, cat.Len())
			cat.Each(func(rank int, name catalog.PackageName) bool {
				entries = append(entries, catalogEntryOutput{Rank: rank + 1, Name: name.String()})
				return true
			})
			return printJSON(out, entries)
		}

		printInfof(out, "Catalog (%d entries):\n\n", cat.Len())
		cat.Each(func(rank int, name catalog.PackageName) bool {
			fmt.Fprintf(out, "%4d  %s\n", rank+1, name)
			return true
		})
		return nil
	},
}

func init() {
	catalogListCmd.Flags().Int("top-packages", similarity.DefaultTopPackages, "Number of entries to load")
	catalogListCmd.Flags().String("ecosystem", catalog.DefaultEcosystem, "Bundled catalog to list")
	catalogListCmd.Flags().String("catalog", "", "Path to a custom ranked package list")
	catalogListCmd.Flags().Bool("json", false, "Output in JSON format")

	catalogCmd.AddCommand(catalogListCmd)
}
