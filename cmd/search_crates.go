package cmd

import (
	"github.com/spf13/cobra"
)

var searchCratesCmd = &cobra.Command{
	Use:   "search-crates <query>",
	Short: "Search crates.io for Rust crates",
	Example: `  docsrs-mcp search-crates serde
  docsrs-mcp search-crates "html parser"
  docsrs-mcp search-crates --limit 5 tokio`,
	Args: cobra.ExactArgs(1),
	RunE: runSearchCrates,
}

var searchCratesLimit int

func init() {
	searchCratesCmd.Flags().IntVar(&searchCratesLimit, "limit", 20, "max results")
}

func runSearchCrates(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := registry.Search(ctx, args[0], searchCratesLimit)
	if err != nil {
		return err
	}
	return stdout.Crates(results)
}
