package cmd

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <crate>",
	Short: "Show crate metadata from cargo info",
	Example: `  docsrs-mcp info serde
  docsrs-mcp info -o yaml tokio`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	info, err := cargo.Lookup(ctx, args[0])
	if err != nil {
		return err
	}
	return stdout.CrateInfo(info)
}
