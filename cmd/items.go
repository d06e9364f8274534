package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/rpc"
)

var itemsCmd = &cobra.Command{
	Use:   "items <crate[@version]> ...",
	Short: "List the public items of crates",
	Long:  `List the items of each crate's docs.rs all-items page, grouped by category. Version defaults to "latest".`,
	Example: `  docsrs-mcp items scraper
  docsrs-mcp items scraper@0.22.0 serde@1.0.219
  docsrs-mcp items -o json tokio`,
	Args: cobra.MinimumNArgs(1),
	RunE: runItems,
}

var itemsJobs int

func init() {
	itemsCmd.Flags().IntVarP(&itemsJobs, "jobs", "j", 4, "crates fetched concurrently")
}

// parseCrateSpec splits "name@version".
func parseCrateSpec(arg string) (string, string) {
	name, version, _ := strings.Cut(strings.TrimSpace(arg), "@")
	return name, version
}

func runItems(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	return listItems(ctx, args)
}

func listItems(ctx context.Context, args []string) error {
	responses := make([]rpc.ListItemsResponse, len(args))
	failures := make([]error, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(itemsJobs, 1))
	for i, arg := range args {
		name, version := parseCrateSpec(arg)
		if version == "" {
			version = docs.LatestVersion
		}
		g.Go(func() error {
			catalog, err := harvester.ListItems(gctx, name, version)
			if err != nil {
				// Reported per crate; the other crates carry on.
				failures[i] = err
				return nil
			}
			responses[i] = rpc.ListItemsResponse{CrateName: name, Version: version, Items: catalog}
			return nil
		})
	}
	_ = g.Wait()

	var first error
	for i := range args {
		if failures[i] != nil {
			slog.Debug("listing failed", "crate", args[i], "error", failures[i])
			stderr.Error(failures[i])
			if first == nil {
				first = failures[i]
			}
			continue
		}
		if err := stdout.Items(responses[i]); err != nil {
			return err
		}
	}

	if first != nil {
		return &exitError{code: ExitCode(first), err: errReported}
	}
	return nil
}
