package cmd

import (
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <crate[@version]> <TypeName>",
	Short: "Show the documentation of one type",
	Long: `Resolve a type on docs.rs and print its description, methods, implemented
traits and fields. The type may be bare ("Html") or qualified with its module
path ("html::Html").`,
	Example: `  docsrs-mcp type scraper html::Html
  docsrs-mcp type opentelemetry_sdk@0.28.0 trace::TracerProviderBuilder
  docsrs-mcp type --kind enum scraper CaseSensitivity`,
	Args: cobra.ExactArgs(2),
	RunE: runType,
}

var typeKind string

func init() {
	typeCmd.Flags().StringVar(&typeKind, "kind", "struct", "item kind: struct, enum, trait, union or type")
}

func runType(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	crate, version := parseCrateSpec(args[0])
	doc, err := harvester.GetTypeDoc(ctx, crate, args[1], version, typeKind)
	if err != nil {
		return err
	}
	return stdout.TypeDoc(doc)
}
