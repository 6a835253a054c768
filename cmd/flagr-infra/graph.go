package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openflagr/flagr-infra/internal/discover"
	"github.com/openflagr/flagr-infra/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByType     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [package]",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    flagr-infra graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    flagr-infra graph -f mermaid

Examples:
    flagr-infra graph
    flagr-infra graph -p              # include parameters
    flagr-infra graph -c              # cluster by service
    flagr-infra graph -f mermaid      # mermaid format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(stackPackages(args), outputFormat, includeParameters, clusterByType)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by AWS service type")

	return cmd
}

func runGraph(packages []string, format string, includeParams bool, cluster bool) error {
	result, err := discover.Discover(discover.Options{
		Packages: packages,
	})
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(result.Resources) == 0 {
		return fmt.Errorf("no resources found")
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: includeParams,
		ClusterByType:     cluster,
	}

	return gen.Generate(result.Resources, result.Parameters, os.Stdout)
}
