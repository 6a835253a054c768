package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	flagrinfra "github.com/openflagr/flagr-infra"
	"github.com/openflagr/flagr-infra/internal/synth"
	"github.com/openflagr/flagr-infra/internal/template"
	"github.com/openflagr/flagr-infra/stack"
)

func newBuildCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build [package]",
		Short: "Generate the CloudFormation template",
		Long: `Build discovers the resource declarations in the stack package and
generates a CloudFormation template.

Examples:
    flagr-infra build
    flagr-infra build -o template.json
    flagr-infra build --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(stackPackages(args), outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runBuild(packages []string, format, outputFile string) error {
	result, err := synth.Synthesize(synth.Options{
		Packages:     packages,
		Declarations: stack.Declarations(),
		Description:  stack.Description,
	})
	if err != nil {
		buildResult := flagrinfra.BuildResult{
			Success: false,
			Errors:  []string{err.Error()},
		}
		return outputResult(buildResult, format, outputFile)
	}

	resourceNames := make([]string, 0, len(result.Discover.Resources))
	for name := range result.Discover.Resources {
		resourceNames = append(resourceNames, name)
	}

	buildResult := flagrinfra.BuildResult{
		Success:   true,
		Template:  *result.Template,
		Resources: resourceNames,
	}

	return outputResult(buildResult, format, outputFile)
}

func outputResult(result flagrinfra.BuildResult, format, outputFile string) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("build failed")
	}

	var data []byte
	var err error

	switch format {
	case "json":
		data, err = template.ToJSON(&result.Template)
	case "yaml":
		data, err = template.ToYAML(&result.Template)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}
