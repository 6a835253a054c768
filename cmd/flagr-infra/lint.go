package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	flagrinfra "github.com/openflagr/flagr-infra"
	"github.com/openflagr/flagr-infra/internal/discover"
	"github.com/openflagr/flagr-infra/internal/lint"
)

func newLintCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "lint [package]",
		Short: "Check declarations for issues",
		Long: `Lint checks the stack package for common declaration issues.

Rules:
    FLG001: Use pseudo-parameter constants instead of hardcoded strings
    FLG002: Use intrinsic types instead of raw map[string]any
    FLG003: Detect duplicate resource variable names
    FLG004: Split files declaring too many resources
    FLG005: Prefer direct variable references over explicit Ref
    FLG006: Prefer attribute fields over explicit GetAtt
    FLG007: Avoid pointer declarations for resources
    FLG008: Never declare plaintext credentials
    FLG009: Document resource declarations

Examples:
    flagr-infra lint
    flagr-infra lint --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(stackPackages(args), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runLint(packages []string, format string) error {
	var issues []flagrinfra.LintIssue

	// Discovery validates references
	discoverResult, err := discover.Discover(discover.Options{
		Packages: packages,
	})
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	for _, e := range discoverResult.Errors {
		issues = append(issues, flagrinfra.LintIssue{
			Severity: "error",
			Message:  e.Error(),
			Rule:     "undefined-reference",
		})
	}

	for _, pkg := range packages {
		lintResult, err := lint.LintPackage(pkg, lint.Options{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to lint %s: %v\n", pkg, err)
			continue
		}

		for _, issue := range lintResult.Issues {
			issues = append(issues, flagrinfra.LintIssue{
				Severity: string(issue.Severity),
				Message:  issue.Message,
				Rule:     issue.Rule,
				File:     issue.File,
				Line:     issue.Line,
				Column:   issue.Column,
			})
		}
	}

	result := flagrinfra.LintResult{
		Success: len(issues) == 0,
		Issues:  issues,
	}

	return outputLintResult(result, format)
}

func outputLintResult(result flagrinfra.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

	case "text":
		if result.Success {
			fmt.Println("No issues found.")
			return nil
		}

		for _, issue := range result.Issues {
			if issue.File != "" {
				fmt.Printf("%s:%d:%d: %s: %s [%s]\n",
					issue.File, issue.Line, issue.Column,
					issue.Severity, issue.Message, issue.Rule)
			} else {
				fmt.Printf("%s: %s [%s]\n", issue.Severity, issue.Message, issue.Rule)
			}
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		os.Exit(2) // Exit code 2 for issues found
	}

	return nil
}
