package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openflagr/flagr-infra/internal/deploy"
	"github.com/openflagr/flagr-infra/internal/synth"
	"github.com/openflagr/flagr-infra/internal/template"
	"github.com/openflagr/flagr-infra/stack"
)

func newDeployCmd() *cobra.Command {
	var (
		stackName string
		region    string
		profile   string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "deploy [package]",
		Short: "Deploy the stack via CloudFormation",
		Long: `Deploy builds the template and creates or updates the CloudFormation
stack, waiting for the operation to complete.

Credentials come from the usual AWS sources (environment, shared config,
instance role).

Examples:
    flagr-infra deploy -s flagr-prod
    flagr-infra deploy -s flagr-staging --region us-west-2
    flagr-infra deploy -s flagr-dev --profile sandbox`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, stackPackages(args), stackName, region, profile, timeout)
		},
	}

	cmd.Flags().StringVarP(&stackName, "stack-name", "s", "", "CloudFormation stack name (required)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default: from shared config)")
	cmd.Flags().StringVar(&profile, "profile", "", "AWS shared config profile")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Max wait for stack completion")
	_ = cmd.MarkFlagRequired("stack-name")

	return cmd
}

func runDeploy(cmd *cobra.Command, packages []string, stackName, region, profile string, timeout time.Duration) error {
	result, err := synth.Synthesize(synth.Options{
		Packages:     packages,
		Declarations: stack.Declarations(),
		Description:  stack.Description,
	})
	if err != nil {
		return fmt.Errorf("building template: %w", err)
	}

	body, err := template.ToJSON(result.Template)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	return deploy.Deploy(cmd.Context(), deploy.Options{
		StackName:    stackName,
		Region:       region,
		Profile:      profile,
		TemplateBody: string(body),
		Timeout:      timeout,
	})
}
