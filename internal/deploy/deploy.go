// Package deploy creates or updates the CloudFormation stack from a
// rendered template.
package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/pterm/pterm"
)

// Options configures a deployment.
type Options struct {
	// StackName is the CloudFormation stack name
	StackName string
	// Region overrides the region from the shared AWS config
	Region string
	// Profile selects a shared AWS config profile
	Profile string
	// TemplateBody is the rendered template JSON
	TemplateBody string
	// Timeout bounds the wait for stack completion (default 30m)
	Timeout time.Duration
}

// Deploy creates the stack if it does not exist, otherwise updates it, and
// waits for the operation to complete.
func Deploy(ctx context.Context, opts Options) error {
	if opts.StackName == "" {
		return fmt.Errorf("stack name is required")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Minute
	}

	var cfgOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		cfgOpts = append(cfgOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	client := cloudformation.NewFromConfig(cfg)

	exists, err := stackExists(ctx, client, opts.StackName)
	if err != nil {
		return err
	}

	capabilities := []types.Capability{types.CapabilityCapabilityNamedIam}

	if exists {
		pterm.Info.Println("Updating stack " + pterm.LightGreen(opts.StackName))
		_, err = client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
			StackName:    aws.String(opts.StackName),
			TemplateBody: aws.String(opts.TemplateBody),
			Capabilities: capabilities,
		})
		if err != nil {
			if strings.Contains(err.Error(), "No updates are to be performed") {
				pterm.Info.Println("No changes to deploy")
				return nil
			}
			return fmt.Errorf("updating stack: %w", err)
		}

		waiter := cloudformation.NewStackUpdateCompleteWaiter(client)
		if err := waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
			StackName: aws.String(opts.StackName),
		}, timeout); err != nil {
			return fmt.Errorf("waiting for stack update: %w", err)
		}
	} else {
		pterm.Info.Println("Creating stack " + pterm.LightGreen(opts.StackName))
		_, err = client.CreateStack(ctx, &cloudformation.CreateStackInput{
			StackName:    aws.String(opts.StackName),
			TemplateBody: aws.String(opts.TemplateBody),
			Capabilities: capabilities,
			OnFailure:    types.OnFailureRollback,
		})
		if err != nil {
			return fmt.Errorf("creating stack: %w", err)
		}

		waiter := cloudformation.NewStackCreateCompleteWaiter(client)
		if err := waiter.Wait(ctx, &cloudformation.DescribeStacksInput{
			StackName: aws.String(opts.StackName),
		}, timeout); err != nil {
			return fmt.Errorf("waiting for stack create: %w", err)
		}
	}

	pterm.Success.Println("Stack " + pterm.LightGreen(opts.StackName) + " deployed")

	return printOutputs(ctx, client, opts.StackName)
}

// stackExists reports whether the named stack is present.
// CloudFormation signals a missing stack through a ValidationError.
func stackExists(ctx context.Context, client *cloudformation.Client, name string) (bool, error) {
	_, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return false, nil
		}
		return false, fmt.Errorf("describing stack: %w", err)
	}
	return true, nil
}

// printOutputs renders the stack outputs after a successful deployment.
func printOutputs(ctx context.Context, client *cloudformation.Client, name string) error {
	out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("describing stack: %w", err)
	}
	if len(out.Stacks) == 0 || len(out.Stacks[0].Outputs) == 0 {
		return nil
	}

	var items []pterm.BulletListItem
	items = append(items, pterm.BulletListItem{Level: 0, Text: "Outputs:"})
	for _, o := range out.Stacks[0].Outputs {
		items = append(items, pterm.BulletListItem{
			Level: 1,
			Text:  fmt.Sprintf("%s = %s", aws.ToString(o.OutputKey), aws.ToString(o.OutputValue)),
		})
	}
	return pterm.DefaultBulletList.WithItems(items).Render()
}
