// Command flagr-infra generates and deploys the CloudFormation template for
// the Flagr deployment stack.
//
// Usage:
//
//	flagr-infra build                 Generate CloudFormation template
//	flagr-infra lint                  Check declarations for issues
//	flagr-infra deploy -s my-stack    Deploy via CloudFormation
//	flagr-infra version               Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flagr-infra",
		Short: "Generate the Flagr deployment CloudFormation template",
		Long: `flagr-infra generates a CloudFormation template from the Go resource
declarations in the stack package.

The topology is declared as native Go struct vars:

    var Vpc = ec2.VPC{
        CidrBlock: "10.0.0.0/16",
    }

Then generate CloudFormation JSON:

    flagr-infra build`,
	}

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newListCmd(),
		newLintCmd(),
		newGraphCmd(),
		newWatchCmd(),
		newDeployCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("flagr-infra %s\n", getVersion())
		},
	}
}

// stackPackages returns the source packages to scan. The stack package is
// compiled into the binary, but discovery reads the source to recover
// logical names and reference sites.
func stackPackages(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{"./stack"}
}
