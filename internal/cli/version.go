package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v0.4.0-dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the onnxcli version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "onnxcli %s\n", version)
		},
	}
}
