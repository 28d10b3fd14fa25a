// Package cli wires the onnxcli command tree.
package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root onnxcli command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "onnxcli",
		Short: "Command line tools for ONNX model files",
		Long: `onnxcli inspects ONNX model files from the terminal.

When working on deep learning you often want a quick look at what is
inside a model without scrolling through a graphical viewer. onnxcli
dumps model metadata, node attributes and tensor values with a single
command.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger returns a logger writing to w, one per command invocation
// rather than a process-wide global.
func newLogger(w io.Writer) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(w)
	return log
}
