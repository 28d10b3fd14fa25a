package cli

import (
	"github.com/spf13/cobra"

	"github.com/jackwish/onnxcli/internal/inspect"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := inspect.Options{}

	cmd := &cobra.Command{
		Use:   "inspect <model.onnx>",
		Short: "Print the information of the given model's nodes and tensors",
		Long: `Print the information of the given model's nodes and tensors.

Without any flag an aggregate summary of the graph is printed. With
--meta, --node or --tensor the corresponding element kind is listed;
--indices or --names narrow the listing to specific elements, and
--detail additionally dumps node attributes and tensor data.`,
		Example: `  # Aggregate summary of the model
  onnxcli inspect model.onnx

  # Model metadata
  onnxcli inspect model.onnx --meta

  # Attributes of nodes 0 and 2
  onnxcli inspect model.onnx --node --indices 0,2 --detail

  # Data of the tensor named "fc1.weight"
  onnxcli inspect model.onnx --tensor --names fc1.weight --detail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins := inspect.New(cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()))
			return ins.Run(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Meta, "meta", "m", false, "print the meta information of the model")
	flags.BoolVarP(&opts.Node, "node", "n", false, "print the node information of the model")
	flags.BoolVarP(&opts.Tensor, "tensor", "t", false, "print the tensor information of the model")
	flags.IntSliceVarP(&opts.Indices, "indices", "i", nil,
		"indices of the nodes or tensors to inspect, cannot be set together with --names")
	flags.StringSliceVarP(&opts.Names, "names", "N", nil,
		"names of the nodes or tensors to inspect, cannot be set together with --indices")
	flags.BoolVarP(&opts.Detail, "detail", "d", false,
		"print detailed information of the selected nodes or tensors, including tensor data")

	return cmd
}
