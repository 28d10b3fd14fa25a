package inspect

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/jackwish/onnxcli/internal/onnx"
)

// Inspector drives one inspect invocation: validate the flags, load the
// model, then print the requested element kinds in fixed order. It
// holds no state across invocations.
type Inspector struct {
	out io.Writer
	log logrus.FieldLogger
}

// New returns an Inspector printing to out and logging to log.
func New(out io.Writer, log logrus.FieldLogger) *Inspector {
	return &Inspector{out: out, log: log}
}

// Run inspects the model at path. Selector and lookup failures abort
// the command; an integrity-check failure only logs a warning and the
// run continues with potentially unchecked data.
func (ins *Inspector) Run(path string, opts Options) error {
	sel, err := NewSelector(opts)
	if err != nil {
		return err
	}

	model, err := onnx.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load model %s: %w", path, err)
	}
	if err := onnx.Check(model); err != nil {
		ins.log.Warnf("failed to check model %s, statistics could be inaccurate: %v", path, err)
	}
	return ins.report(model, opts, sel)
}

// report prints the requested element kinds in fixed order: meta,
// nodes, tensors. When none was requested the aggregate summary is the
// fallback.
func (ins *Inspector) report(model *onnx.ModelProto, opts Options, sel Selector) error {
	g := model.Graph
	if g == nil {
		g = &onnx.GraphProto{} // check already warned about this
	}

	f := NewFormatter(ins.out)
	printedAny := false
	if opts.Meta {
		f.Meta(model)
		printedAny = true
	}
	if opts.Node {
		if err := printNodes(f, g, sel); err != nil {
			return err
		}
		printedAny = true
	}
	if opts.Tensor {
		if err := printTensors(f, g, sel); err != nil {
			return err
		}
		printedAny = true
	}
	if !printedAny {
		f.Summary(g)
	}
	return nil
}

func printNodes(f *Formatter, g *onnx.GraphProto, sel Selector) error {
	f.Header("Node information:")
	if len(sel.Indices) > 0 || len(sel.Names) > 0 {
		return printSelected(f, g, TargetNode, sel)
	}
	f.Histogram(g.Nodes)
	f.Rule()
	for _, m := range LocateAll(g, TargetNode) {
		f.Match(m, false)
	}
	return nil
}

func printTensors(f *Formatter, g *onnx.GraphProto, sel Selector) error {
	f.Header("Tensor information:")
	if len(sel.Indices) > 0 || len(sel.Names) > 0 {
		return printSelected(f, g, TargetTensor, sel)
	}
	for _, m := range LocateAll(g, TargetTensor) {
		f.Match(m, false)
	}
	return nil
}

// printSelected resolves each requested index or name in request order,
// printing matches as they are found. A failing selector late in the
// list still aborts after the earlier output has been written.
func printSelected(f *Formatter, g *onnx.GraphProto, target Target, sel Selector) error {
	if len(sel.Indices) > 0 {
		for _, idx := range sel.Indices {
			matches, err := LocateIndex(g, target, idx)
			if err != nil {
				return err
			}
			for _, m := range matches {
				f.Match(m, sel.Detail)
			}
		}
		return nil
	}
	for _, name := range sel.Names {
		m, err := LocateName(g, target, name)
		if err != nil {
			return err
		}
		f.Match(m, sel.Detail)
	}
	return nil
}
