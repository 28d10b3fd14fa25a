package onnx

import (
	"errors"
	"fmt"
)

// Check performs structural validation of a parsed model, standing in
// for the reference onnx.checker: the graph must be present, every node
// needs an operation type, and initializer payloads must match their
// declared shape and element type. Callers decide whether a failure is
// fatal; the inspector downgrades it to a warning.
func Check(m *ModelProto) error {
	if m.Graph == nil {
		return errors.New("model has no graph")
	}
	if len(m.OpsetImport) == 0 {
		return errors.New("model has no opset import")
	}
	for i := range m.Graph.Nodes {
		if m.Graph.Nodes[i].OpType == "" {
			return fmt.Errorf("node %d has no op type", i)
		}
	}
	for i := range m.Graph.Initializers {
		if err := checkInitializer(&m.Graph.Initializers[i]); err != nil {
			return fmt.Errorf("initializer %d (%q): %w", i, m.Graph.Initializers[i].Name, err)
		}
	}
	return nil
}

// checkInitializer verifies that the stored payload is consistent with
// the declared dims and data type.
func checkInitializer(t *TensorProto) error {
	elemSize := dataTypeSize(t.DataType)
	if elemSize == 0 {
		return nil // variable-width or unknown type, nothing to verify
	}
	numel := int64(1)
	for _, d := range t.Dims {
		if d < 0 {
			return fmt.Errorf("negative dimension %d", d)
		}
		numel *= d
	}

	if len(t.RawData) > 0 {
		if want := numel * int64(elemSize); int64(len(t.RawData)) != want {
			return fmt.Errorf("raw data is %d bytes, want %d", len(t.RawData), want)
		}
		return nil
	}

	var stored int64
	switch {
	case len(t.FloatData) > 0:
		stored = int64(len(t.FloatData))
	case len(t.DoubleData) > 0:
		stored = int64(len(t.DoubleData))
	case len(t.Int32Data) > 0:
		stored = int64(len(t.Int32Data))
	case len(t.Int64Data) > 0:
		stored = int64(len(t.Int64Data))
	default:
		return nil // empty payload is legal (e.g., external data)
	}
	if stored != numel {
		return fmt.Errorf("payload has %d elements, want %d", stored, numel)
	}
	return nil
}
