package onnx

import (
	"strings"
	"testing"
)

func validModel() *ModelProto {
	return &ModelProto{
		IRVersion:   8,
		OpsetImport: []OperatorSetID{{Version: 17}},
		Graph: &GraphProto{
			Name: "g",
			Nodes: []NodeProto{
				{Name: "add0", OpType: "Add", Inputs: []string{"A", "B"}, Outputs: []string{"C"}},
			},
			Initializers: []TensorProto{
				{Name: "B", DataType: TensorProtoFloat, Dims: []int64{2, 2}, RawData: make([]byte, 16)},
			},
		},
	}
}

// TestCheckValidModel tests that a well-formed model passes.
func TestCheckValidModel(t *testing.T) {
	if err := Check(validModel()); err != nil {
		t.Errorf("Check failed on valid model: %v", err)
	}
}

// TestCheckMissingGraph tests rejection of a graph-less model.
func TestCheckMissingGraph(t *testing.T) {
	m := validModel()
	m.Graph = nil
	if err := Check(m); err == nil {
		t.Error("Expected error for missing graph, got nil")
	}
}

// TestCheckMissingOpset tests rejection of a model without opset imports.
func TestCheckMissingOpset(t *testing.T) {
	m := validModel()
	m.OpsetImport = nil
	if err := Check(m); err == nil {
		t.Error("Expected error for missing opset import, got nil")
	}
}

// TestCheckMissingOpType tests rejection of nodes without an op type.
func TestCheckMissingOpType(t *testing.T) {
	m := validModel()
	m.Graph.Nodes[0].OpType = ""
	if err := Check(m); err == nil {
		t.Error("Expected error for missing op type, got nil")
	}
}

// TestCheckTruncatedRawData tests the raw payload size check.
func TestCheckTruncatedRawData(t *testing.T) {
	m := validModel()
	m.Graph.Initializers[0].RawData = make([]byte, 12) // 2x2 float32 needs 16

	err := Check(m)
	if err == nil {
		t.Fatal("Expected error for truncated raw data, got nil")
	}
	if !strings.Contains(err.Error(), `"B"`) {
		t.Errorf("Error should name the initializer, got: %v", err)
	}
}

// TestCheckLegacyPayloadCount tests the typed payload element count check.
func TestCheckLegacyPayloadCount(t *testing.T) {
	m := validModel()
	m.Graph.Initializers[0].RawData = nil
	m.Graph.Initializers[0].FloatData = []float32{1, 2, 3} // needs 4

	if err := Check(m); err == nil {
		t.Error("Expected error for short float data, got nil")
	}
}

// TestCheckStringTensorSkipped tests that variable-width types skip the
// size check.
func TestCheckStringTensorSkipped(t *testing.T) {
	m := validModel()
	m.Graph.Initializers[0].DataType = TensorProtoString
	m.Graph.Initializers[0].RawData = []byte("whatever")

	if err := Check(m); err != nil {
		t.Errorf("String tensor should not be size-checked: %v", err)
	}
}
