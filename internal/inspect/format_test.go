package inspect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackwish/onnxcli/internal/onnx"
)

func TestFormatNodeLine(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Node(&onnx.NodeProto{
		Name:    "conv0",
		OpType:  "Conv",
		Inputs:  []string{"X", "W"},
		Outputs: []string{"C"},
	}, false)

	assert.Equal(t, "  Node \"conv0\": type \"Conv\", inputs [\"X\", \"W\"], outputs [\"C\"]\n", buf.String())
}

func TestFormatNodeDetailSkipsWithoutAttributes(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Node(&onnx.NodeProto{Name: "relu0", OpType: "Relu"}, true)

	assert.NotContains(t, buf.String(), "attributes:")
}

func TestFormatAttributeKinds(t *testing.T) {
	tests := []struct {
		name string
		attr onnx.AttributeProto
		want string
	}{
		{
			name: "float",
			attr: onnx.AttributeProto{Name: "alpha", Type: onnx.AttributeProtoFloat, F: 0.5},
			want: "alpha = 0.5",
		},
		{
			name: "int",
			attr: onnx.AttributeProto{Name: "axis", Type: onnx.AttributeProtoInt, I: -1},
			want: "axis = -1",
		},
		{
			name: "string",
			attr: onnx.AttributeProto{Name: "auto_pad", Type: onnx.AttributeProtoString, S: []byte("VALID")},
			want: `auto_pad = "VALID"`,
		},
		{
			name: "ints",
			attr: onnx.AttributeProto{Name: "kernel_shape", Type: onnx.AttributeProtoInts, Ints: []int64{3, 3}},
			want: "kernel_shape = [3 3]",
		},
		{
			name: "floats",
			attr: onnx.AttributeProto{Name: "scales", Type: onnx.AttributeProtoFloats, Floats: []float32{1, 2}},
			want: "scales = [1 2]",
		},
		{
			name: "strings",
			attr: onnx.AttributeProto{
				Name: "names", Type: onnx.AttributeProtoStrings,
				Strings: [][]byte{[]byte("a"), []byte("b")},
			},
			want: `names = ["a", "b"]`,
		},
		{
			name: "tensor",
			attr: onnx.AttributeProto{
				Name: "value", Type: onnx.AttributeProtoTensor,
				T: &onnx.TensorProto{Name: "t", DataType: onnx.TensorProtoFloat, Dims: []int64{2}},
			},
			want: `value = tensor "t" type float32, dims [2]`,
		},
		{
			name: "unsupported",
			attr: onnx.AttributeProto{Name: "sub", Type: onnx.AttributeProtoGraph},
			want: "sub = <unsupported attribute type 5>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attributeString(&tt.attr))
		})
	}
}

func TestFormatNodeDetailAttributes(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Node(&onnx.NodeProto{
		Name: "conv0", OpType: "Conv",
		Attributes: []onnx.AttributeProto{
			{Name: "kernel_shape", Type: onnx.AttributeProtoInts, Ints: []int64{3, 3}},
			{Name: "auto_pad", Type: onnx.AttributeProtoString, S: []byte("VALID")},
		},
	}, true)

	want := "  Node \"conv0\": type \"Conv\", inputs [], outputs []\n" +
		"    attributes:\n" +
		"      kernel_shape = [3 3]\n" +
		"      auto_pad = \"VALID\"\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatValueInfo(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.ValueInfo(&onnx.ValueInfoProto{
		Name: "C",
		Type: &onnx.TypeProto{TensorType: &onnx.TensorTypeProto{
			ElemType: onnx.TensorProtoFloat,
			Shape: &onnx.TensorShapeProto{Dims: []onnx.DimensionProto{
				{DimParam: "batch"},
				{DimValue: 3},
			}},
		}},
	})

	assert.Equal(t, "  ValueInfo \"C\": type float32, shape [batch, 3]\n", buf.String())
}

func TestFormatValueInfoMissingType(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.ValueInfo(&onnx.ValueInfoProto{Name: "C"})

	assert.Equal(t, "  ValueInfo \"C\": type unknown(0), shape []\n", buf.String())
}

func TestFormatInitializer(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Initializer(&onnx.TensorProto{
		Name:     "W",
		DataType: onnx.TensorProtoFloat,
		Dims:     []int64{2},
		RawData:  []byte{0x00, 0x00, 0xc0, 0x3f, 0x00, 0x00, 0x20, 0x40}, // 1.5, 2.5
	}, false)

	assert.Equal(t, "  Initializer \"W\": type float32, dims [2]\n", buf.String())
}

func TestFormatInitializerDetail(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Initializer(&onnx.TensorProto{
		Name:     "W",
		DataType: onnx.TensorProtoFloat,
		Dims:     []int64{2},
		RawData:  []byte{0x00, 0x00, 0xc0, 0x3f, 0x00, 0x00, 0x20, 0x40}, // 1.5, 2.5
	}, true)

	want := "  Initializer \"W\": type float32, dims [2]\n" +
		"    data: [1.5 2.5]\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatInitializerDetailFloat16(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Initializer(&onnx.TensorProto{
		Name:     "h",
		DataType: onnx.TensorProtoFloat16,
		Dims:     []int64{2},
		RawData:  []byte{0x00, 0x3c, 0x00, 0x40}, // 1.0, 2.0 as IEEE half
	}, true)

	assert.Contains(t, buf.String(), "data: [1 2]")
}

func TestFormatInitializerDetailLegacyData(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Initializer(&onnx.TensorProto{
		Name:      "idx",
		DataType:  onnx.TensorProtoInt64,
		Dims:      []int64{3},
		Int64Data: []int64{7, 8, 9},
	}, true)

	assert.Contains(t, buf.String(), "data: [7 8 9]")
}

func TestFormatMeta(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Meta(&onnx.ModelProto{
		IRVersion:       8,
		OpsetImport:     []onnx.OperatorSetID{{Version: 17}},
		ProducerName:    "pytorch",
		ProducerVersion: "2.1.0",
		DocString:       "test model",
		MetadataProps:   []onnx.StringStringEntry{{Key: "author", Value: "onnxcli"}},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Meta information:", lines[0])
	assert.Equal(t, strings.Repeat("-", 80), lines[1])
	assert.Equal(t, "  IR Version: 8", lines[2])
	assert.Equal(t, "  Opset Import: [ai.onnx:17]", lines[3])
	assert.Equal(t, "  Producer name: pytorch", lines[4])
	assert.Equal(t, "  Producer version: 2.1.0", lines[5])
	assert.Equal(t, "  Domain: ", lines[6])
	assert.Equal(t, "  Doc string: test model", lines[7])
	assert.Equal(t, "  meta.author = onnxcli", lines[8])
}

func TestFormatSummaryEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Summary(&onnx.GraphProto{})

	want := "  Graph name: 0\n" +
		"  Graph inputs: 0\n" +
		"  Graph outputs: 0\n" +
		"  Nodes in total: 0\n" +
		"  ValueInfo in total: 0\n" +
		"  Initializers in total: 0\n" +
		"  Sparse Initializers in total: 0\n" +
		"  Quantization in total: 0\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatSummaryAlwaysEightLines(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Summary(testGraph())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "  Graph name: 10", lines[0]) // len("test_graph")
	assert.Equal(t, "  Nodes in total: 2", lines[3])
	assert.Equal(t, "  Initializers in total: 2", lines[5])
}

func TestFormatHistogramOrder(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Histogram([]onnx.NodeProto{
		{OpType: "Conv"}, {OpType: "Relu"}, {OpType: "Conv"},
	})

	want := "  Node type \"Conv\" has: 2\n" +
		"  Node type \"Relu\" has: 1\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatHistogramTiesKeepEncounterOrder(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.Histogram([]onnx.NodeProto{
		{OpType: "Mul"}, {OpType: "Add"}, {OpType: "Mul"}, {OpType: "Add"}, {OpType: "Neg"},
	})

	want := "  Node type \"Mul\" has: 2\n" +
		"  Node type \"Add\" has: 2\n" +
		"  Node type \"Neg\" has: 1\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatIdempotent(t *testing.T) {
	node := &onnx.NodeProto{
		Name: "conv0", OpType: "Conv", Inputs: []string{"X"}, Outputs: []string{"Y"},
		Attributes: []onnx.AttributeProto{
			{Name: "alpha", Type: onnx.AttributeProtoFloat, F: 0.5},
		},
	}

	var first, second bytes.Buffer
	NewFormatter(&first).Node(node, true)
	NewFormatter(&second).Node(node, true)
	assert.Equal(t, first.Bytes(), second.Bytes())

	init := &testGraph().Initializers[0]
	first.Reset()
	second.Reset()
	NewFormatter(&first).Initializer(init, true)
	NewFormatter(&second).Initializer(init, true)
	assert.Equal(t, first.Bytes(), second.Bytes())
}
