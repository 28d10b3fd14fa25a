package inspect

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/jackwish/onnxcli/internal/onnx"
)

// Formatter renders graph elements as fixed-shape text. Field order per
// element kind never changes, keeping the output greppable and diffable.
// Rendering is pure: the same element always produces identical bytes.
type Formatter struct {
	w io.Writer
}

// NewFormatter returns a Formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Header prints a section title followed by a horizontal rule.
func (f *Formatter) Header(title string) {
	fmt.Fprintln(f.w, title)
	f.Rule()
}

// Rule prints the 80-dash separator line.
func (f *Formatter) Rule() {
	fmt.Fprintln(f.w, strings.Repeat("-", 80))
}

// Match renders a located element according to its collection kind.
func (f *Formatter) Match(m Match, detail bool) {
	switch m.Kind {
	case KindNode:
		f.Node(m.Node, detail)
	case KindInitializer:
		f.Initializer(m.Initializer, detail)
	default:
		f.ValueInfo(m.ValueInfo)
	}
}

// Node renders one node line: name, operation type, inputs, outputs. In
// detail mode the attributes follow, one indented line per attribute.
func (f *Formatter) Node(n *onnx.NodeProto, detail bool) {
	fmt.Fprintf(f.w, "  Node %q: type %q, inputs %s, outputs %s\n",
		n.Name, n.OpType, nameList(n.Inputs), nameList(n.Outputs))
	if detail && len(n.Attributes) > 0 {
		fmt.Fprintln(f.w, "    attributes:")
		for i := range n.Attributes {
			fmt.Fprintf(f.w, "      %s\n", attributeString(&n.Attributes[i]))
		}
	}
}

// ValueInfo renders one tensor-slot line: name, element type, shape.
// Inputs, outputs and intermediate value-infos share this form.
func (f *Formatter) ValueInfo(vi *onnx.ValueInfoProto) {
	var elem int32
	var shape *onnx.TensorShapeProto
	if vi.Type != nil && vi.Type.TensorType != nil {
		elem = vi.Type.TensorType.ElemType
		shape = vi.Type.TensorType.Shape
	}
	fmt.Fprintf(f.w, "  ValueInfo %q: type %s, shape %s\n",
		vi.Name, onnx.DataTypeName(elem), onnx.ShapeString(shape))
}

// Initializer renders one initializer line: name, element type, dims.
// Initializers carry concrete dims, so no symbolic shape rendering. In
// detail mode the raw numeric payload follows.
func (f *Formatter) Initializer(t *onnx.TensorProto, detail bool) {
	fmt.Fprintf(f.w, "  Initializer %q: type %s, dims %s\n",
		t.Name, onnx.DataTypeName(t.DataType), onnx.DimsString(t.Dims))
	if detail {
		fmt.Fprintf(f.w, "    data: %s\n", tensorDataString(t))
	}
}

// Meta renders the model's meta block: a fixed sequence of labeled
// lines, then one line per metadata key-value pair.
func (f *Formatter) Meta(m *onnx.ModelProto) {
	f.Header("Meta information:")
	fmt.Fprintf(f.w, "  IR Version: %d\n", m.IRVersion)
	fmt.Fprintf(f.w, "  Opset Import: %s\n", opsetString(m.OpsetImport))
	fmt.Fprintf(f.w, "  Producer name: %s\n", m.ProducerName)
	fmt.Fprintf(f.w, "  Producer version: %s\n", m.ProducerVersion)
	fmt.Fprintf(f.w, "  Domain: %s\n", m.Domain)
	fmt.Fprintf(f.w, "  Doc string: %s\n", m.DocString)
	for _, p := range m.MetadataProps {
		fmt.Fprintf(f.w, "  meta.%s = %s\n", p.Key, p.Value)
	}
}

// Summary renders the aggregate counts, always exactly eight lines.
func (f *Formatter) Summary(g *onnx.GraphProto) {
	fmt.Fprintf(f.w, "  Graph name: %d\n", len(g.Name))
	fmt.Fprintf(f.w, "  Graph inputs: %d\n", len(g.Inputs))
	fmt.Fprintf(f.w, "  Graph outputs: %d\n", len(g.Outputs))
	fmt.Fprintf(f.w, "  Nodes in total: %d\n", len(g.Nodes))
	fmt.Fprintf(f.w, "  ValueInfo in total: %d\n", len(g.ValueInfos))
	fmt.Fprintf(f.w, "  Initializers in total: %d\n", len(g.Initializers))
	fmt.Fprintf(f.w, "  Sparse Initializers in total: %d\n", len(g.SparseInitializers))
	fmt.Fprintf(f.w, "  Quantization in total: %d\n", len(g.QuantAnnotations))
}

// Histogram renders operation-type counts in descending order, ties
// broken by first encounter.
func (f *Formatter) Histogram(nodes []onnx.NodeProto) {
	type opCount struct {
		op string
		n  int
	}
	seen := make(map[string]int)
	var counts []opCount
	for i := range nodes {
		op := nodes[i].OpType
		if j, ok := seen[op]; ok {
			counts[j].n++
		} else {
			seen[op] = len(counts)
			counts = append(counts, opCount{op: op, n: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].n > counts[j].n })
	for _, c := range counts {
		fmt.Fprintf(f.w, "  Node type %q has: %d\n", c.op, c.n)
	}
}

// nameList renders tensor names as a quoted list: ["X", "W"].
func nameList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// opsetString renders opset imports as [domain:version, ...], with the
// default (empty) domain shown as ai.onnx.
func opsetString(opsets []onnx.OperatorSetID) string {
	strs := make([]string, len(opsets))
	for i, o := range opsets {
		domain := o.Domain
		if domain == "" {
			domain = "ai.onnx"
		}
		strs[i] = fmt.Sprintf("%s:%d", domain, o.Version)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

// attributeString renders one attribute per its value kind.
func attributeString(a *onnx.AttributeProto) string {
	switch a.Type {
	case onnx.AttributeProtoFloat:
		return fmt.Sprintf("%s = %v", a.Name, a.F)
	case onnx.AttributeProtoInt:
		return fmt.Sprintf("%s = %d", a.Name, a.I)
	case onnx.AttributeProtoString:
		return fmt.Sprintf("%s = %q", a.Name, string(a.S))
	case onnx.AttributeProtoTensor:
		if a.T == nil {
			return fmt.Sprintf("%s = tensor <nil>", a.Name)
		}
		return fmt.Sprintf("%s = tensor %q type %s, dims %s",
			a.Name, a.T.Name, onnx.DataTypeName(a.T.DataType), onnx.DimsString(a.T.Dims))
	case onnx.AttributeProtoFloats:
		return fmt.Sprintf("%s = %v", a.Name, a.Floats)
	case onnx.AttributeProtoInts:
		return fmt.Sprintf("%s = %v", a.Name, a.Ints)
	case onnx.AttributeProtoStrings:
		strs := make([]string, len(a.Strings))
		for i, s := range a.Strings {
			strs[i] = strconv.Quote(string(s))
		}
		return fmt.Sprintf("%s = [%s]", a.Name, strings.Join(strs, ", "))
	default:
		return fmt.Sprintf("%s = <unsupported attribute type %d>", a.Name, a.Type)
	}
}

// tensorDataString decodes an initializer payload for detail mode. Raw
// little-endian data takes priority; the legacy typed fields follow.
func tensorDataString(t *onnx.TensorProto) string {
	if len(t.RawData) > 0 {
		return rawDataString(t.DataType, t.RawData)
	}
	switch {
	case len(t.FloatData) > 0:
		return fmt.Sprintf("%v", t.FloatData)
	case len(t.DoubleData) > 0:
		return fmt.Sprintf("%v", t.DoubleData)
	case len(t.Int32Data) > 0:
		return fmt.Sprintf("%v", t.Int32Data)
	case len(t.Int64Data) > 0:
		return fmt.Sprintf("%v", t.Int64Data)
	default:
		return "[]"
	}
}

//nolint:gocyclo,cyclop // One decode arm per ONNX element type.
func rawDataString(dataType int32, raw []byte) string {
	switch dataType {
	case onnx.TensorProtoFloat:
		vs := make([]float32, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			vs = append(vs, math.Float32frombits(binary.LittleEndian.Uint32(raw[i:])))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoDouble:
		vs := make([]float64, 0, len(raw)/8)
		for i := 0; i+8 <= len(raw); i += 8 {
			vs = append(vs, math.Float64frombits(binary.LittleEndian.Uint64(raw[i:])))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoFloat16:
		vs := make([]float32, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			vs = append(vs, float16.Frombits(binary.LittleEndian.Uint16(raw[i:])).Float32())
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoBfloat16:
		vs := make([]float32, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			vs = append(vs, math.Float32frombits(uint32(binary.LittleEndian.Uint16(raw[i:]))<<16))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoInt64:
		vs := make([]int64, 0, len(raw)/8)
		for i := 0; i+8 <= len(raw); i += 8 {
			vs = append(vs, int64(binary.LittleEndian.Uint64(raw[i:]))) //nolint:gosec // G115: Reinterpreting stored bits.
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoUint64:
		vs := make([]uint64, 0, len(raw)/8)
		for i := 0; i+8 <= len(raw); i += 8 {
			vs = append(vs, binary.LittleEndian.Uint64(raw[i:]))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoInt32:
		vs := make([]int32, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			vs = append(vs, int32(binary.LittleEndian.Uint32(raw[i:]))) //nolint:gosec // G115: Reinterpreting stored bits.
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoUint32:
		vs := make([]uint32, 0, len(raw)/4)
		for i := 0; i+4 <= len(raw); i += 4 {
			vs = append(vs, binary.LittleEndian.Uint32(raw[i:]))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoInt16:
		vs := make([]int16, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			vs = append(vs, int16(binary.LittleEndian.Uint16(raw[i:]))) //nolint:gosec // G115: Reinterpreting stored bits.
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoUint16:
		vs := make([]uint16, 0, len(raw)/2)
		for i := 0; i+2 <= len(raw); i += 2 {
			vs = append(vs, binary.LittleEndian.Uint16(raw[i:]))
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoInt8:
		vs := make([]int8, len(raw))
		for i, b := range raw {
			vs[i] = int8(b) //nolint:gosec // G115: Reinterpreting stored bits.
		}
		return fmt.Sprintf("%v", vs)
	case onnx.TensorProtoUint8:
		return fmt.Sprintf("%v", raw)
	case onnx.TensorProtoBool:
		vs := make([]bool, len(raw))
		for i, b := range raw {
			vs[i] = b != 0
		}
		return fmt.Sprintf("%v", vs)
	default:
		return fmt.Sprintf("<%d raw bytes>", len(raw))
	}
}
