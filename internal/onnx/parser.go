package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile parses an ONNX model from file.
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for ONNX model loading
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	model := &ModelProto{}
	if err := (&decoder{data: data}).modelProto(model); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return model, nil
}

// decoder implements a minimal protobuf wire format reader.
type decoder struct {
	data []byte
	pos  int
}

// Protobuf wire types.
const (
	wireVarint = 0 // int32, int64, uint32, uint64, bool, enum
	wire64Bit  = 1 // fixed64, sfixed64, double
	wireBytes  = 2 // string, bytes, embedded messages, packed repeated fields
	wire32Bit  = 5 // fixed32, sfixed32, float
)

// embedded decodes a length-delimited sub-message with fn.
func (d *decoder) embedded(fn func(*decoder) error) error {
	data, err := d.readBytes()
	if err != nil {
		return err
	}
	return fn(&decoder{data: data})
}

// fields iterates the remaining fields of the current message, calling fn
// with each field number and wire type. Unhandled fields are skipped by fn.
func (d *decoder) fields(fn func(field, wire int) error) error {
	for d.pos < len(d.data) {
		field, wire, err := d.readTag()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := fn(field, wire); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) modelProto(m *ModelProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // ir_version
			m.IRVersion, err = d.readVarint()
		case 2: // producer_name
			m.ProducerName, err = d.readString()
		case 3: // producer_version
			m.ProducerVersion, err = d.readString()
		case 4: // domain
			m.Domain, err = d.readString()
		case 5: // model_version
			m.ModelVersion, err = d.readVarint()
		case 6: // doc_string
			m.DocString, err = d.readString()
		case 7: // graph
			m.Graph = &GraphProto{}
			err = d.embedded(func(s *decoder) error { return s.graphProto(m.Graph) })
		case 8: // opset_import
			opset := OperatorSetID{}
			if err = d.embedded(func(s *decoder) error { return s.operatorSetID(&opset) }); err == nil {
				m.OpsetImport = append(m.OpsetImport, opset)
			}
		case 14: // metadata_props
			entry := StringStringEntry{}
			if err = d.embedded(func(s *decoder) error { return s.stringStringEntry(&entry) }); err == nil {
				m.MetadataProps = append(m.MetadataProps, entry)
			}
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) graphProto(m *GraphProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // node
			node := NodeProto{}
			if err = d.embedded(func(s *decoder) error { return s.nodeProto(&node) }); err == nil {
				m.Nodes = append(m.Nodes, node)
			}
		case 2: // name
			m.Name, err = d.readString()
		case 5: // initializer
			tensor := TensorProto{}
			if err = d.embedded(func(s *decoder) error { return s.tensorProto(&tensor) }); err == nil {
				m.Initializers = append(m.Initializers, tensor)
			}
		case 10: // doc_string
			m.DocString, err = d.readString()
		case 11: // input
			vi := ValueInfoProto{}
			if err = d.embedded(func(s *decoder) error { return s.valueInfoProto(&vi) }); err == nil {
				m.Inputs = append(m.Inputs, vi)
			}
		case 12: // output
			vi := ValueInfoProto{}
			if err = d.embedded(func(s *decoder) error { return s.valueInfoProto(&vi) }); err == nil {
				m.Outputs = append(m.Outputs, vi)
			}
		case 13: // value_info
			vi := ValueInfoProto{}
			if err = d.embedded(func(s *decoder) error { return s.valueInfoProto(&vi) }); err == nil {
				m.ValueInfos = append(m.ValueInfos, vi)
			}
		case 14: // quantization_annotation
			qa := TensorAnnotation{}
			if err = d.embedded(func(s *decoder) error { return s.tensorAnnotation(&qa) }); err == nil {
				m.QuantAnnotations = append(m.QuantAnnotations, qa)
			}
		case 15: // sparse_initializer
			sp := SparseTensorProto{}
			if err = d.embedded(func(s *decoder) error { return s.sparseTensorProto(&sp) }); err == nil {
				m.SparseInitializers = append(m.SparseInitializers, sp)
			}
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) nodeProto(m *NodeProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // input
			var s string
			if s, err = d.readString(); err == nil {
				m.Inputs = append(m.Inputs, s)
			}
		case 2: // output
			var s string
			if s, err = d.readString(); err == nil {
				m.Outputs = append(m.Outputs, s)
			}
		case 3: // name
			m.Name, err = d.readString()
		case 4: // op_type
			m.OpType, err = d.readString()
		case 5: // attribute
			attr := AttributeProto{}
			if err = d.embedded(func(s *decoder) error { return s.attributeProto(&attr) }); err == nil {
				m.Attributes = append(m.Attributes, attr)
			}
		case 6: // doc_string
			m.DocString, err = d.readString()
		case 7: // domain
			m.Domain, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) tensorProto(m *TensorProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // dims (repeated int64, packed or not)
			if wire == wireBytes {
				var vs []int64
				if vs, err = d.readPackedVarints(); err == nil {
					m.Dims = append(m.Dims, vs...)
				}
				return err
			}
			var v int64
			if v, err = d.readVarint(); err == nil {
				m.Dims = append(m.Dims, v)
			}
		case 2: // data_type
			m.DataType, err = d.readInt32()
		case 4: // float_data (packed)
			var vs []float32
			if vs, err = d.readPackedFloats(); err == nil {
				m.FloatData = append(m.FloatData, vs...)
			}
		case 5: // int32_data (packed)
			var vs []int64
			if vs, err = d.readPackedVarints(); err == nil {
				for _, v := range vs {
					m.Int32Data = append(m.Int32Data, int32(v)) //nolint:gosec // G115: ONNX protobuf varint fits in int32.
				}
			}
		case 7: // int64_data (packed)
			var vs []int64
			if vs, err = d.readPackedVarints(); err == nil {
				m.Int64Data = append(m.Int64Data, vs...)
			}
		case 8: // name
			m.Name, err = d.readString()
		case 9: // raw_data
			m.RawData, err = d.readBytes()
		case 10: // double_data (packed)
			var vs []float64
			if vs, err = d.readPackedDoubles(); err == nil {
				m.DoubleData = append(m.DoubleData, vs...)
			}
		case 12: // doc_string
			m.DocString, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) sparseTensorProto(m *SparseTensorProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 3: // dims (repeated int64, packed or not)
			if wire == wireBytes {
				var vs []int64
				if vs, err = d.readPackedVarints(); err == nil {
					m.Dims = append(m.Dims, vs...)
				}
				return err
			}
			var v int64
			if v, err = d.readVarint(); err == nil {
				m.Dims = append(m.Dims, v)
			}
		default: // values and indices are not inspected
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) tensorAnnotation(m *TensorAnnotation) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // tensor_name
			m.TensorName, err = d.readString()
		case 2: // quant_parameter_tensor_names
			entry := StringStringEntry{}
			if err = d.embedded(func(s *decoder) error { return s.stringStringEntry(&entry) }); err == nil {
				m.QuantParams = append(m.QuantParams, entry)
			}
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) valueInfoProto(m *ValueInfoProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // name
			m.Name, err = d.readString()
		case 2: // type
			m.Type = &TypeProto{}
			err = d.embedded(func(s *decoder) error { return s.typeProto(m.Type) })
		case 3: // doc_string
			m.DocString, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) typeProto(m *TypeProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // tensor_type
			m.TensorType = &TensorTypeProto{}
			err = d.embedded(func(s *decoder) error { return s.tensorTypeProto(m.TensorType) })
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) tensorTypeProto(m *TensorTypeProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // elem_type
			m.ElemType, err = d.readInt32()
		case 2: // shape
			m.Shape = &TensorShapeProto{}
			err = d.embedded(func(s *decoder) error { return s.tensorShapeProto(m.Shape) })
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) tensorShapeProto(m *TensorShapeProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // dim
			dim := DimensionProto{}
			if err = d.embedded(func(s *decoder) error { return s.dimensionProto(&dim) }); err == nil {
				m.Dims = append(m.Dims, dim)
			}
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) dimensionProto(m *DimensionProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // dim_value
			m.DimValue, err = d.readVarint()
		case 2: // dim_param
			m.DimParam, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) attributeProto(m *AttributeProto) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // name
			m.Name, err = d.readString()
		case 2: // f (float)
			m.F, err = d.readFloat32()
		case 3: // i (int)
			m.I, err = d.readVarint()
		case 4: // s (bytes)
			m.S, err = d.readBytes()
		case 5: // t (tensor)
			m.T = &TensorProto{}
			err = d.embedded(func(s *decoder) error { return s.tensorProto(m.T) })
		case 7: // floats (packed)
			var vs []float32
			if vs, err = d.readPackedFloats(); err == nil {
				m.Floats = append(m.Floats, vs...)
			}
		case 8: // ints (packed)
			var vs []int64
			if vs, err = d.readPackedVarints(); err == nil {
				m.Ints = append(m.Ints, vs...)
			}
		case 9: // strings
			var b []byte
			if b, err = d.readBytes(); err == nil {
				m.Strings = append(m.Strings, b)
			}
		case 13: // doc_string
			m.DocString, err = d.readString()
		case 20: // type
			m.Type, err = d.readInt32()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) operatorSetID(m *OperatorSetID) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // domain
			m.Domain, err = d.readString()
		case 2: // version
			m.Version, err = d.readVarint()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

func (d *decoder) stringStringEntry(m *StringStringEntry) error {
	return d.fields(func(field, wire int) (err error) {
		switch field {
		case 1: // key
			m.Key, err = d.readString()
		case 2: // value
			m.Value, err = d.readString()
		default:
			err = d.skipField(wire)
		}
		return err
	})
}

// readTag reads a protobuf field tag.
func (d *decoder) readTag() (field, wire int, err error) {
	if d.pos >= len(d.data) {
		return 0, 0, io.EOF
	}
	tag, err := d.readVarint()
	if err != nil {
		return 0, 0, err
	}
	field = int(tag >> 3)
	wire = int(tag & 0x7)
	return field, wire, nil
}

// readVarint reads a varint-encoded int64.
func (d *decoder) readVarint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if d.pos >= len(d.data) {
			return 0, io.EOF
		}
		b := d.data[d.pos]
		d.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
	return int64(result), nil //nolint:gosec // G115: Protobuf varint fits in int64.
}

// readInt32 reads a varint-encoded int32.
func (d *decoder) readInt32() (int32, error) {
	v, err := d.readVarint()
	if err != nil {
		return 0, err
	}
	return int32(v), nil //nolint:gosec // G115: ONNX protobuf varint fits in int32.
}

// readBytes reads a length-delimited byte slice.
func (d *decoder) readBytes() ([]byte, error) {
	length, err := d.readVarint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := d.pos + int(length)
	if end > len(d.data) {
		return nil, io.ErrUnexpectedEOF
	}
	result := d.data[d.pos:end]
	d.pos = end
	return result, nil
}

// readString reads a length-delimited string.
func (d *decoder) readString() (string, error) {
	b, err := d.readBytes()
	return string(b), err
}

// readFloat32 reads a 32-bit float.
func (d *decoder) readFloat32() (float32, error) {
	if d.pos+4 > len(d.data) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return math.Float32frombits(bits), nil
}

// readPackedVarints reads a packed repeated varint field.
func (d *decoder) readPackedVarints() ([]int64, error) {
	data, err := d.readBytes()
	if err != nil {
		return nil, err
	}
	sub := &decoder{data: data}
	var vs []int64
	for sub.pos < len(sub.data) {
		v, err := sub.readVarint()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// readPackedFloats reads a packed repeated float field.
func (d *decoder) readPackedFloats() ([]float32, error) {
	data, err := d.readBytes()
	if err != nil {
		return nil, err
	}
	vs := make([]float32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		vs = append(vs, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
	}
	return vs, nil
}

// readPackedDoubles reads a packed repeated double field.
func (d *decoder) readPackedDoubles() ([]float64, error) {
	data, err := d.readBytes()
	if err != nil {
		return nil, err
	}
	vs := make([]float64, 0, len(data)/8)
	for i := 0; i+8 <= len(data); i += 8 {
		vs = append(vs, math.Float64frombits(binary.LittleEndian.Uint64(data[i:])))
	}
	return vs, nil
}

// skipField skips a field based on wire type.
func (d *decoder) skipField(wire int) error {
	switch wire {
	case wireVarint:
		_, err := d.readVarint()
		return err
	case wire64Bit:
		if d.pos+8 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 8
		return nil
	case wireBytes:
		_, err := d.readBytes()
		return err
	case wire32Bit:
		if d.pos+4 > len(d.data) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wire)
	}
}
