package onnx

import (
	"fmt"
	"strconv"
	"strings"
)

// DataTypeName returns the human-readable name of an ONNX element type.
func DataTypeName(t int32) string {
	switch t {
	case TensorProtoFloat:
		return "float32"
	case TensorProtoUint8:
		return "uint8"
	case TensorProtoInt8:
		return "int8"
	case TensorProtoUint16:
		return "uint16"
	case TensorProtoInt16:
		return "int16"
	case TensorProtoInt32:
		return "int32"
	case TensorProtoInt64:
		return "int64"
	case TensorProtoString:
		return "string"
	case TensorProtoBool:
		return "bool"
	case TensorProtoFloat16:
		return "float16"
	case TensorProtoDouble:
		return "float64"
	case TensorProtoUint32:
		return "uint32"
	case TensorProtoUint64:
		return "uint64"
	case TensorProtoComplex64:
		return "complex64"
	case TensorProtoComplex128:
		return "complex128"
	case TensorProtoBfloat16:
		return "bfloat16"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// ShapeString renders a tensor shape with symbolic dimensions shown as
// their parameter name, or "?" when the dimension is fully unknown.
// Example: [batch_size, 3, 224, 224].
func ShapeString(s *TensorShapeProto) string {
	if s == nil {
		return "[]"
	}
	dims := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		switch {
		case d.DimParam != "":
			dims[i] = d.DimParam
		case d.DimValue > 0:
			dims[i] = strconv.FormatInt(d.DimValue, 10)
		default:
			dims[i] = "?"
		}
	}
	return "[" + strings.Join(dims, ", ") + "]"
}

// DimsString renders concrete integer dimensions. Example: [64, 3, 7, 7].
func DimsString(dims []int64) string {
	strs := make([]string, len(dims))
	for i, d := range dims {
		strs[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

// dataTypeSize returns the byte width of an element type, or 0 when the
// width is not fixed (strings, undefined, unknown).
func dataTypeSize(t int32) int {
	switch t {
	case TensorProtoFloat, TensorProtoInt32, TensorProtoUint32:
		return 4
	case TensorProtoDouble, TensorProtoInt64, TensorProtoUint64, TensorProtoComplex64:
		return 8
	case TensorProtoFloat16, TensorProtoBfloat16, TensorProtoInt16, TensorProtoUint16:
		return 2
	case TensorProtoInt8, TensorProtoUint8, TensorProtoBool:
		return 1
	case TensorProtoComplex128:
		return 16
	default:
		return 0
	}
}
