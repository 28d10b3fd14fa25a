// Package onnx implements a minimal, dependency-free reader for ONNX
// model files.
//
// The package hand-decodes the protobuf wire format of the ONNX message
// types the inspector needs (ModelProto, GraphProto, NodeProto,
// TensorProto, ValueInfoProto and friends) instead of relying on
// generated bindings. Unknown fields are skipped, so models produced by
// newer ONNX releases still parse.
//
// It also carries the shared rendering helpers for element data types
// and tensor shapes, plus a structural integrity check standing in for
// onnx.checker.
package onnx
