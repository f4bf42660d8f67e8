// Copyright 2026 The Trellis Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/trellis-ml/trellis/internal/tensor"
)

// Type aliases for the public API.

// Tensor is the type-erased multidimensional array.
type Tensor = tensor.Tensor

// DataType identifies a tensor's element kind.
type DataType = tensor.DataType

// Element kind constants.
const (
	Bool    DataType = tensor.Bool
	Int8    DataType = tensor.Int8
	Int16   DataType = tensor.Int16
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Uint16  DataType = tensor.Uint16
	Uint32  DataType = tensor.Uint32
	Uint64  DataType = tensor.Uint64
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	TDim    DataType = tensor.TDim
	String  DataType = tensor.String
	Bytes   DataType = tensor.Bytes
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Layout records the size and alignment of a tensor's allocation.
type Layout = tensor.Layout

// Dim is a symbolic dimension expression, the element type of TDim
// tensors.
type Dim = tensor.Dim

// Blob is an opaque owned byte sequence, the element type of Bytes
// tensors.
type Blob = tensor.Blob

// TensorView is a non-owning window into a tensor's buffer.
type TensorView = tensor.TensorView

// Datum is the constraint enumerating the Go element types of the
// supported kinds.
type Datum = tensor.Datum

// Error classes, matched with errors.Is.
var (
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrIndexOutOfRange = tensor.ErrIndexOutOfRange
	ErrKindMismatch    = tensor.ErrKindMismatch
	ErrUnsupportedCast = tensor.ErrUnsupportedCast
	ErrParse           = tensor.ErrParse
	ErrUnresolvedDim   = tensor.ErrUnresolvedDim
	ErrRankMismatch    = tensor.ErrRankMismatch
	ErrAllocation      = tensor.ErrAllocation
)

// Construction.

// Uninitialized allocates a tensor with indeterminate contents; the
// caller must fully write it before sharing it.
func Uninitialized(dt DataType, shape Shape) (*Tensor, error) {
	return tensor.Uninitialized(dt, shape)
}

// UninitializedAligned is Uninitialized with an explicit buffer
// alignment in bytes.
func UninitializedAligned(dt DataType, shape Shape, alignment int) (*Tensor, error) {
	return tensor.UninitializedAligned(dt, shape, alignment)
}

// Zero allocates a zero-filled tensor of T's kind, which must be
// numeric.
func Zero[T Datum](shape Shape) (*Tensor, error) {
	return tensor.Zero[T](shape)
}

// ZeroDT allocates a zero-filled tensor of a numeric kind.
func ZeroDT(dt DataType, shape Shape) (*Tensor, error) {
	return tensor.ZeroDT(dt, shape)
}

// ZeroAlignedDT is ZeroDT with an explicit alignment.
func ZeroAlignedDT(dt DataType, shape Shape, alignment int) (*Tensor, error) {
	return tensor.ZeroAlignedDT(dt, shape, alignment)
}

// FromRaw copies content into a freshly allocated buffer of a
// trivially copyable kind.
func FromRaw(dt DataType, shape Shape, content []byte) (*Tensor, error) {
	return tensor.FromRaw(dt, shape, content)
}

// FromRawAligned is FromRaw with an explicit alignment.
func FromRawAligned(dt DataType, shape Shape, content []byte, alignment int) (*Tensor, error) {
	return tensor.FromRawAligned(dt, shape, content, alignment)
}

// FromSlice builds a tensor of the given shape by copying data.
func FromSlice[T Datum](data []T, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// FromScalar builds a rank-0 tensor holding v.
func FromScalar[T Datum](v T) (*Tensor, error) {
	return tensor.FromScalar(v)
}

// StackTensors concatenates same-kind tensors along an existing axis.
func StackTensors(axis int, tensors []*Tensor) (*Tensor, error) {
	return tensor.StackTensors(axis, tensors)
}

// Typed access.

// Slice exposes the flat storage as a typed slice, in place; the
// element type must match the tensor's kind.
func Slice[T Datum](t *Tensor) ([]T, error) {
	return tensor.Slice[T](t)
}

// SliceUnchecked is Slice without the kind check; the caller guarantees
// the match.
func SliceUnchecked[T Datum](t *Tensor) []T {
	return tensor.SliceUnchecked[T](t)
}

// Scalar returns the single element of a rank-0 tensor.
func Scalar[T Datum](t *Tensor) (T, error) {
	return tensor.Scalar[T](t)
}

// CastToScalar casts a rank-0 tensor to T's kind and returns its
// element.
func CastToScalar[T Datum](t *Tensor) (T, error) {
	return tensor.CastToScalar[T](t)
}

// ViewSlice exposes a view's window as a typed flat slice, in place.
func ViewSlice[T Datum](v TensorView) ([]T, error) {
	return tensor.ViewSlice[T](v)
}

// ViewSliceUnchecked is ViewSlice without the kind check.
func ViewSliceUnchecked[T Datum](v TensorView) []T {
	return tensor.ViewSliceUnchecked[T](v)
}

// At reads the element at a full multi-index within a view.
func At[T Datum](v TensorView, ix ...int) (T, error) {
	return tensor.At[T](v, ix...)
}

// SetAt writes the element at a full multi-index within a view.
func SetAt[T Datum](v TensorView, value T, ix ...int) error {
	return tensor.SetAt(v, value, ix...)
}

// Symbolic dimensions.

// MakeDim returns a concrete dimension.
func MakeDim(v int64) Dim {
	return tensor.MakeDim(v)
}

// SymDim returns a symbolic dimension named name.
func SymDim(name string) Dim {
	return tensor.SymDim(name)
}

// ParseDim parses a dimension expression.
func ParseDim(s string) (Dim, error) {
	return tensor.ParseDim(s)
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}
