// Copyright 2026 The Trellis Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor is the public API for the trellis tensor core: a
// dynamically-typed, shape-aware multidimensional array used as the
// value type of the graph runtime.
//
// One non-generic Tensor handle carries any of the fifteen supported
// element kinds behind a runtime DataType tag. Pipelines stay
// type-erased at their boundaries; when the kind is known, the generic
// accessors expose the flat storage as a typed slice with zero copies:
//
//	t, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	data, _ := tensor.Slice[float32](t) // in-place typed access
//	tr, _ := t.PermuteAxes([]int{1, 0}) // copying [3,2] transpose
//
// Trivially copyable kinds (bool, integers, floats) live in a flat
// aligned byte buffer. TDim, String and Bytes elements own heap data
// and are stored as native Go slices; the distinction is invisible to
// callers.
//
// Every fallible operation returns an error wrapping one of the
// package's sentinel error classes (ErrShapeMismatch, ErrKindMismatch,
// ...); Unchecked variants skip the checks and leave the preconditions
// to the caller.
package tensor
