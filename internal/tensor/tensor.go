package tensor

import (
	"bytes"
	"fmt"
	"strings"
	"unsafe"

	"github.com/x448/float16"
)

// Tensor is the type-erased multidimensional array. One buffer,
// exclusively owned, carries elements of the kind named by dt; shape
// and strides describe the row-major layout in elements.
//
// Trivially copyable kinds live in a flat aligned byte buffer that
// typed accessors reinterpret in place. TDim, String and Bytes elements
// own heap data, so they are stored in native Go slices instead and are
// never reinterpreted as raw bytes; the external contract (layout
// facts, deep clone, typed access) is the same either way.
type Tensor struct {
	dt      DataType
	shape   Shape
	strides []int
	layout  Layout
	data    []byte   // trivially copyable kinds
	strs    []string // String
	dims    []Dim    // TDim
	blobs   []Blob   // Bytes
}

// Uninitialized allocates a tensor of the given kind and shape with
// indeterminate element values. It is a staging step for bulk-fill
// construction: callers must fully write the buffer before exposing the
// tensor.
func Uninitialized(dt DataType, shape Shape) (*Tensor, error) {
	return UninitializedAligned(dt, shape, dt.Alignment())
}

// UninitializedAligned is Uninitialized with an explicit buffer
// alignment in bytes.
func UninitializedAligned(dt DataType, shape Shape, alignment int) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if err := checkAlign(alignment); err != nil {
		return nil, err
	}
	n := shape.NumElements()
	t := &Tensor{
		dt:      dt,
		shape:   shape.Clone(),
		strides: naturalStrides(shape),
		layout:  Layout{Size: n * dt.Size(), Align: alignment},
	}
	switch dt {
	case String:
		t.strs = make([]string, n)
	case TDim:
		t.dims = make([]Dim, n)
	case Bytes:
		t.blobs = make([]Blob, n)
	default:
		buf, err := alignedBytes(n*dt.Size(), alignment)
		if err != nil {
			return nil, err
		}
		t.data = buf
	}
	return t, nil
}

// Zero allocates a tensor of a numeric kind filled with zeros.
func Zero[T Datum](shape Shape) (*Tensor, error) {
	// Storage comes back zeroed from the allocator.
	return ZeroDT(datumTypeOf[T](), shape)
}

// ZeroDT allocates a zero-filled tensor of a numeric kind.
func ZeroDT(dt DataType, shape Shape) (*Tensor, error) {
	return ZeroAlignedDT(dt, shape, dt.Alignment())
}

// ZeroAlignedDT is ZeroDT with an explicit alignment.
func ZeroAlignedDT(dt DataType, shape Shape, alignment int) (*Tensor, error) {
	if !dt.IsNumber() {
		return nil, errorf(ErrKindMismatch, "zero tensor requires a numeric kind, got %s", dt)
	}
	return UninitializedAligned(dt, shape, alignment)
}

// FromRaw builds a tensor by copying content into a freshly allocated
// buffer with the kind's natural alignment.
func FromRaw(dt DataType, shape Shape, content []byte) (*Tensor, error) {
	return FromRawAligned(dt, shape, content, dt.Alignment())
}

// FromRawAligned is FromRaw with an explicit alignment.
func FromRawAligned(dt DataType, shape Shape, content []byte, alignment int) (*Tensor, error) {
	if !dt.IsCopy() {
		return nil, errorf(ErrKindMismatch, "cannot build %s tensor from raw bytes", dt)
	}
	if want := shape.NumElements() * dt.Size(); len(content) != want {
		return nil, errorf(ErrShapeMismatch, "raw content is %d bytes, shape %v of %s needs %d",
			len(content), shape, dt, want)
	}
	t, err := UninitializedAligned(dt, shape, alignment)
	if err != nil {
		return nil, err
	}
	copy(t.data, content)
	return t, nil
}

// FromSlice builds a 1-D-or-reshaped tensor by copying data.
func FromSlice[T Datum](data []T, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, errorf(ErrShapeMismatch, "%d elements cannot fill shape %v", len(data), shape)
	}
	t, err := Uninitialized(datumTypeOf[T](), shape)
	if err != nil {
		return nil, err
	}
	dst := SliceUnchecked[T](t)
	copy(dst, data)
	if t.dt == Bytes {
		for i, b := range t.blobs {
			t.blobs[i] = append(Blob(nil), b...)
		}
	}
	return t, nil
}

// FromScalar builds a rank-0 tensor holding v.
func FromScalar[T Datum](v T) (*Tensor, error) {
	return FromSlice([]T{v}, Shape{})
}

// DataType returns the element kind tag.
func (t *Tensor) DataType() DataType {
	return t.dt
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the per-axis strides, in elements.
func (t *Tensor) Strides() []int {
	return t.strides
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Len returns the total number of elements.
func (t *Tensor) Len() int {
	return t.shape.NumElements()
}

// ByteSize returns the recorded buffer size in bytes.
func (t *Tensor) ByteSize() int {
	return t.layout.Size
}

// Layout returns the recorded allocation layout.
func (t *Tensor) Layout() Layout {
	return t.layout
}

// setDataTypeUnchecked relabels the kind tag without touching the
// buffer. Only valid between kinds of identical storage width; used to
// undo width aliasing after value-agnostic copies.
func (t *Tensor) setDataTypeUnchecked(dt DataType) {
	t.dt = dt
}

func (t *Tensor) checkAccess(dt DataType) error {
	if t.dt != dt {
		return errorf(ErrKindMismatch, "tensor is %s, accessed as %s", t.dt, dt)
	}
	return nil
}

// Slice exposes the flat storage as a typed slice, in place. The
// element type must match the tensor's kind.
func Slice[T Datum](t *Tensor) ([]T, error) {
	if err := t.checkAccess(datumTypeOf[T]()); err != nil {
		return nil, err
	}
	return SliceUnchecked[T](t), nil
}

// SliceUnchecked is Slice without the kind check. The caller must
// guarantee T matches the tensor's kind (or, for trivially copyable
// kinds only, has the same storage width); anything else corrupts the
// buffer.
func SliceUnchecked[T Datum](t *Tensor) []T {
	var z T
	switch any(z).(type) {
	case string:
		return any(t.strs).([]T)
	case Dim:
		return any(t.dims).([]T)
	case Blob:
		return any(t.blobs).([]T)
	default:
		n := t.Len()
		if n == 0 || len(t.data) == 0 {
			return nil
		}
		return unsafe.Slice((*T)(unsafe.Pointer(&t.data[0])), n)
	}
}

// Scalar returns the first element of a rank-0 tensor.
func Scalar[T Datum](t *Tensor) (T, error) {
	var z T
	if t.Rank() != 0 {
		return z, errorf(ErrRankMismatch, "scalar access on rank %d tensor", t.Rank())
	}
	s, err := Slice[T](t)
	if err != nil {
		return z, err
	}
	return s[0], nil
}

// RawBytes exposes the backing byte buffer of a trivially copyable
// tensor, in place.
func (t *Tensor) RawBytes() ([]byte, error) {
	if !t.dt.IsCopy() {
		return nil, errorf(ErrKindMismatch, "%s tensor has no raw byte representation", t.dt)
	}
	return t.data, nil
}

// RawBytesUnchecked is RawBytes without the kind check; meaningless on
// non-trivial kinds.
func (t *Tensor) RawBytesUnchecked() []byte {
	return t.data
}

// DeepClone allocates a fresh buffer and copies every element value.
func (t *Tensor) DeepClone() *Tensor {
	out, err := UninitializedAligned(t.dt, t.shape, t.layout.Align)
	if err != nil {
		// The source allocation already validated this layout.
		panic(err)
	}
	out.strides = append([]int(nil), t.strides...)
	switch t.dt {
	case String:
		copy(out.strs, t.strs)
	case TDim:
		copy(out.dims, t.dims)
	case Bytes:
		for i, b := range t.blobs {
			out.blobs[i] = append(Blob(nil), b...)
		}
	default:
		copy(out.data, t.data)
	}
	return out
}

// Equal reports exact equality: same kind, same shape, element-wise
// equal values. Floats compare by value (NaN is not equal to itself).
func (t *Tensor) Equal(other *Tensor) bool {
	if t.dt != other.dt || !t.shape.Equal(other.shape) {
		return false
	}
	switch t.dt {
	case Bool:
		return eqSlice(SliceUnchecked[bool](t), SliceUnchecked[bool](other))
	case Int8:
		return eqSlice(SliceUnchecked[int8](t), SliceUnchecked[int8](other))
	case Int16:
		return eqSlice(SliceUnchecked[int16](t), SliceUnchecked[int16](other))
	case Int32:
		return eqSlice(SliceUnchecked[int32](t), SliceUnchecked[int32](other))
	case Int64:
		return eqSlice(SliceUnchecked[int64](t), SliceUnchecked[int64](other))
	case Uint8:
		return eqSlice(SliceUnchecked[uint8](t), SliceUnchecked[uint8](other))
	case Uint16:
		return eqSlice(SliceUnchecked[uint16](t), SliceUnchecked[uint16](other))
	case Uint32:
		return eqSlice(SliceUnchecked[uint32](t), SliceUnchecked[uint32](other))
	case Uint64:
		return eqSlice(SliceUnchecked[uint64](t), SliceUnchecked[uint64](other))
	case Float16:
		a, b := SliceUnchecked[float16.Float16](t), SliceUnchecked[float16.Float16](other)
		for i := range a {
			if a[i].Float32() != b[i].Float32() {
				return false
			}
		}
		return true
	case Float32:
		return eqSlice(SliceUnchecked[float32](t), SliceUnchecked[float32](other))
	case Float64:
		return eqSlice(SliceUnchecked[float64](t), SliceUnchecked[float64](other))
	case TDim:
		for i := range t.dims {
			if !t.dims[i].Equal(other.dims[i]) {
				return false
			}
		}
		return true
	case String:
		return eqSlice(t.strs, other.strs)
	case Bytes:
		for i := range t.blobs {
			if !bytes.Equal(t.blobs[i], other.blobs[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func eqSlice[T comparable](a, b []T) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dump renders the tensor in a human readable form. Unless forceFull is
// set, output truncates after 12 elements with an ellipsis.
func (t *Tensor) Dump(forceFull bool) string {
	n := t.Len()
	trunc := n > 12 && !forceFull
	if trunc {
		n = 12
	}
	var elems []string
	switch t.dt {
	case Bool:
		elems = dumpSlice(SliceUnchecked[bool](t), n)
	case Int8:
		elems = dumpSlice(SliceUnchecked[int8](t), n)
	case Int16:
		elems = dumpSlice(SliceUnchecked[int16](t), n)
	case Int32:
		elems = dumpSlice(SliceUnchecked[int32](t), n)
	case Int64:
		elems = dumpSlice(SliceUnchecked[int64](t), n)
	case Uint8:
		elems = dumpSlice(SliceUnchecked[uint8](t), n)
	case Uint16:
		elems = dumpSlice(SliceUnchecked[uint16](t), n)
	case Uint32:
		elems = dumpSlice(SliceUnchecked[uint32](t), n)
	case Uint64:
		elems = dumpSlice(SliceUnchecked[uint64](t), n)
	case Float16:
		elems = dumpSlice(SliceUnchecked[float16.Float16](t), n)
	case Float32:
		elems = dumpSlice(SliceUnchecked[float32](t), n)
	case Float64:
		elems = dumpSlice(SliceUnchecked[float64](t), n)
	case TDim:
		elems = dumpSlice(t.dims, n)
	case String:
		elems = dumpSlice(t.strs, n)
	case Bytes:
		elems = dumpSlice(t.blobs, n)
	}
	suffix := ""
	if trunc {
		suffix = "..."
	}
	return fmt.Sprintf("%s,%s %s%s", t.shape, t.dt, strings.Join(elems, ", "), suffix)
}

func dumpSlice[T any](s []T, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprint(s[i])
	}
	return out
}

// String implements fmt.Stringer via the truncated dump.
func (t *Tensor) String() string {
	return t.Dump(false)
}

// IsUniform reports whether every element equals the first one.
func (t *Tensor) IsUniform() bool {
	if t.Len() <= 1 {
		return true
	}
	switch t.dt {
	case Bool:
		return uniform(SliceUnchecked[bool](t))
	case Int8:
		return uniform(SliceUnchecked[int8](t))
	case Int16:
		return uniform(SliceUnchecked[int16](t))
	case Int32:
		return uniform(SliceUnchecked[int32](t))
	case Int64:
		return uniform(SliceUnchecked[int64](t))
	case Uint8:
		return uniform(SliceUnchecked[uint8](t))
	case Uint16:
		return uniform(SliceUnchecked[uint16](t))
	case Uint32:
		return uniform(SliceUnchecked[uint32](t))
	case Uint64:
		return uniform(SliceUnchecked[uint64](t))
	case Float16:
		s := SliceUnchecked[float16.Float16](t)
		for i := 1; i < len(s); i++ {
			if s[i].Float32() != s[0].Float32() {
				return false
			}
		}
		return true
	case Float32:
		return uniform(SliceUnchecked[float32](t))
	case Float64:
		return uniform(SliceUnchecked[float64](t))
	case TDim:
		for i := 1; i < len(t.dims); i++ {
			if !t.dims[i].Equal(t.dims[0]) {
				return false
			}
		}
		return true
	case String:
		return uniform(t.strs)
	case Bytes:
		for i := 1; i < len(t.blobs); i++ {
			if !bytes.Equal(t.blobs[i], t.blobs[0]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func uniform[T comparable](s []T) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// Nth returns the i-th element, in flat order, as a rank-0 tensor.
func (t *Tensor) Nth(i int) (*Tensor, error) {
	if i < 0 || i >= t.Len() {
		return nil, errorf(ErrIndexOutOfRange, "element %d of a tensor of %d", i, t.Len())
	}
	out, err := Uninitialized(t.dt, Shape{})
	if err != nil {
		return nil, err
	}
	switch t.dt {
	case String:
		out.strs[0] = t.strs[i]
	case TDim:
		out.dims[0] = t.dims[i]
	case Bytes:
		out.blobs[0] = append(Blob(nil), t.blobs[i]...)
	default:
		switch widthKind(t.dt) {
		case Int8:
			SliceUnchecked[int8](out)[0] = SliceUnchecked[int8](t)[i]
		case Int16:
			SliceUnchecked[int16](out)[0] = SliceUnchecked[int16](t)[i]
		case Int32:
			SliceUnchecked[int32](out)[0] = SliceUnchecked[int32](t)[i]
		case Int64:
			SliceUnchecked[int64](out)[0] = SliceUnchecked[int64](t)[i]
		}
	}
	return out, nil
}

// BroadcastScalarToShape replicates a rank-0 tensor into shape.
func (t *Tensor) BroadcastScalarToShape(shape Shape) (*Tensor, error) {
	if t.Rank() != 0 {
		return nil, errorf(ErrRankMismatch, "broadcast scalar called on rank %d tensor", t.Rank())
	}
	out, err := Uninitialized(t.dt, shape)
	if err != nil {
		return nil, err
	}
	switch t.dt {
	case String:
		fillSlice(out.strs, t.strs[0])
	case TDim:
		fillSlice(out.dims, t.dims[0])
	case Bytes:
		for i := range out.blobs {
			out.blobs[i] = append(Blob(nil), t.blobs[0]...)
		}
	default:
		switch widthKind(t.dt) {
		case Int8:
			fillSlice(SliceUnchecked[int8](out), SliceUnchecked[int8](t)[0])
		case Int16:
			fillSlice(SliceUnchecked[int16](out), SliceUnchecked[int16](t)[0])
		case Int32:
			fillSlice(SliceUnchecked[int32](out), SliceUnchecked[int32](t)[0])
		case Int64:
			fillSlice(SliceUnchecked[int64](out), SliceUnchecked[int64](t)[0])
		}
	}
	return out, nil
}

func fillSlice[T any](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}
