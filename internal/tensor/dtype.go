// Package tensor implements the dynamically-typed multidimensional array
// at the heart of the trellis graph runtime.
//
// A Tensor is a type-erased handle: one concrete struct carries any of
// the fifteen supported element kinds behind a runtime DataType tag,
// while typed access stays available through the generic Slice/Scalar
// helpers. Graph passes manipulate tensors without being generic over
// the element kind; kernels reach the flat storage with zero copies.
package tensor

import (
	"encoding/hex"
	"unsafe"

	"github.com/x448/float16"
)

// DataType identifies the element kind of a tensor. The set is closed:
// every dispatch site in this package switches exhaustively over these
// tags and fails loudly on anything else.
type DataType int

// Supported element kinds.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	TDim   // symbolic dimension expression (element type Dim)
	String // owned UTF-8 string
	Bytes  // opaque binary blob (element type Blob)
)

// Blob is an opaque, owned byte sequence element.
type Blob []byte

// String renders the blob as hex.
func (b Blob) String() string {
	return "0x" + hex.EncodeToString(b)
}

// Datum enumerates the Go element types backing each DataType. It is
// the compile-time side of the runtime tag: datumTypeOf maps T back to
// its DataType.
type Datum interface {
	bool | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		float16.Float16 | float32 | float64 |
		string | Dim | Blob
}

// Size returns the in-memory byte width of one element. For the
// non-trivial kinds this is the width of the Go container header, not
// of the heap data it owns.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	case TDim:
		return int(unsafe.Sizeof(Dim{}))
	case String:
		return int(unsafe.Sizeof(""))
	case Bytes:
		return int(unsafe.Sizeof(Blob(nil)))
	default:
		panic("unknown data type")
	}
}

// Alignment returns the natural alignment of one element in bytes.
func (dt DataType) Alignment() int {
	if dt.IsCopy() {
		return dt.Size()
	}
	return int(unsafe.Alignof(uintptr(0)))
}

// IsCopy reports whether elements can be duplicated by a raw byte copy
// with no ownership obligations. False for TDim, String and Bytes,
// whose elements own heap data.
func (dt DataType) IsCopy() bool {
	switch dt {
	case TDim, String, Bytes:
		return false
	default:
		return true
	}
}

// IsFloat reports whether the kind is a floating point kind.
func (dt DataType) IsFloat() bool {
	return dt == Float16 || dt == Float32 || dt == Float64
}

// IsInt reports whether the kind is a signed or unsigned integer kind.
func (dt DataType) IsInt() bool {
	return dt.IsSigned() || dt.IsUnsigned()
}

// IsSigned reports whether the kind is a signed integer kind.
func (dt DataType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether the kind is an unsigned integer kind.
func (dt DataType) IsUnsigned() bool {
	switch dt {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// IsNumber reports whether the kind is integer or float.
func (dt DataType) IsNumber() bool {
	return dt.IsInt() || dt.IsFloat()
}

// String returns the canonical kind name.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "Bool"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Uint8:
		return "Uint8"
	case Uint16:
		return "Uint16"
	case Uint32:
		return "Uint32"
	case Uint64:
		return "Uint64"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case TDim:
		return "TDim"
	case String:
		return "String"
	case Bytes:
		return "Bytes"
	default:
		return "unknown"
	}
}

// allDataTypes is the canonical kind list. Dispatch sites and tests
// iterate it so a new kind cannot be added without touching them.
var allDataTypes = []DataType{
	Bool, Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64,
	Float16, Float32, Float64, TDim, String, Bytes,
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(name string) (DataType, error) {
	for _, dt := range allDataTypes {
		if dt.String() == name {
			return dt, nil
		}
	}
	return 0, errorf(ErrParse, "unknown data type name %q", name)
}

// datumTypeOf maps a compile-time element type to its runtime tag.
func datumTypeOf[T Datum]() DataType {
	var z T
	switch any(z).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	case Dim:
		return TDim
	case string:
		return String
	case Blob:
		return Bytes
	default:
		panic("unsupported datum type")
	}
}

// widthKind groups the trivially copyable kinds by storage width,
// returning the signed integer kind of the same byte width. Operations
// that never interpret values (permute, slice, stack, nth) dispatch on
// this instead of the exact kind.
func widthKind(dt DataType) DataType {
	switch dt.Size() {
	case 1:
		return Int8
	case 2:
		return Int16
	case 4:
		return Int32
	case 8:
		return Int64
	default:
		panic("no integer alias for width")
	}
}
