package tensor

import (
	"fmt"
	"strconv"

	"github.com/x448/float16"
)

// goNumber lists the kinds the language converts directly.
type goNumber interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// CastTo converts the tensor to the target kind. An identity cast
// returns the receiver without copying. Conversion rules, in priority
// order: symbolic dimensions resolve through int64; bool routes through
// int8; strings parse (ErrParse names the offending text) and anything
// formats to strings; numeric pairs follow the language's own
// conversion semantics with no lossy-cast error; numeric to TDim goes
// through an int32 constant. Untabulated pairs fail with
// ErrUnsupportedCast.
func (t *Tensor) CastTo(dt DataType) (*Tensor, error) {
	if t.dt == dt {
		return t, nil
	}
	if t.dt == TDim && dt.IsNumber() {
		ints, err := Uninitialized(Int64, t.shape)
		if err != nil {
			return nil, err
		}
		is := SliceUnchecked[int64](ints)
		for i, d := range t.dims {
			v, err := d.Int64()
			if err != nil {
				return nil, err
			}
			is[i] = v
		}
		return ints.CastTo(dt)
	}
	if t.dt == Bool && dt.IsNumber() {
		ints, err := Uninitialized(Int8, t.shape)
		if err != nil {
			return nil, err
		}
		is := SliceUnchecked[int8](ints)
		for i, b := range SliceUnchecked[bool](t) {
			if b {
				is[i] = 1
			}
		}
		return ints.CastTo(dt)
	}
	if t.dt == Float16 && dt != String {
		return t.widenF16().CastTo(dt)
	}
	out, err := Uninitialized(dt, t.shape)
	if err != nil {
		return nil, err
	}
	if t.dt == String {
		if err := castFromString(t, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if dt == String {
		if err := castToString(t, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	switch t.dt {
	case Int8:
		err = castFrom[int8](t, out)
	case Int16:
		err = castFrom[int16](t, out)
	case Int32:
		err = castFrom[int32](t, out)
	case Int64:
		err = castFrom[int64](t, out)
	case Uint8:
		err = castFrom[uint8](t, out)
	case Uint16:
		err = castFrom[uint16](t, out)
	case Uint32:
		err = castFrom[uint32](t, out)
	case Uint64:
		err = castFrom[uint64](t, out)
	case Float32:
		err = castFrom[float32](t, out)
	case Float64:
		err = castFrom[float64](t, out)
	default:
		err = errorf(ErrUnsupportedCast, "from %s to %s", t.dt, dt)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// widenF16 expands half floats to a float32 tensor, the intermediate
// for every non-string half conversion.
func (t *Tensor) widenF16() *Tensor {
	out, err := Uninitialized(Float32, t.shape)
	if err != nil {
		panic(err)
	}
	d := SliceUnchecked[float32](out)
	for i, v := range SliceUnchecked[float16.Float16](t) {
		d[i] = v.Float32()
	}
	return out
}

// castFrom converts a numeric source tensor into out, whose kind
// selects the arm.
func castFrom[S goNumber](t, out *Tensor) error {
	src := SliceUnchecked[S](t)
	switch out.dt {
	case Int8:
		convNumeric(src, SliceUnchecked[int8](out))
	case Int16:
		convNumeric(src, SliceUnchecked[int16](out))
	case Int32:
		convNumeric(src, SliceUnchecked[int32](out))
	case Int64:
		convNumeric(src, SliceUnchecked[int64](out))
	case Uint8:
		convNumeric(src, SliceUnchecked[uint8](out))
	case Uint16:
		convNumeric(src, SliceUnchecked[uint16](out))
	case Uint32:
		convNumeric(src, SliceUnchecked[uint32](out))
	case Uint64:
		convNumeric(src, SliceUnchecked[uint64](out))
	case Float32:
		convNumeric(src, SliceUnchecked[float32](out))
	case Float64:
		convNumeric(src, SliceUnchecked[float64](out))
	case Float16:
		dst := SliceUnchecked[float16.Float16](out)
		for i, v := range src {
			dst[i] = float16.Fromfloat32(float32(v))
		}
	case Bool:
		dst := SliceUnchecked[bool](out)
		for i, v := range src {
			dst[i] = v != 0
		}
	case TDim:
		ints, err := t.CastTo(Int32)
		if err != nil {
			return err
		}
		is := SliceUnchecked[int32](ints)
		for i := range out.dims {
			out.dims[i] = MakeDim(int64(is[i]))
		}
	default:
		return errorf(ErrUnsupportedCast, "from %s to %s", t.dt, out.dt)
	}
	return nil
}

func convNumeric[S, D goNumber](src []S, dst []D) {
	for i, v := range src {
		dst[i] = D(v)
	}
}

func castFromString(t, out *Tensor) error {
	src := t.strs
	switch out.dt {
	case Int8:
		return parseInts(src, SliceUnchecked[int8](out), 8, out.dt)
	case Int16:
		return parseInts(src, SliceUnchecked[int16](out), 16, out.dt)
	case Int32:
		return parseInts(src, SliceUnchecked[int32](out), 32, out.dt)
	case Int64:
		return parseInts(src, SliceUnchecked[int64](out), 64, out.dt)
	case Uint8:
		return parseUints(src, SliceUnchecked[uint8](out), 8, out.dt)
	case Uint16:
		return parseUints(src, SliceUnchecked[uint16](out), 16, out.dt)
	case Uint32:
		return parseUints(src, SliceUnchecked[uint32](out), 32, out.dt)
	case Uint64:
		return parseUints(src, SliceUnchecked[uint64](out), 64, out.dt)
	case Float16:
		dst := SliceUnchecked[float16.Float16](out)
		for i, s := range src {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return errorf(ErrParse, "could not parse %q as %s", s, out.dt)
			}
			dst[i] = float16.Fromfloat32(float32(v))
		}
	case Float32:
		dst := SliceUnchecked[float32](out)
		for i, s := range src {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return errorf(ErrParse, "could not parse %q as %s", s, out.dt)
			}
			dst[i] = float32(v)
		}
	case Float64:
		dst := SliceUnchecked[float64](out)
		for i, s := range src {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errorf(ErrParse, "could not parse %q as %s", s, out.dt)
			}
			dst[i] = v
		}
	case Bool:
		dst := SliceUnchecked[bool](out)
		for i, s := range src {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return errorf(ErrParse, "could not parse %q as %s", s, out.dt)
			}
			dst[i] = v
		}
	case TDim:
		for i, s := range src {
			d, err := ParseDim(s)
			if err != nil {
				return errorf(ErrParse, "could not parse %q as %s", s, out.dt)
			}
			out.dims[i] = d
		}
	default:
		return errorf(ErrUnsupportedCast, "from %s to %s", t.dt, out.dt)
	}
	return nil
}

func parseInts[D int8 | int16 | int32 | int64](src []string, dst []D, bits int, dt DataType) error {
	for i, s := range src {
		v, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return errorf(ErrParse, "could not parse %q as %s", s, dt)
		}
		dst[i] = D(v)
	}
	return nil
}

func parseUints[D uint8 | uint16 | uint32 | uint64](src []string, dst []D, bits int, dt DataType) error {
	for i, s := range src {
		v, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return errorf(ErrParse, "could not parse %q as %s", s, dt)
		}
		dst[i] = D(v)
	}
	return nil
}

func castToString(t, out *Tensor) error {
	switch t.dt {
	case Bool:
		formatInto[bool](t, out)
	case Int8:
		formatInto[int8](t, out)
	case Int16:
		formatInto[int16](t, out)
	case Int32:
		formatInto[int32](t, out)
	case Int64:
		formatInto[int64](t, out)
	case Uint8:
		formatInto[uint8](t, out)
	case Uint16:
		formatInto[uint16](t, out)
	case Uint32:
		formatInto[uint32](t, out)
	case Uint64:
		formatInto[uint64](t, out)
	case Float16:
		formatInto[float16.Float16](t, out)
	case Float32:
		formatInto[float32](t, out)
	case Float64:
		formatInto[float64](t, out)
	case TDim:
		formatInto[Dim](t, out)
	case Bytes:
		formatInto[Blob](t, out)
	default:
		return errorf(ErrUnsupportedCast, "from %s to %s", t.dt, out.dt)
	}
	return nil
}

func formatInto[S Datum](t, out *Tensor) {
	for i, v := range SliceUnchecked[S](t) {
		out.strs[i] = fmt.Sprint(v)
	}
}

// CastToScalar casts a rank-0 tensor and returns its single element.
func CastToScalar[T Datum](t *Tensor) (T, error) {
	var z T
	if t.Rank() != 0 {
		return z, errorf(ErrRankMismatch, "scalar cast on rank %d tensor", t.Rank())
	}
	c, err := t.CastTo(datumTypeOf[T]())
	if err != nil {
		return z, err
	}
	return Scalar[T](c)
}
