package serialization

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/x448/float16"

	"github.com/trellis-ml/trellis/internal/tensor"
)

// ErrMalformedPayload reports an undecodable or internally inconsistent
// serialized tensor.
var ErrMalformedPayload = errors.New("malformed tensor payload")

// wire is the CBOR tuple: [kind, shape, elements].
type wire struct {
	_     struct{} `cbor:",toarray"`
	Kind  string
	Shape tensor.Shape
	Data  cbor.RawMessage
}

// Marshal encodes t as the CBOR tuple.
func Marshal(t *tensor.Tensor) ([]byte, error) {
	var elems any
	switch dt := t.DataType(); dt {
	case tensor.Bool:
		elems = tensor.SliceUnchecked[bool](t)
	case tensor.Int8:
		elems = tensor.SliceUnchecked[int8](t)
	case tensor.Int16:
		elems = tensor.SliceUnchecked[int16](t)
	case tensor.Int32:
		elems = tensor.SliceUnchecked[int32](t)
	case tensor.Int64:
		elems = tensor.SliceUnchecked[int64](t)
	case tensor.Uint8:
		elems = tensor.SliceUnchecked[uint8](t)
	case tensor.Uint16:
		elems = tensor.SliceUnchecked[uint16](t)
	case tensor.Uint32:
		elems = tensor.SliceUnchecked[uint32](t)
	case tensor.Uint64:
		elems = tensor.SliceUnchecked[uint64](t)
	case tensor.Float16:
		src := tensor.SliceUnchecked[float16.Float16](t)
		widened := make([]float32, len(src))
		for i, v := range src {
			widened[i] = v.Float32()
		}
		elems = widened
	case tensor.Float32:
		elems = tensor.SliceUnchecked[float32](t)
	case tensor.Float64:
		elems = tensor.SliceUnchecked[float64](t)
	case tensor.TDim:
		src := tensor.SliceUnchecked[tensor.Dim](t)
		exprs := make([]string, len(src))
		for i, d := range src {
			exprs[i] = d.String()
		}
		elems = exprs
	case tensor.String:
		elems = tensor.SliceUnchecked[string](t)
	case tensor.Bytes:
		src := tensor.SliceUnchecked[tensor.Blob](t)
		blobs := make([][]byte, len(src))
		for i, b := range src {
			blobs[i] = b
		}
		elems = blobs
	default:
		return nil, fmt.Errorf("cannot serialize kind %s: %w", dt, ErrMalformedPayload)
	}
	data, err := cbor.Marshal(elems)
	if err != nil {
		return nil, fmt.Errorf("encoding %s elements: %w", t.DataType(), err)
	}
	return cbor.Marshal(wire{Kind: t.DataType().String(), Shape: t.Shape(), Data: data})
}

// Unmarshal decodes a CBOR tuple back into a tensor that is Equal to
// the one Marshal saw.
func Unmarshal(payload []byte) (*tensor.Tensor, error) {
	var w wire
	if err := cbor.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("decoding tensor tuple: %w", err)
	}
	dt, err := tensor.ParseDataType(w.Kind)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedPayload)
	}
	switch dt {
	case tensor.Bool:
		return decodeInto[bool](w)
	case tensor.Int8:
		return decodeInto[int8](w)
	case tensor.Int16:
		return decodeInto[int16](w)
	case tensor.Int32:
		return decodeInto[int32](w)
	case tensor.Int64:
		return decodeInto[int64](w)
	case tensor.Uint8:
		return decodeInto[uint8](w)
	case tensor.Uint16:
		return decodeInto[uint16](w)
	case tensor.Uint32:
		return decodeInto[uint32](w)
	case tensor.Uint64:
		return decodeInto[uint64](w)
	case tensor.Float16:
		var widened []float32
		if err := cbor.Unmarshal(w.Data, &widened); err != nil {
			return nil, fmt.Errorf("decoding %s elements: %w", dt, err)
		}
		halves := make([]float16.Float16, len(widened))
		for i, v := range widened {
			halves[i] = float16.Fromfloat32(v)
		}
		return tensor.FromSlice(halves, w.Shape)
	case tensor.Float32:
		return decodeInto[float32](w)
	case tensor.Float64:
		return decodeInto[float64](w)
	case tensor.TDim:
		var exprs []string
		if err := cbor.Unmarshal(w.Data, &exprs); err != nil {
			return nil, fmt.Errorf("decoding %s elements: %w", dt, err)
		}
		dims := make([]tensor.Dim, len(exprs))
		for i, s := range exprs {
			d, err := tensor.ParseDim(s)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", err, ErrMalformedPayload)
			}
			dims[i] = d
		}
		return tensor.FromSlice(dims, w.Shape)
	case tensor.String:
		return decodeInto[string](w)
	case tensor.Bytes:
		var raw [][]byte
		if err := cbor.Unmarshal(w.Data, &raw); err != nil {
			return nil, fmt.Errorf("decoding %s elements: %w", dt, err)
		}
		blobs := make([]tensor.Blob, len(raw))
		for i, b := range raw {
			blobs[i] = b
		}
		return tensor.FromSlice(blobs, w.Shape)
	default:
		return nil, fmt.Errorf("cannot deserialize kind %s: %w", dt, ErrMalformedPayload)
	}
}

func decodeInto[T tensor.Datum](w wire) (*tensor.Tensor, error) {
	var elems []T
	if err := cbor.Unmarshal(w.Data, &elems); err != nil {
		return nil, fmt.Errorf("decoding %s elements: %w", w.Kind, err)
	}
	return tensor.FromSlice(elems, w.Shape)
}
