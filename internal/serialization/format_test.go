package serialization

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/trellis-ml/trellis/internal/tensor"
)

func roundTrip(t *testing.T, src *tensor.Tensor) {
	t.Helper()
	payload, err := Marshal(src)
	require.NoError(t, err)
	back, err := Unmarshal(payload)
	require.NoError(t, err)
	assert.True(t, src.Equal(back), "round trip changed the tensor: %s != %s", src, back)
}

func TestRoundTripNumeric(t *testing.T) {
	f32, err := tensor.FromSlice([]float32{1.5, -2, 0}, tensor.Shape{3})
	require.NoError(t, err)
	roundTrip(t, f32)

	i64, err := tensor.FromSlice([]int64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)
	roundTrip(t, i64)

	u8, err := tensor.FromSlice([]uint8{0, 255}, tensor.Shape{2})
	require.NoError(t, err)
	roundTrip(t, u8)

	b, err := tensor.FromSlice([]bool{true, false}, tensor.Shape{2})
	require.NoError(t, err)
	roundTrip(t, b)
}

func TestRoundTripFloat16(t *testing.T) {
	tt, err := tensor.FromSlice([]float16.Float16{
		float16.Fromfloat32(0.25),
		float16.Fromfloat32(-8),
	}, tensor.Shape{2})
	require.NoError(t, err)
	roundTrip(t, tt)
}

func TestRoundTripNonCopyKinds(t *testing.T) {
	strs, err := tensor.FromSlice([]string{"a", "", "hello"}, tensor.Shape{3})
	require.NoError(t, err)
	roundTrip(t, strs)

	dims, err := tensor.FromSlice([]tensor.Dim{
		tensor.MakeDim(4),
		tensor.SymDim("n").Add(tensor.MakeDim(1)),
	}, tensor.Shape{2})
	require.NoError(t, err)
	roundTrip(t, dims)

	blobs, err := tensor.FromSlice([]tensor.Blob{{1, 2, 3}, nil}, tensor.Shape{2})
	require.NoError(t, err)
	roundTrip(t, blobs)
}

func TestRoundTripScalarAndEmpty(t *testing.T) {
	s, err := tensor.FromScalar(int32(7))
	require.NoError(t, err)
	roundTrip(t, s)

	empty, err := tensor.FromSlice([]float64{}, tensor.Shape{0, 3})
	require.NoError(t, err)
	roundTrip(t, empty)
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0x00, 0x01})
	assert.Error(t, err)
}

func TestUnmarshalUnknownKind(t *testing.T) {
	inner, err := cbor.Marshal([]int32{1})
	require.NoError(t, err)
	payload, err := cbor.Marshal([]any{"Complex64", []int{1}, cbor.RawMessage(inner)})
	require.NoError(t, err)
	_, err = Unmarshal(payload)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
