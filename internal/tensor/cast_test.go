package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestCastIdentityReturnsReceiver(t *testing.T) {
	tt, err := FromSlice([]int32{1, 2, 3}, Shape{3})
	require.NoError(t, err)
	out, err := tt.CastTo(Int32)
	require.NoError(t, err)
	assert.Same(t, tt, out, "identity cast must not copy")
}

func TestCastNumericPairs(t *testing.T) {
	tt, err := FromSlice([]int32{-2, 0, 3}, Shape{3})
	require.NoError(t, err)

	f, err := tt.CastTo(Float64)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 3}, SliceUnchecked[float64](f))

	back, err := f.CastTo(Int32)
	require.NoError(t, err)
	assert.True(t, back.Equal(tt))

	trunc, err := FromSlice([]float64{3.7, -1.2}, Shape{2})
	require.NoError(t, err)
	i8, err := trunc.CastTo(Int8)
	require.NoError(t, err)
	assert.Equal(t, []int8{3, -1}, SliceUnchecked[int8](i8), "float to int truncates toward zero")
}

func TestCastBoolHops(t *testing.T) {
	tt, err := FromSlice([]bool{true, false, true}, Shape{3})
	require.NoError(t, err)
	f, err := tt.CastTo(Float32)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 1}, SliceUnchecked[float32](f))

	back, err := f.CastTo(Bool)
	require.NoError(t, err)
	assert.True(t, back.Equal(tt))
}

func TestCastFloat16(t *testing.T) {
	tt, err := FromSlice([]float16.Float16{
		float16.Fromfloat32(0.5),
		float16.Fromfloat32(-2),
	}, Shape{2})
	require.NoError(t, err)
	f, err := tt.CastTo(Float64)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -2}, SliceUnchecked[float64](f))

	back, err := f.CastTo(Float16)
	require.NoError(t, err)
	assert.True(t, back.Equal(tt))
}

func TestCastDimToNumeric(t *testing.T) {
	tt, err := FromSlice([]Dim{MakeDim(2), MakeDim(5)}, Shape{2})
	require.NoError(t, err)
	ints, err := tt.CastTo(Int64)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, SliceUnchecked[int64](ints))

	sym, err := FromSlice([]Dim{SymDim("n")}, Shape{1})
	require.NoError(t, err)
	_, err = sym.CastTo(Int64)
	assert.ErrorIs(t, err, ErrUnresolvedDim)
}

func TestCastNumericToDim(t *testing.T) {
	tt, err := FromSlice([]int64{4, 9}, Shape{2})
	require.NoError(t, err)
	dims, err := tt.CastTo(TDim)
	require.NoError(t, err)
	s := SliceUnchecked[Dim](dims)
	require.Len(t, s, 2)
	assert.True(t, s[0].Equal(MakeDim(4)))
	assert.True(t, s[1].Equal(MakeDim(9)))
}

func TestCastFromString(t *testing.T) {
	tt, err := FromSlice([]string{"3", "4"}, Shape{2})
	require.NoError(t, err)
	ints, err := tt.CastTo(Int32)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4}, SliceUnchecked[int32](ints))

	bad, err := FromSlice([]string{"x"}, Shape{1})
	require.NoError(t, err)
	_, err = bad.CastTo(Int32)
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorContains(t, err, `"x"`)

	bools, err := FromSlice([]string{"true", "false"}, Shape{2})
	require.NoError(t, err)
	b, err := bools.CastTo(Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, SliceUnchecked[bool](b))

	exprs, err := FromSlice([]string{"n+1", "8"}, Shape{2})
	require.NoError(t, err)
	dims, err := exprs.CastTo(TDim)
	require.NoError(t, err)
	assert.Equal(t, "n+1", SliceUnchecked[Dim](dims)[0].String())
}

func TestCastToString(t *testing.T) {
	ints, err := FromSlice([]int32{1, -2}, Shape{2})
	require.NoError(t, err)
	s, err := ints.CastTo(String)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "-2"}, SliceUnchecked[string](s))

	dims, err := FromSlice([]Dim{SymDim("n").Add(MakeDim(1))}, Shape{1})
	require.NoError(t, err)
	ds, err := dims.CastTo(String)
	require.NoError(t, err)
	assert.Equal(t, []string{"n+1"}, SliceUnchecked[string](ds))

	blobs, err := FromSlice([]Blob{{0xab, 0xcd}}, Shape{1})
	require.NoError(t, err)
	bs, err := blobs.CastTo(String)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabcd"}, SliceUnchecked[string](bs))
}

func TestCastUnsupportedPairs(t *testing.T) {
	blobs, err := FromSlice([]Blob{{1}}, Shape{1})
	require.NoError(t, err)
	_, err = blobs.CastTo(Int32)
	assert.ErrorIs(t, err, ErrUnsupportedCast)

	strs, err := FromSlice([]string{"a"}, Shape{1})
	require.NoError(t, err)
	_, err = strs.CastTo(Bytes)
	assert.ErrorIs(t, err, ErrUnsupportedCast)
}

func TestCastToScalar(t *testing.T) {
	tt, err := FromScalar(int32(7))
	require.NoError(t, err)
	v, err := CastToScalar[float64](tt)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	vec, err := FromSlice([]int32{1, 2}, Shape{2})
	require.NoError(t, err)
	_, err = CastToScalar[float64](vec)
	assert.ErrorIs(t, err, ErrRankMismatch)
}
