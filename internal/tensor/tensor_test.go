package tensor

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/x448/float16"
)

func mustFrom[T Datum](t *testing.T, data []T, shape Shape) *Tensor {
	t.Helper()
	tt, err := FromSlice(data, shape)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return tt
}

func TestFromSliceBasics(t *testing.T) {
	tt := mustFrom(t, []float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	if tt.DataType() != Float32 {
		t.Errorf("DataType = %s, want %s", tt.DataType(), Float32)
	}
	if !tt.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape = %v, want [2 3]", tt.Shape())
	}
	if got := tt.Strides(); got[0] != 3 || got[1] != 1 {
		t.Errorf("Strides = %v, want [3 1]", got)
	}
	s, err := Slice[float32](tt)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if s[0] != 1 || s[5] != 6 {
		t.Errorf("unexpected contents %v", s)
	}
	// In-place access: writes are visible through the tensor.
	s[0] = 42
	if s2 := SliceUnchecked[float32](tt); s2[0] != 42 {
		t.Error("Slice should alias the tensor buffer")
	}
}

func TestFromSliceShapeMismatch(t *testing.T) {
	_, err := FromSlice([]int32{1, 2, 3}, Shape{2, 2})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestSliceKindMismatch(t *testing.T) {
	tt := mustFrom(t, []int32{1, 2}, Shape{2})
	if _, err := Slice[float32](tt); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("err = %v, want ErrKindMismatch", err)
	}
}

func TestZeroIsZeroFilled(t *testing.T) {
	tt, err := Zero[int64](Shape{3, 2})
	if err != nil {
		t.Fatalf("Zero failed: %v", err)
	}
	for i, v := range SliceUnchecked[int64](tt) {
		if v != 0 {
			t.Fatalf("element %d = %d, want 0", i, v)
		}
	}
}

func TestZeroRequiresNumericKind(t *testing.T) {
	if _, err := ZeroDT(String, Shape{2}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("ZeroDT(String): err = %v, want ErrKindMismatch", err)
	}
	if _, err := ZeroDT(Bool, Shape{2}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("ZeroDT(Bool): err = %v, want ErrKindMismatch", err)
	}
	if _, err := Zero[string](Shape{2}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Zero[string]: err = %v, want ErrKindMismatch", err)
	}
	if _, err := Zero[Dim](Shape{2}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Zero[Dim]: err = %v, want ErrKindMismatch", err)
	}
}

func TestFromRawRoundTrip(t *testing.T) {
	content := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	tt, err := FromRaw(Uint16, Shape{4}, content)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	s := SliceUnchecked[uint16](tt)
	if s[0] != 1 || s[3] != 4 {
		t.Errorf("unexpected contents %v", s)
	}
	raw, err := tt.RawBytes()
	if err != nil {
		t.Fatalf("RawBytes failed: %v", err)
	}
	// FromRaw copies: the original content must not alias the tensor.
	content[0] = 99
	if raw[0] != 1 {
		t.Error("FromRaw should copy its input")
	}
}

func TestFromRawRejections(t *testing.T) {
	if _, err := FromRaw(String, Shape{1}, []byte{0}); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("non-copy kind: err = %v, want ErrKindMismatch", err)
	}
	if _, err := FromRaw(Int32, Shape{2}, []byte{0, 0, 0}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short content: err = %v, want ErrShapeMismatch", err)
	}
	tt := mustFrom(t, []string{"a"}, Shape{1})
	if _, err := tt.RawBytes(); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("RawBytes on String tensor: err = %v, want ErrKindMismatch", err)
	}
}

func TestScalarRoundTrip(t *testing.T) {
	tt, err := FromScalar(int32(7))
	if err != nil {
		t.Fatalf("FromScalar failed: %v", err)
	}
	if tt.Rank() != 0 || tt.Len() != 1 {
		t.Fatalf("rank %d, len %d, want rank 0 len 1", tt.Rank(), tt.Len())
	}
	v, err := Scalar[int32](tt)
	if err != nil || v != 7 {
		t.Errorf("Scalar = (%d, %v), want 7", v, err)
	}
	vec := mustFrom(t, []int32{1, 2}, Shape{2})
	if _, err := Scalar[int32](vec); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("Scalar on rank 1: err = %v, want ErrRankMismatch", err)
	}
}

func TestDeepCloneIndependence(t *testing.T) {
	tt := mustFrom(t, []int32{1, 2, 3, 4}, Shape{2, 2})
	clone := tt.DeepClone()
	if !tt.Equal(clone) {
		t.Fatal("clone should equal its source")
	}
	SliceUnchecked[int32](tt)[0] = 99
	if clone.Equal(tt) {
		t.Error("mutating the source should not affect the clone")
	}
	if SliceUnchecked[int32](clone)[0] != 1 {
		t.Error("clone buffer should be independent")
	}
}

func TestDeepCloneBlobOwnership(t *testing.T) {
	tt := mustFrom(t, []Blob{{1, 2}, {3}}, Shape{2})
	clone := tt.DeepClone()
	SliceUnchecked[Blob](tt)[0][0] = 99
	if SliceUnchecked[Blob](clone)[0][0] != 1 {
		t.Error("clone should deep-copy blob contents")
	}
}

func TestEqualSemantics(t *testing.T) {
	a := mustFrom(t, []float32{1, 2}, Shape{2})
	b := mustFrom(t, []float32{1, 2}, Shape{2})
	if !a.Equal(b) {
		t.Error("identical tensors should be equal")
	}
	c := mustFrom(t, []float32{1, 3}, Shape{2})
	if a.Equal(c) {
		t.Error("different values should not be equal")
	}
	d := mustFrom(t, []float32{1, 2}, Shape{2, 1})
	if a.Equal(d) {
		t.Error("different shapes should not be equal")
	}
	e := mustFrom(t, []float64{1, 2}, Shape{2})
	if a.Equal(e) {
		t.Error("different kinds should not be equal")
	}
	nan := float32(math.NaN())
	f := mustFrom(t, []float32{nan}, Shape{1})
	if f.Equal(f.DeepClone()) {
		t.Error("NaN should not compare equal to itself")
	}
}

func TestEqualEmptyTensors(t *testing.T) {
	a, err := Uninitialized(Int32, Shape{0, 3})
	if err != nil {
		t.Fatalf("Uninitialized failed: %v", err)
	}
	b, err := Uninitialized(Int32, Shape{0, 3})
	if err != nil {
		t.Fatalf("Uninitialized failed: %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("Len = %d, want 0", a.Len())
	}
	if !a.Equal(b) {
		t.Error("empty tensors of the same shape should be equal")
	}
}

func TestDumpTruncation(t *testing.T) {
	data := make([]int32, 16)
	for i := range data {
		data[i] = int32(i)
	}
	tt := mustFrom(t, data, Shape{16})
	short := tt.Dump(false)
	if !strings.HasSuffix(short, "...") {
		t.Errorf("truncated dump should end with ellipsis: %q", short)
	}
	if strings.Contains(short, "12") {
		t.Errorf("truncated dump should stop after 12 elements: %q", short)
	}
	full := tt.Dump(true)
	if strings.HasSuffix(full, "...") || !strings.Contains(full, "15") {
		t.Errorf("full dump should list every element: %q", full)
	}
	if !strings.HasPrefix(full, "16,Int32 ") {
		t.Errorf("dump should lead with shape and kind: %q", full)
	}
}

func TestIsUniform(t *testing.T) {
	if !mustFrom(t, []int32{5, 5, 5}, Shape{3}).IsUniform() {
		t.Error("constant tensor should be uniform")
	}
	if mustFrom(t, []int32{5, 5, 6}, Shape{3}).IsUniform() {
		t.Error("varying tensor should not be uniform")
	}
	if !mustFrom(t, []int32{5}, Shape{1}).IsUniform() {
		t.Error("single-element tensor should be uniform")
	}
	if !mustFrom(t, []string{"a", "a"}, Shape{2}).IsUniform() {
		t.Error("constant string tensor should be uniform")
	}
}

func TestNth(t *testing.T) {
	tt := mustFrom(t, []int16{10, 20, 30}, Shape{3})
	nth, err := tt.Nth(1)
	if err != nil {
		t.Fatalf("Nth failed: %v", err)
	}
	if nth.Rank() != 0 {
		t.Errorf("Nth rank = %d, want 0", nth.Rank())
	}
	if v, _ := Scalar[int16](nth); v != 20 {
		t.Errorf("Nth(1) = %d, want 20", v)
	}
	if _, err := tt.Nth(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Nth(3): err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestBroadcastScalarToShape(t *testing.T) {
	s, err := FromScalar(float16.Fromfloat32(1.5))
	if err != nil {
		t.Fatalf("FromScalar failed: %v", err)
	}
	out, err := s.BroadcastScalarToShape(Shape{2, 2})
	if err != nil {
		t.Fatalf("BroadcastScalarToShape failed: %v", err)
	}
	if !out.Shape().Equal(Shape{2, 2}) || !out.IsUniform() {
		t.Errorf("broadcast result %v should be a uniform [2 2]", out)
	}
	vec := mustFrom(t, []int32{1, 2}, Shape{2})
	if _, err := vec.BroadcastScalarToShape(Shape{2, 2}); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("broadcast of rank 1: err = %v, want ErrRankMismatch", err)
	}
}

func TestHashContent(t *testing.T) {
	a := mustFrom(t, []float32{1, 2, 3}, Shape{3})
	if a.Hash() != a.DeepClone().Hash() {
		t.Error("clones should hash equal")
	}
	b := mustFrom(t, []float32{1, 2, 4}, Shape{3})
	if a.Hash() == b.Hash() {
		t.Error("different contents should hash differently")
	}
	c := mustFrom(t, []float32{1, 2, 3}, Shape{3, 1})
	if a.Hash() == c.Hash() {
		t.Error("different shapes should hash differently")
	}
	d := mustFrom(t, []string{"x", "y"}, Shape{2})
	e := mustFrom(t, []string{"xy", ""}, Shape{2})
	if d.Hash() == e.Hash() {
		t.Error("length-prefixed string hashing should separate xy/ from x/y")
	}
}
