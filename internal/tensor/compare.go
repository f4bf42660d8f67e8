package tensor

import (
	"fmt"
	"math"
)

// Tolerances for approximate comparison.
const (
	closeAtol = 5e-4
	closeRtol = 1e-4
)

// CloseEnough compares two tensors, allowing for rounding errors when
// approx is set. Approximate comparison casts both sides to Float32 and
// accepts a position when both values are NaN, both are infinities of
// the same sign, or |a-b| <= atol + rtol*|b|. The first failing
// position is reported with its multi-index and both values.
func (t *Tensor) CloseEnough(other *Tensor, approx bool) error {
	if !t.shape.Equal(other.shape) {
		return errorf(ErrShapeMismatch, "shape mismatch %v != %v", t.shape, other.shape)
	}
	if !approx {
		if t.Equal(other) {
			return nil
		}
		return fmt.Errorf("tensors mismatch: %s != %s", t.Dump(false), other.Dump(false))
	}
	ma, err := t.CastTo(Float32)
	if err != nil {
		return err
	}
	mb, err := other.CastTo(Float32)
	if err != nil {
		return err
	}
	a := SliceUnchecked[float32](ma)
	b := SliceUnchecked[float32](mb)
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		bothNaN := math.IsNaN(av) && math.IsNaN(bv)
		bothInf := math.IsInf(av, 0) && math.IsInf(bv, 0) && math.Signbit(av) == math.Signbit(bv)
		if bothNaN || bothInf {
			continue
		}
		if math.Abs(av-bv) <= closeAtol+closeRtol*math.Abs(bv) {
			continue
		}
		return fmt.Errorf("mismatch at %v: %v != %v", t.multiIndex(i), a[i], b[i])
	}
	return nil
}

// multiIndex converts a flat element position into per-axis indices.
func (t *Tensor) multiIndex(flat int) []int {
	ix := make([]int, t.Rank())
	for j := t.Rank() - 1; j >= 0; j-- {
		if t.shape[j] > 0 {
			ix[j] = flat % t.shape[j]
			flat /= t.shape[j]
		}
	}
	return ix
}
