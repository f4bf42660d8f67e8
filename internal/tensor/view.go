package tensor

// TensorView is a non-owning window into a tensor's buffer, anchored at
// the element offset implied by a shape-prefix index and sharing the
// owner's strides for the remaining axes.
//
// A view borrows: the owning Tensor must outlive it, and a view used
// for writing must be the only live view of that buffer while it
// writes. The package does not police this discipline at runtime; it is
// the caller's contract, like the Unchecked accessors.
type TensorView struct {
	tensor  *Tensor
	offset  int
	shape   Shape
	strides []int
}

// View returns a view over the whole tensor.
func (t *Tensor) View() TensorView {
	return TensorView{tensor: t, shape: t.shape, strides: t.strides}
}

// ViewAtPrefix anchors a view at the multi-index prefix, a prefix of
// the full index tuple. The view covers the remaining axes.
func (t *Tensor) ViewAtPrefix(prefix []int) (TensorView, error) {
	if len(prefix) > t.Rank() {
		return TensorView{}, errorf(ErrIndexOutOfRange, "prefix %v longer than rank %d", prefix, t.Rank())
	}
	for i, ix := range prefix {
		if ix < 0 || ix >= t.shape[i] {
			return TensorView{}, errorf(ErrIndexOutOfRange, "prefix %v exceeds shape %v at axis %d", prefix, t.shape, i)
		}
	}
	return t.ViewAtPrefixUnchecked(prefix), nil
}

// ViewAtPrefixUnchecked is ViewAtPrefix without bounds checks.
func (t *Tensor) ViewAtPrefixUnchecked(prefix []int) TensorView {
	offset := 0
	for i, ix := range prefix {
		offset += ix * t.strides[i]
	}
	return TensorView{
		tensor:  t,
		offset:  offset,
		shape:   t.shape[len(prefix):],
		strides: t.strides[len(prefix):],
	}
}

// DataType returns the element kind of the viewed tensor.
func (v TensorView) DataType() DataType {
	return v.tensor.dt
}

// Shape returns the view's shape (the owner's remaining axes).
func (v TensorView) Shape() Shape {
	return v.shape
}

// Strides returns the view's strides, in elements.
func (v TensorView) Strides() []int {
	return v.strides
}

// Rank returns the view's number of axes.
func (v TensorView) Rank() int {
	return len(v.shape)
}

// Len returns the view's element count.
func (v TensorView) Len() int {
	return v.shape.NumElements()
}

// Offset returns the view's anchor as a flat element offset.
func (v TensorView) Offset() int {
	return v.offset
}

// ViewSlice exposes the viewed window as a typed flat slice, in place.
func ViewSlice[T Datum](v TensorView) ([]T, error) {
	if err := v.tensor.checkAccess(datumTypeOf[T]()); err != nil {
		return nil, err
	}
	return ViewSliceUnchecked[T](v), nil
}

// ViewSliceUnchecked is ViewSlice with the kind check left to the
// caller.
func ViewSliceUnchecked[T Datum](v TensorView) []T {
	s := SliceUnchecked[T](v.tensor)
	if len(s) == 0 {
		return nil
	}
	return s[v.offset : v.offset+v.Len()]
}

func (v TensorView) flatIndex(ix []int) (int, error) {
	if len(ix) != v.Rank() {
		return 0, errorf(ErrRankMismatch, "index %v on a rank %d view", ix, v.Rank())
	}
	off := v.offset
	for j, i := range ix {
		if i < 0 || i >= v.shape[j] {
			return 0, errorf(ErrIndexOutOfRange, "index %v exceeds view shape %v at axis %d", ix, v.shape, j)
		}
		off += i * v.strides[j]
	}
	return off, nil
}

// At reads the element at a full multi-index within the view.
func At[T Datum](v TensorView, ix ...int) (T, error) {
	var z T
	if err := v.tensor.checkAccess(datumTypeOf[T]()); err != nil {
		return z, err
	}
	off, err := v.flatIndex(ix)
	if err != nil {
		return z, err
	}
	return SliceUnchecked[T](v.tensor)[off], nil
}

// SetAt writes the element at a full multi-index within the view. The
// view must be the exclusive writer of the buffer.
func SetAt[T Datum](v TensorView, value T, ix ...int) error {
	if err := v.tensor.checkAccess(datumTypeOf[T]()); err != nil {
		return err
	}
	off, err := v.flatIndex(ix)
	if err != nil {
		return err
	}
	SliceUnchecked[T](v.tensor)[off] = value
	return nil
}
