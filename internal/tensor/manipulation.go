package tensor

// SetShape reshapes the tensor in place. The new shape must describe
// the same number of elements.
func (t *Tensor) SetShape(shape Shape) error {
	if t.Len() != shape.NumElements() {
		return errorf(ErrShapeMismatch, "invalid reshape %v to %v", t.shape, shape)
	}
	t.SetShapeUnchecked(shape)
	return nil
}

// SetShapeUnchecked forces the shape without the element-count check.
// The caller guarantees the products match.
func (t *Tensor) SetShapeUnchecked(shape Shape) {
	if !t.shape.Equal(shape) {
		t.shape = shape.Clone()
		t.strides = naturalStrides(t.shape)
	}
}

// Reshape is SetShape returning the receiver for chaining.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := t.SetShape(shape); err != nil {
		return nil, err
	}
	return t, nil
}

// InsertAxis inserts a length-1 axis. Metadata only, never reallocates.
func (t *Tensor) InsertAxis(axis int) error {
	if axis < 0 || axis > t.Rank() {
		return errorf(ErrIndexOutOfRange, "insert axis %d on rank %d tensor", axis, t.Rank())
	}
	t.shape = append(t.shape[:axis], append(Shape{1}, t.shape[axis:]...)...)
	stride := 1
	if axis < len(t.strides) {
		stride = t.strides[axis]
	}
	t.strides = append(t.strides[:axis], append([]int{stride}, t.strides[axis:]...)...)
	return nil
}

// RemoveAxis removes a length-1 axis. Metadata only, never reallocates.
func (t *Tensor) RemoveAxis(axis int) error {
	if axis < 0 || axis >= t.Rank() {
		return errorf(ErrIndexOutOfRange, "remove axis %d on rank %d tensor", axis, t.Rank())
	}
	if t.shape[axis] != 1 {
		return errorf(ErrShapeMismatch, "remove axis %d of length %d", axis, t.shape[axis])
	}
	t.shape = append(t.shape[:axis], t.shape[axis+1:]...)
	t.strides = append(t.strides[:axis], t.strides[axis+1:]...)
	return nil
}

// BroadcastToRank left-pads the shape with length-1 axes up to rank.
func (t *Tensor) BroadcastToRank(rank int) error {
	if rank < t.Rank() {
		return errorf(ErrShapeMismatch, "can only broadcast rank %d to a higher rank, got %d", t.Rank(), rank)
	}
	for t.Rank() < rank {
		t.shape = append(Shape{1}, t.shape...)
	}
	t.strides = naturalStrides(t.shape)
	return nil
}

// BroadcastIntoRank is BroadcastToRank returning the receiver.
func (t *Tensor) BroadcastIntoRank(rank int) (*Tensor, error) {
	if err := t.BroadcastToRank(rank); err != nil {
		return nil, err
	}
	return t, nil
}

// PermuteAxes returns a new tensor whose buffer holds the axis
// permutation in natural row-major order. Storage always stays
// canonical for downstream kernels, so this is a copy, not a stride
// swap.
func (t *Tensor) PermuteAxes(order []int) (*Tensor, error) {
	if len(order) != t.Rank() {
		return nil, errorf(ErrShapeMismatch, "permutation %v does not cover rank %d", order, t.Rank())
	}
	seen := make([]bool, t.Rank())
	newShape := make(Shape, t.Rank())
	for i, ax := range order {
		if ax < 0 || ax >= t.Rank() || seen[ax] {
			return nil, errorf(ErrShapeMismatch, "%v is not a permutation of 0..%d", order, t.Rank())
		}
		seen[ax] = true
		newShape[i] = t.shape[ax]
	}
	out, err := UninitializedAligned(t.dt, newShape, t.layout.Align)
	if err != nil {
		return nil, err
	}
	switch t.dt {
	case String:
		gatherPermuted[string](out, t, order)
	case TDim:
		gatherPermuted[Dim](out, t, order)
	case Bytes:
		gatherPermuted[Blob](out, t, order)
		cloneBlobs(out.blobs)
	default:
		switch widthKind(t.dt) {
		case Int8:
			gatherPermuted[int8](out, t, order)
		case Int16:
			gatherPermuted[int16](out, t, order)
		case Int32:
			gatherPermuted[int32](out, t, order)
		case Int64:
			gatherPermuted[int64](out, t, order)
		}
	}
	return out, nil
}

// gatherPermuted walks dst in flat order and pulls the matching source
// element through the permuted strides.
func gatherPermuted[T Datum](dst, src *Tensor, order []int) {
	d := SliceUnchecked[T](dst)
	s := SliceUnchecked[T](src)
	ndim := dst.Rank()
	idx := make([]int, ndim)
	for i := range d {
		so := 0
		for j := 0; j < ndim; j++ {
			so += idx[j] * src.strides[order[j]]
		}
		d[i] = s[so]
		for j := ndim - 1; j >= 0; j-- {
			idx[j]++
			if idx[j] < dst.shape[j] {
				break
			}
			idx[j] = 0
		}
	}
}

func cloneBlobs(blobs []Blob) {
	for i, b := range blobs {
		blobs[i] = append(Blob(nil), b...)
	}
}

// Slice returns a new, independently owned tensor holding the half-open
// range [start, end) along axis.
func (t *Tensor) Slice(axis, start, end int) (*Tensor, error) {
	if axis < 0 || axis >= t.Rank() {
		return nil, errorf(ErrIndexOutOfRange, "cannot slice axis %d of rank %d tensor", axis, t.Rank())
	}
	if start < 0 || start > end || end > t.shape[axis] {
		return nil, errorf(ErrIndexOutOfRange, "slice [%d, %d) of axis %d with length %d",
			start, end, axis, t.shape[axis])
	}
	newShape := t.shape.Clone()
	newShape[axis] = end - start
	out, err := UninitializedAligned(t.dt, newShape, t.layout.Align)
	if err != nil {
		return nil, err
	}
	assignResolved(out, t, 0, start, end-start, axis)
	return out, nil
}

// AssignSlice copies src's half-open range along axis into the
// receiver's range along the same axis. Source and destination may be
// the same tensor with overlapping ranges.
func (t *Tensor) AssignSlice(dstStart, dstEnd int, src *Tensor, srcStart, srcEnd, axis int) error {
	if src.dt != t.dt {
		return errorf(ErrKindMismatch, "assign into %s from %s", t.dt, src.dt)
	}
	if axis < 0 || axis >= t.Rank() {
		return errorf(ErrIndexOutOfRange, "assign along axis %d of rank %d tensor", axis, t.Rank())
	}
	if dstEnd-dstStart != srcEnd-srcStart {
		return errorf(ErrShapeMismatch, "assign a range of %d from a range of %d",
			dstEnd-dstStart, srcEnd-srcStart)
	}
	if t.Rank() != src.Rank() {
		return errorf(ErrShapeMismatch, "assign between ranks %d and %d", t.Rank(), src.Rank())
	}
	for ax := range t.shape {
		if ax != axis && t.shape[ax] != src.shape[ax] {
			return errorf(ErrShapeMismatch, "assign along axis %d between shapes %v and %v",
				axis, t.shape, src.shape)
		}
	}
	if srcStart < 0 || srcStart > srcEnd || srcEnd > src.shape[axis] {
		return errorf(ErrIndexOutOfRange, "assign from range [%d, %d) of axis %d with length %d",
			srcStart, srcEnd, axis, src.shape[axis])
	}
	if dstStart < 0 || dstStart > dstEnd || dstEnd > t.shape[axis] {
		return errorf(ErrIndexOutOfRange, "assign to range [%d, %d) of axis %d with length %d",
			dstStart, dstEnd, axis, t.shape[axis])
	}
	assignResolved(t, src, dstStart, srcStart, dstEnd-dstStart, axis)
	return nil
}

// AssignSliceUnchecked is AssignSlice with every precondition left to
// the caller.
func (t *Tensor) AssignSliceUnchecked(dstStart, dstEnd int, src *Tensor, srcStart, srcEnd, axis int) {
	assignResolved(t, src, dstStart, srcStart, dstEnd-dstStart, axis)
}

// blockDims returns the element counts before and after axis: outer
// blocks of axisLen*inner contiguous elements each.
func (t *Tensor) blockDims(axis int) (outer, inner int) {
	outer, inner = 1, 1
	for _, d := range t.shape[:axis] {
		outer *= d
	}
	for _, d := range t.shape[axis+1:] {
		inner *= d
	}
	return outer, inner
}

func assignResolved(dst, src *Tensor, dstStart, srcStart, length, axis int) {
	if length == 0 || dst.Len() == 0 {
		return
	}
	if axis == 0 && dst.dt.IsCopy() {
		// One contiguous move. The copy builtin has memmove semantics,
		// which keeps overlapping self-assignment safe.
		_, inner := dst.blockDims(0)
		stride := inner * dst.dt.Size()
		copy(dst.data[dstStart*stride:(dstStart+length)*stride],
			src.data[srcStart*stride:(srcStart+length)*stride])
		return
	}
	if dst == src {
		// Element-wise walks cannot cross an overlap in place.
		src = mustSlice(src, axis, srcStart, srcStart+length)
		srcStart = 0
	}
	switch dst.dt {
	case String:
		assignRange[string](dst, src, dstStart, srcStart, length, axis)
	case TDim:
		assignRange[Dim](dst, src, dstStart, srcStart, length, axis)
	case Bytes:
		assignRange[Blob](dst, src, dstStart, srcStart, length, axis)
		cloneAssignedBlobs(dst, dstStart, length, axis)
	default:
		switch widthKind(dst.dt) {
		case Int8:
			assignRange[int8](dst, src, dstStart, srcStart, length, axis)
		case Int16:
			assignRange[int16](dst, src, dstStart, srcStart, length, axis)
		case Int32:
			assignRange[int32](dst, src, dstStart, srcStart, length, axis)
		case Int64:
			assignRange[int64](dst, src, dstStart, srcStart, length, axis)
		}
	}
}

func mustSlice(t *Tensor, axis, start, end int) *Tensor {
	out, err := t.Slice(axis, start, end)
	if err != nil {
		panic(err)
	}
	return out
}

func assignRange[T Datum](dst, src *Tensor, dstStart, srcStart, length, axis int) {
	d := SliceUnchecked[T](dst)
	s := SliceUnchecked[T](src)
	outer, inner := dst.blockDims(axis)
	dstAxis := dst.shape[axis]
	srcAxis := src.shape[axis]
	for o := 0; o < outer; o++ {
		for k := 0; k < length; k++ {
			do := (o*dstAxis + dstStart + k) * inner
			so := (o*srcAxis + srcStart + k) * inner
			copy(d[do:do+inner], s[so:so+inner])
		}
	}
}

// cloneAssignedBlobs re-owns the blob references an assignRange just
// wrote into dst, keeping buffers exclusively owned.
func cloneAssignedBlobs(dst *Tensor, dstStart, length, axis int) {
	outer, inner := dst.blockDims(axis)
	dstAxis := dst.shape[axis]
	for o := 0; o < outer; o++ {
		base := (o*dstAxis + dstStart) * inner
		cloneBlobs(dst.blobs[base : base+length*inner])
	}
}

// StackTensors concatenates same-kind tensors along an existing axis.
// Trivially copyable kinds move through the width-aliased integer
// representation and the result is relabeled with the true kind; the
// aliasing never shows in the result.
func StackTensors(axis int, tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, errorf(ErrShapeMismatch, "stack of no tensors")
	}
	first := tensors[0]
	if axis < 0 || axis >= first.Rank() {
		return nil, errorf(ErrIndexOutOfRange, "stack along axis %d of rank %d tensors", axis, first.Rank())
	}
	total := 0
	for _, t := range tensors {
		if t.dt != first.dt {
			return nil, errorf(ErrKindMismatch, "inconsistent datum type in stack: %s and %s", first.dt, t.dt)
		}
		if t.Rank() != first.Rank() {
			return nil, errorf(ErrShapeMismatch, "stack between ranks %d and %d", first.Rank(), t.Rank())
		}
		for ax := range t.shape {
			if ax != axis && t.shape[ax] != first.shape[ax] {
				return nil, errorf(ErrShapeMismatch, "stack along axis %d between shapes %v and %v",
					axis, first.shape, t.shape)
			}
		}
		total += t.shape[axis]
	}
	outShape := first.shape.Clone()
	outShape[axis] = total
	out, err := UninitializedAligned(first.dt, outShape, first.layout.Align)
	if err != nil {
		return nil, err
	}
	offset := 0
	for _, t := range tensors {
		assignResolved(out, t, offset, 0, t.shape[axis], axis)
		offset += t.shape[axis]
	}
	return out, nil
}
