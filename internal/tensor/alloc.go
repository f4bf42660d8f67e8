package tensor

import "unsafe"

// Layout records the size and alignment a buffer was allocated with.
// It is stored next to the data and never recomputed, so release (and
// every check against it) always sees the exact allocation facts.
type Layout struct {
	Size  int
	Align int
}

// checkAlign validates an allocation alignment, for every kind: the
// container-backed kinds never reach alignedBytes but still record the
// alignment in their Layout.
func checkAlign(align int) error {
	if align <= 0 || align&(align-1) != 0 {
		return errorf(ErrAllocation, "alignment %d is not a positive power of two", align)
	}
	return nil
}

// alignedBytes allocates size bytes whose first byte sits on an align
// boundary. A zero size allocates nothing and returns a nil slice; the
// alignment must still be valid. The Go runtime owns the backing array,
// so holding the returned slice keeps the whole allocation alive.
func alignedBytes(size, align int) ([]byte, error) {
	if err := checkAlign(align); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errorf(ErrAllocation, "negative buffer size %d", size)
	}
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size+align-1)
	shift := int(uintptr(unsafe.Pointer(&buf[0])) & uintptr(align-1))
	if shift != 0 {
		shift = align - shift
	}
	return buf[shift : shift+size : shift+size], nil
}
