package tensor

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a content hash combining kind, shape, allocation
// alignment and the element values. Float kinds hash through their
// same-width bit patterns, so equal floats hash equal regardless of
// how they were produced.
func (t *Tensor) Hash() uint64 {
	h := xxhash.New()
	writeU64(h, uint64(t.dt))
	writeU64(h, uint64(t.Rank()))
	for _, d := range t.shape {
		writeU64(h, uint64(d))
	}
	writeU64(h, uint64(t.layout.Align))
	switch t.dt {
	case TDim:
		for _, d := range t.dims {
			s := d.String()
			writeU64(h, uint64(len(s)))
			h.WriteString(s)
		}
	case String:
		for _, s := range t.strs {
			writeU64(h, uint64(len(s)))
			h.WriteString(s)
		}
	case Bytes:
		for _, b := range t.blobs {
			writeU64(h, uint64(len(b)))
			h.Write(b)
		}
	default:
		h.Write(t.data)
	}
	return h.Sum64()
}

func writeU64(h *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
