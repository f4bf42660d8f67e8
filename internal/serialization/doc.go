// Package serialization encodes tensors as a CBOR tuple of
// (kind name, shape, flat element sequence).
//
// The encoding is value-oriented, not structural: Unmarshal is not the
// byte-for-byte inverse of Marshal, but it always reconstructs a tensor
// that compares Equal to the original. Half floats travel as float32
// values (a lossless round trip) and symbolic dimensions as their
// expression strings.
package serialization
