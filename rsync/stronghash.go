package rsync

import (
	"crypto/md5"
	"hash"
)

// StrongHashFactory constructs a fresh, zero-valued strong hash. Strong
// hashes are used to confirm a weak-checksum match before a chunk is
// considered reusable; they need not be rollable, only collision-resistant
// and fixed-size for a given factory.
//
// The standard library's hash.Hash interface is used directly rather than a
// bespoke interface, since it already provides exactly the capability set
// required (Write, Sum, Reset, Size) and is already how every strong hash in
// the Go ecosystem is exposed.
type StrongHashFactory func() hash.Hash

// NewMD5 is the default StrongHashFactory, pairing with FormatAdler32MD5.
func NewMD5() hash.Hash {
	return md5.New()
}

// sumStrongHash computes the strong hash digest of data using factory.
func sumStrongHash(factory StrongHashFactory, data []byte) []byte {
	h := factory()
	h.Write(data)
	return h.Sum(nil)
}
