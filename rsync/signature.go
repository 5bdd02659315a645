package rsync

import (
	"sync"

	"github.com/pkg/errors"
)

// FormatAdler32MD5 identifies a Signature (and any Delta built against it) as
// using rolling Adler-32 for the weak checksum and MD5 for the strong hash.
// It is the only format this package currently builds, but the field exists
// so that old signatures and the engine that reads them can be checked for
// agreement before a chunk boundary or hash is trusted (spec's pluggable
// weak-checksum/strong-hash pairing, pinned per signature).
const FormatAdler32MD5 uint32 = 1

// ChunkHash is the weak checksum and strong hash recorded for a single chunk
// of old content. Its position in Signature.Chunks is its ChunkNumber.
type ChunkHash struct {
	// Weak is the rolling checksum of the chunk.
	Weak uint32
	// Strong is the strong hash digest of the chunk.
	Strong []byte
}

// EnsureValid verifies that a chunk hash's invariants are respected.
func (h *ChunkHash) EnsureValid() error {
	if h == nil {
		return errors.New("nil chunk hash")
	}
	if len(h.Strong) == 0 {
		return errors.New("empty strong hash")
	}
	return nil
}

// chunkRef is an index entry pointing back from a weak checksum to a
// particular chunk's strong hash and number.
type chunkRef struct {
	Strong []byte
	Chunk  ChunkNumber
}

// Signature is the compact summary of an old version of some content, built
// once and then reusable across any number of concurrent Delta computations
// against new content.
//
// A Signature's Chunks slice is its only authoritative, serializable state;
// the weak-to-chunk index used during delta generation is derived lazily
// from it and cached, so that building a signature never requires choosing
// an iteration order for a map (which Go does not guarantee to be stable)
// and round-tripping a signature through an encoder always reproduces the
// same bytes.
type Signature struct {
	// Format pins the weak-checksum/strong-hash pairing used to build this
	// signature (see FormatAdler32MD5).
	Format uint32
	// ChunkSize is the size, in bytes, used to partition the old content.
	// All chunks use this size except possibly the last, which may be
	// shorter. A ChunkSize of 0 indicates an empty signature (old content
	// was empty), in which case Chunks must also be empty.
	ChunkSize uint64
	// Chunks holds one entry per chunk of the old content, in ascending
	// chunk-number order.
	Chunks []ChunkHash

	indexOnce sync.Once
	index     map[uint32][]chunkRef
}

// ChunkCount returns the number of chunks recorded in the signature.
func (s *Signature) ChunkCount() uint64 {
	return uint64(len(s.Chunks))
}

// EnsureValid verifies that a signature's invariants are respected.
func (s *Signature) EnsureValid() error {
	if s == nil {
		return errors.New("nil signature")
	}
	for i := range s.Chunks {
		if err := s.Chunks[i].EnsureValid(); err != nil {
			return errors.Wrapf(err, "invalid chunk hash at index %d", i)
		}
	}
	if s.ChunkSize == 0 && len(s.Chunks) != 0 {
		return errors.New("zero chunk size with non-zero chunk count")
	}
	if s.ChunkSize != 0 && len(s.Chunks) == 0 {
		return errors.New("non-zero chunk size with zero chunk count")
	}
	return nil
}

// isEmpty returns true if the signature represents empty old content.
func (s *Signature) isEmpty() bool {
	return s.ChunkSize == 0
}

// weakIndex returns the signature's weak-checksum-to-chunks index, building
// and caching it on first use. It is safe for concurrent use: multiple
// Delta computations may share a single Signature without synchronization,
// exactly as the signature is documented to support.
func (s *Signature) weakIndex() map[uint32][]chunkRef {
	s.indexOnce.Do(func() {
		index := make(map[uint32][]chunkRef, len(s.Chunks))
		for i := range s.Chunks {
			c := &s.Chunks[i]
			index[c.Weak] = append(index[c.Weak], chunkRef{
				Strong: c.Strong,
				Chunk:  ChunkNumber(i),
			})
		}
		s.index = index
	})
	return s.index
}
