package rsync

import (
	"github.com/zshehov/rolling-in-the-diff/internal/parallel"
)

// SignatureBuilder builds Signatures from old content, using a pluggable
// weak-checksum/strong-hash pairing and a worker pool sized to the host's
// logical CPUs to hash chunks concurrently (the chunk-size heuristic
// targets thousands of chunks for large content, and each chunk's hashes are
// independent of every other, so this is an easy, purely data-parallel win).
//
// A SignatureBuilder is safe to reuse across any number of Build calls, but
// Close must be called when it is no longer needed to release its worker
// pool.
type SignatureBuilder struct {
	weakFactory   RollingChecksumFactory
	strongFactory StrongHashFactory
	format        uint32
	pool          *parallel.Pool
}

// NewSignatureBuilder creates a SignatureBuilder using the default
// Adler-32/MD5 pairing (FormatAdler32MD5). workers controls the size of the
// internal worker pool; zero or negative selects the number of logical CPUs.
func NewSignatureBuilder(workers int) *SignatureBuilder {
	return NewSignatureBuilderWithAlgorithms(NewRollingAdler32, NewMD5, FormatAdler32MD5, workers)
}

// NewSignatureBuilderWithAlgorithms creates a SignatureBuilder using the
// given weak-checksum and strong-hash algorithms, tagging every signature it
// builds with format.
func NewSignatureBuilderWithAlgorithms(weak RollingChecksumFactory, strong StrongHashFactory, format uint32, workers int) *SignatureBuilder {
	return &SignatureBuilder{
		weakFactory:   weak,
		strongFactory: strong,
		format:        format,
		pool:          parallel.NewPool(workers),
	}
}

// Close releases the builder's worker pool. The builder must not be used
// after Close returns.
func (b *SignatureBuilder) Close() {
	b.pool.Close()
}

// Build computes the signature of old content.
func (b *SignatureBuilder) Build(old []byte) *Signature {
	if len(old) == 0 {
		return &Signature{Format: b.format}
	}

	strongSize := b.strongFactory().Size()
	chunkSize := chooseChunkSize(len(old), 4, strongSize)
	chunkCount := chunkCountFor(len(old), chunkSize)

	chunks := make([]ChunkHash, chunkCount)
	b.pool.Run(int(chunkCount), func(i int) {
		start, end := chunkBounds(ChunkNumber(i), len(old), chunkSize)
		chunk := old[start:end]
		chunks[i] = ChunkHash{
			Weak:   b.weakFactory(chunk).Checksum(),
			Strong: sumStrongHash(b.strongFactory, chunk),
		}
	})

	return &Signature{
		Format:    b.format,
		ChunkSize: chunkSize,
		Chunks:    chunks,
	}
}
