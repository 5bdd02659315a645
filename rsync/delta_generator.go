package rsync

import (
	"bytes"

	"github.com/zshehov/rolling-in-the-diff/internal/logging"
)

// matchDescriptor describes a chunk match found by findReusedChunk within a
// tail of new content.
type matchDescriptor struct {
	// bytesUntilReused is the number of leading bytes of the scanned tail
	// that precede the match (and should become an Added token).
	bytesUntilReused int
	// reusedLength is the length, in bytes, of the matched region.
	reusedLength int
	// chunk is the old chunk number the match corresponds to.
	chunk ChunkNumber
	// strong is the strong hash recorded for chunk in the signature.
	strong []byte
}

// findReusedChunk scans tail for the earliest position at which a window of
// bytes matches, by weak checksum and then strong hash, a chunk recorded in
// index. The scanning window starts at chunkSize and shrinks by one byte at
// a time as it nears the end of tail, so that a short final chunk of the old
// content (when the old content's length isn't a multiple of chunkSize) can
// still be matched against the corresponding short trailing window of tail.
//
// It returns nil if no match is found anywhere in tail.
func findReusedChunk(index map[uint32][]chunkRef, chunkSize uint64, tail []byte, weakFactory RollingChecksumFactory, strongFactory StrongHashFactory) *matchDescriptor {
	windowSize := int(chunkSize)
	if windowSize > len(tail) {
		windowSize = len(tail)
	}
	if windowSize == 0 {
		return nil
	}

	checksum := weakFactory(tail[:windowSize])
	start, end := 0, windowSize

	for {
		if end-start == 0 {
			return nil
		}

		if candidates, ok := index[checksum.Checksum()]; ok {
			strong := sumStrongHash(strongFactory, tail[start:end])
			for _, c := range candidates {
				if bytes.Equal(c.Strong, strong) {
					return &matchDescriptor{
						bytesUntilReused: start,
						reusedLength:     end - start,
						chunk:            c.Chunk,
						strong:           c.Strong,
					}
				}
			}
		}

		outgoing := tail[start]
		windowLengthBeforePop := end - start
		checksum.PopByte(outgoing, windowLengthBeforePop)
		if end < len(tail) {
			checksum.PushByte(tail[end])
			end++
		}
		start++
	}
}

// GenerateDelta computes the token stream needed to reconstruct newContent
// from the old content that sig summarizes. sig may be shared concurrently
// across any number of simultaneous GenerateDelta calls without external
// synchronization.
//
// logger may be nil; when a matched chunk number falls outside the range
// recorded in sig (which should only happen if sig was tampered with, or
// came from a different, incompatible old content) the match is still
// honored as a Reused token, but the corresponding chunk cannot be marked
// reused for the purpose of computing Removed tokens, and a warning is
// logged naming the offending chunk number.
func GenerateDelta(sig *Signature, newContent []byte, weakFactory RollingChecksumFactory, strongFactory StrongHashFactory, logger *logging.Logger) *Delta {
	index := sig.weakIndex()
	reused := make([]bool, sig.ChunkCount())

	var tokens []Token
	left := 0
	for {
		match := findReusedChunk(index, sig.ChunkSize, newContent[left:], weakFactory, strongFactory)
		if match == nil {
			if left < len(newContent) {
				tokens = append(tokens, AddedToken(newContent[left:]))
			}
			for i := uint64(0); i < sig.ChunkCount(); i++ {
				if !reused[i] {
					tokens = append(tokens, RemovedToken(ChunkNumber(i)))
				}
			}
			return &Delta{
				Format:    sig.Format,
				ChunkSize: sig.ChunkSize,
				Tokens:    tokens,
			}
		}

		if match.bytesUntilReused > 0 {
			tokens = append(tokens, AddedToken(newContent[left:left+match.bytesUntilReused]))
			left += match.bytesUntilReused
		}
		tokens = append(tokens, ReusedToken(match.chunk, match.strong))
		left += match.reusedLength

		if uint64(match.chunk) < sig.ChunkCount() {
			reused[match.chunk] = true
		} else {
			logger.Warnf("matched chunk %d is out of range for a signature with %d chunks; not marking it reused", match.chunk, sig.ChunkCount())
		}
	}
}
