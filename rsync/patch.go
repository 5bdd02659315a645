package rsync

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/zshehov/rolling-in-the-diff/internal/logging"
)

// VersionMismatchError indicates that a delta's Format does not match the
// format the patcher was configured to expect, which almost always means
// the delta was generated against a signature using a different
// weak-checksum/strong-hash pairing than the one Patch is using to verify
// reused chunks.
type VersionMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("delta format %d does not match expected format %d", e.Actual, e.Expected)
}

// ChunkOutOfBoundError indicates that a Reused token referenced a chunk
// number that does not exist in the old content being patched, given the
// delta's chunk size.
type ChunkOutOfBoundError struct {
	Chunk           ChunkNumber
	ChunkSize       uint64
	OldContentLength int
}

func (e *ChunkOutOfBoundError) Error() string {
	return fmt.Sprintf(
		"chunk %d (size %d) is out of bounds for old content of length %d",
		e.Chunk, e.ChunkSize, e.OldContentLength,
	)
}

// ChunkHashMismatchError indicates that the bytes of the old content at a
// Reused token's chunk number do not hash to the strong hash recorded in the
// token, meaning the old content provided to Patch does not match the old
// content the delta was generated against.
type ChunkHashMismatchError struct {
	Chunk ChunkNumber
}

func (e *ChunkHashMismatchError) Error() string {
	return fmt.Sprintf("chunk %d failed strong hash verification during patch", e.Chunk)
}

// OutputFailureError wraps an error returned by the patch destination writer.
type OutputFailureError struct {
	Err error
}

func (e *OutputFailureError) Error() string {
	return fmt.Sprintf("failed to write patch output: %v", e.Err)
}

func (e *OutputFailureError) Unwrap() error {
	return e.Err
}

// Patch reconstructs new content by applying delta's token stream against
// old content, writing the result to destination. strongFactory must use
// the same strong-hash algorithm the delta's signature was built with
// (expectedFormat is checked against delta.Format before any tokens are
// applied).
//
// Reused tokens are verified against the recorded strong hash before their
// bytes are written; Removed tokens carry no reconstruction payload and are
// skipped, logging the dropped chunk number at Debug level through logger
// (logger may be nil, in which case logging is a no-op, matching the
// nil-safe *logging.Logger used throughout this package). For performance
// reasons no other token invariants are checked; callers that don't trust
// the delta's origin should call delta.EnsureValid first.
func Patch(old []byte, delta *Delta, destination io.Writer, strongFactory StrongHashFactory, expectedFormat uint32, logger *logging.Logger) error {
	if delta.Format != expectedFormat {
		return &VersionMismatchError{Expected: expectedFormat, Actual: delta.Format}
	}

	for _, token := range delta.Tokens {
		switch token.Kind {
		case TokenAdded:
			if _, err := destination.Write(token.Data); err != nil {
				return &OutputFailureError{Err: err}
			}
		case TokenReused:
			if delta.ChunkSize == 0 {
				return &ChunkOutOfBoundError{Chunk: token.Chunk, ChunkSize: delta.ChunkSize, OldContentLength: len(old)}
			}
			start, end := chunkBounds(token.Chunk, len(old), delta.ChunkSize)
			if start >= len(old) || start >= end {
				return &ChunkOutOfBoundError{Chunk: token.Chunk, ChunkSize: delta.ChunkSize, OldContentLength: len(old)}
			}
			chunk := old[start:end]
			if !bytes.Equal(sumStrongHash(strongFactory, chunk), token.Strong) {
				return &ChunkHashMismatchError{Chunk: token.Chunk}
			}
			if _, err := destination.Write(chunk); err != nil {
				return &OutputFailureError{Err: err}
			}
		case TokenRemoved:
			logger.Debugf("chunk %d dropped (no longer present in new content)", token.Chunk)
		default:
			return errors.Errorf("unknown token kind %d", token.Kind)
		}
	}

	return nil
}

// PatchBytes is a convenience wrapper around Patch for in-memory old and new
// content.
func PatchBytes(old []byte, delta *Delta, strongFactory StrongHashFactory, expectedFormat uint32, logger *logging.Logger) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Patch(old, delta, &buffer, strongFactory, expectedFormat, logger); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
