package rsyncformat

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zshehov/rolling-in-the-diff/internal/logging"
	"github.com/zshehov/rolling-in-the-diff/rsync"
)

// writeFileAtomic writes data to a temporary file in the same directory as
// path and then renames it into place, so that a reader never observes a
// partially-written file and a crash mid-write never corrupts an existing
// file at path. This mirrors the teacher's filesystem.WriteFileAtomic.
func writeFileAtomic(path string, data []byte, permissions os.FileMode) error {
	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, ".rdiff-*.tmp")
	if err != nil {
		return &IoFailureError{Err: err}
	}
	tempPath := temporary.Name()

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		os.Remove(tempPath)
		return &IoFailureError{Err: err}
	}
	if err := temporary.Close(); err != nil {
		os.Remove(tempPath)
		return &IoFailureError{Err: err}
	}
	if err := os.Chmod(tempPath, permissions); err != nil {
		os.Remove(tempPath)
		return &IoFailureError{Err: err}
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &IoFailureError{Err: err}
	}
	return nil
}

// runID is stamped into trace-level log lines emitted by this package so
// that the sequence of log lines produced by a single signature/delta/patch
// invocation can be correlated, even when multiple invocations interleave
// their output (e.g. concurrent CI jobs writing to a shared log stream).
// The identifier is generated once per process and shared by every call.
func runID() string {
	return invocationID
}

// invocationID is the identifier returned by runID.
var invocationID = uuid.NewString()

// SaveSignature encodes sig and atomically writes it to path.
func SaveSignature(path string, sig *rsync.Signature, logger *logging.Logger) error {
	id := runID()
	logger.Tracef("[%s] encoding signature with %d chunks", id, sig.ChunkCount())

	var buf bytes.Buffer
	if err := EncodeSignature(&buf, sig); err != nil {
		return errors.Wrap(err, "unable to encode signature")
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "unable to write signature to %s", path)
	}

	logger.Tracef("[%s] wrote signature to %s (%d bytes)", id, path, buf.Len())
	return nil
}

// LoadSignature reads and decodes a signature previously written by
// SaveSignature.
func LoadSignature(path string, logger *logging.Logger) (*rsync.Signature, error) {
	id := runID()
	logger.Tracef("[%s] reading signature from %s", id, path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(&IoFailureError{Err: err}, "unable to open %s", path)
	}
	defer f.Close()

	sig, err := DecodeSignature(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode signature from %s", path)
	}

	logger.Tracef("[%s] decoded signature with %d chunks", id, sig.ChunkCount())
	return sig, nil
}

// SaveDelta encodes delta and atomically writes it to path.
func SaveDelta(path string, delta *rsync.Delta, logger *logging.Logger) error {
	id := runID()
	logger.Tracef("[%s] encoding delta with %d tokens", id, len(delta.Tokens))

	var buf bytes.Buffer
	if err := EncodeDelta(&buf, delta); err != nil {
		return errors.Wrap(err, "unable to encode delta")
	}
	if err := writeFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "unable to write delta to %s", path)
	}

	logger.Tracef("[%s] wrote delta to %s (%d bytes)", id, path, buf.Len())
	return nil
}

// LoadDelta reads and decodes a delta previously written by SaveDelta.
func LoadDelta(path string, logger *logging.Logger) (*rsync.Delta, error) {
	id := runID()
	logger.Tracef("[%s] reading delta from %s", id, path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(&IoFailureError{Err: err}, "unable to open %s", path)
	}
	defer f.Close()

	delta, err := DecodeDelta(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode delta from %s", path)
	}

	logger.Tracef("[%s] decoded delta with %d tokens", id, len(delta.Tokens))
	return delta, nil
}
