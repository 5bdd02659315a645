package rsync

import "testing"

// buildSignatureWithChunkSize partitions old into chunks of exactly
// chunkSize (the last possibly shorter) and hashes them directly, bypassing
// the chunk-size heuristic, so that scenario tests can use the small,
// hand-checkable chunk sizes used throughout the specification's worked
// examples.
func buildSignatureWithChunkSize(old []byte, chunkSize uint64) *Signature {
	if len(old) == 0 {
		return &Signature{Format: FormatAdler32MD5}
	}
	count := chunkCountFor(len(old), chunkSize)
	chunks := make([]ChunkHash, count)
	for i := range chunks {
		start, end := chunkBounds(ChunkNumber(i), len(old), chunkSize)
		chunk := old[start:end]
		chunks[i] = ChunkHash{
			Weak:   NewRollingAdler32(chunk).Checksum(),
			Strong: sumStrongHash(NewMD5, chunk),
		}
	}
	return &Signature{Format: FormatAdler32MD5, ChunkSize: chunkSize, Chunks: chunks}
}

func assertAdded(t *testing.T, tok Token, want []byte) {
	t.Helper()
	if tok.Kind != TokenAdded {
		t.Fatalf("token kind = %v, expected added", tok.Kind)
	}
	if string(tok.Data) != string(want) {
		t.Fatalf("added token data = %v, expected %v", tok.Data, want)
	}
}

func assertReused(t *testing.T, tok Token, chunk ChunkNumber, chunkBytes []byte) {
	t.Helper()
	if tok.Kind != TokenReused {
		t.Fatalf("token kind = %v, expected reused", tok.Kind)
	}
	if tok.Chunk != chunk {
		t.Fatalf("reused token chunk = %d, expected %d", tok.Chunk, chunk)
	}
	want := sumStrongHash(NewMD5, chunkBytes)
	if string(tok.Strong) != string(want) {
		t.Fatalf("reused token strong hash mismatch for chunk %d", chunk)
	}
}

func assertRemoved(t *testing.T, tok Token, chunk ChunkNumber) {
	t.Helper()
	if tok.Kind != TokenRemoved {
		t.Fatalf("token kind = %v, expected removed", tok.Kind)
	}
	if tok.Chunk != chunk {
		t.Fatalf("removed token chunk = %d, expected %d", tok.Chunk, chunk)
	}
}

func TestScenarioAlignedModification(t *testing.T) {
	old := []byte{1, 2, 3, 4, 5, 6}
	sig := buildSignatureWithChunkSize(old, 3)
	delta := GenerateDelta(sig, []byte{0, 1, 2, 4, 5, 6}, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 3 {
		t.Fatalf("got %d tokens, expected 3: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertAdded(t, delta.Tokens[0], []byte{0, 1, 2})
	assertReused(t, delta.Tokens[1], 1, []byte{4, 5, 6})
	assertRemoved(t, delta.Tokens[2], 0)
}

func TestScenarioShortFinalChunk(t *testing.T) {
	old := []byte{1, 2, 3, 4, 5}
	sig := buildSignatureWithChunkSize(old, 3)
	delta := GenerateDelta(sig, []byte{0, 1, 2, 4, 5}, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 3 {
		t.Fatalf("got %d tokens, expected 3: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertAdded(t, delta.Tokens[0], []byte{0, 1, 2})
	assertReused(t, delta.Tokens[1], 1, []byte{4, 5})
	assertRemoved(t, delta.Tokens[2], 0)
}

func TestScenarioSwapOfFullChunks(t *testing.T) {
	old := []byte{1, 2, 3, 4, 5, 6}
	sig := buildSignatureWithChunkSize(old, 3)
	delta := GenerateDelta(sig, []byte{4, 5, 6, 1, 2, 3}, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 2 {
		t.Fatalf("got %d tokens, expected 2: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertReused(t, delta.Tokens[0], 1, []byte{4, 5, 6})
	assertReused(t, delta.Tokens[1], 0, []byte{1, 2, 3})
}

func TestScenarioSwapWithShortChunk(t *testing.T) {
	old := []byte{1, 2, 3, 4, 5}
	sig := buildSignatureWithChunkSize(old, 3)
	delta := GenerateDelta(sig, []byte{4, 5, 1, 2, 3}, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 3 {
		t.Fatalf("got %d tokens, expected 3: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertAdded(t, delta.Tokens[0], []byte{4, 5})
	assertReused(t, delta.Tokens[1], 0, []byte{1, 2, 3})
	assertRemoved(t, delta.Tokens[2], 1)
}

func TestScenarioEmptyNew(t *testing.T) {
	old := []byte{1, 2, 3}
	sig := buildSignatureWithChunkSize(old, 3)
	delta := GenerateDelta(sig, nil, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 1 {
		t.Fatalf("got %d tokens, expected 1: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertRemoved(t, delta.Tokens[0], 0)
}

func TestScenarioEmptySignature(t *testing.T) {
	sig := buildSignatureWithChunkSize(nil, 3)
	delta := GenerateDelta(sig, []byte{1, 2, 3}, NewRollingAdler32, NewMD5, nil)

	if len(delta.Tokens) != 1 {
		t.Fatalf("got %d tokens, expected 1: %+v", len(delta.Tokens), delta.Tokens)
	}
	assertAdded(t, delta.Tokens[0], []byte{1, 2, 3})
}
