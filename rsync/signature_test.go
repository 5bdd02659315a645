package rsync

import (
	"math/rand"
	"testing"
)

func TestSignatureBuilderEmptyContent(t *testing.T) {
	b := NewSignatureBuilder(2)
	defer b.Close()

	sig := b.Build(nil)
	if err := sig.EnsureValid(); err != nil {
		t.Fatalf("empty signature is invalid: %v", err)
	}
	if !sig.isEmpty() {
		t.Fatal("expected signature of empty content to be empty")
	}
	if sig.ChunkCount() != 0 {
		t.Fatalf("chunk count = %d, expected 0", sig.ChunkCount())
	}
}

func TestSignatureBuilderNonEmptyContentIsValid(t *testing.T) {
	b := NewSignatureBuilder(4)
	defer b.Close()

	r := rand.New(rand.NewSource(42))
	data := make([]byte, 100000)
	r.Read(data)

	sig := b.Build(data)
	if err := sig.EnsureValid(); err != nil {
		t.Fatalf("signature is invalid: %v", err)
	}
	if sig.isEmpty() {
		t.Fatal("expected non-empty signature")
	}
	if sig.Format != FormatAdler32MD5 {
		t.Fatalf("format = %d, expected %d", sig.Format, FormatAdler32MD5)
	}

	var covered int
	for i := range sig.Chunks {
		start, end := chunkBounds(ChunkNumber(i), len(data), sig.ChunkSize)
		if start != covered {
			t.Fatalf("chunk %d starts at %d, expected %d", i, start, covered)
		}
		covered = end
	}
	if covered != len(data) {
		t.Fatalf("chunks covered %d bytes, expected %d", covered, len(data))
	}
}

func TestSignatureBuilderDeterministic(t *testing.T) {
	b1 := NewSignatureBuilder(1)
	defer b1.Close()
	b4 := NewSignatureBuilder(4)
	defer b4.Close()

	r := rand.New(rand.NewSource(7))
	data := make([]byte, 50000)
	r.Read(data)

	sig1 := b1.Build(data)
	sig4 := b4.Build(data)

	if sig1.ChunkSize != sig4.ChunkSize || len(sig1.Chunks) != len(sig4.Chunks) {
		t.Fatalf("signatures built with different worker counts disagree on shape")
	}
	for i := range sig1.Chunks {
		if sig1.Chunks[i].Weak != sig4.Chunks[i].Weak {
			t.Fatalf("chunk %d weak checksum differs across worker counts", i)
		}
		if string(sig1.Chunks[i].Strong) != string(sig4.Chunks[i].Strong) {
			t.Fatalf("chunk %d strong hash differs across worker counts", i)
		}
	}
}

func TestSignatureEnsureValidRejectsNil(t *testing.T) {
	var sig *Signature
	if err := sig.EnsureValid(); err == nil {
		t.Fatal("expected nil signature to be invalid")
	}
}

func TestSignatureEnsureValidRejectsInconsistentChunkSize(t *testing.T) {
	sig := &Signature{ChunkSize: 0, Chunks: []ChunkHash{{Weak: 1, Strong: []byte{1}}}}
	if err := sig.EnsureValid(); err == nil {
		t.Fatal("expected signature with zero chunk size but non-zero chunks to be invalid")
	}

	sig = &Signature{ChunkSize: 10, Chunks: nil}
	if err := sig.EnsureValid(); err == nil {
		t.Fatal("expected signature with non-zero chunk size but zero chunks to be invalid")
	}
}

func TestSignatureWeakIndexGroupsCollidingChunks(t *testing.T) {
	sig := &Signature{
		ChunkSize: 4,
		Chunks: []ChunkHash{
			{Weak: 1, Strong: []byte{0xAA}},
			{Weak: 1, Strong: []byte{0xBB}},
			{Weak: 2, Strong: []byte{0xCC}},
		},
	}
	index := sig.weakIndex()
	if len(index[1]) != 2 {
		t.Fatalf("expected 2 chunks indexed under weak checksum 1, got %d", len(index[1]))
	}
	if index[1][0].Chunk != 0 || index[1][1].Chunk != 1 {
		t.Fatalf("expected chunks indexed in ascending chunk-number order, got %v", index[1])
	}
	if len(index[2]) != 1 || index[2][0].Chunk != 2 {
		t.Fatalf("unexpected index entry for weak checksum 2: %v", index[2])
	}
}
