package rsyncformat

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/zshehov/rolling-in-the-diff/rsync"
)

func TestSignatureEncodeDecodeRoundTrip(t *testing.T) {
	builder := rsync.NewSignatureBuilder(2)
	defer builder.Close()

	r := rand.New(rand.NewSource(1))
	data := make([]byte, 20000)
	r.Read(data)
	sig := builder.Build(data)

	var buf bytes.Buffer
	if err := EncodeSignature(&buf, sig); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeSignature(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := decoded.EnsureValid(); err != nil {
		t.Fatalf("decoded signature is invalid: %v", err)
	}

	var reencoded bytes.Buffer
	if err := EncodeSignature(&reencoded, decoded); err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), reencoded.Bytes()) {
		t.Fatal("re-encoding a decoded signature did not reproduce identical bytes")
	}
}

func TestEmptySignatureEncodeDecodeRoundTrip(t *testing.T) {
	builder := rsync.NewSignatureBuilder(1)
	defer builder.Close()
	sig := builder.Build(nil)

	var buf bytes.Buffer
	if err := EncodeSignature(&buf, sig); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := DecodeSignature(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ChunkCount() != 0 {
		t.Fatalf("decoded chunk count = %d, expected 0", decoded.ChunkCount())
	}
}

func TestDeltaEncodeDecodeRoundTrip(t *testing.T) {
	builder := rsync.NewSignatureBuilder(2)
	defer builder.Close()

	old := make([]byte, 10000)
	rand.New(rand.NewSource(2)).Read(old)
	updated := append([]byte(nil), old[3000:]...)
	updated = append(updated, []byte("appended tail content")...)

	sig := builder.Build(old)
	delta := rsync.GenerateDelta(sig, updated, rsync.NewRollingAdler32, rsync.NewMD5, nil)

	var buf bytes.Buffer
	if err := EncodeDelta(&buf, delta); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeDelta(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if err := decoded.EnsureValid(); err != nil {
		t.Fatalf("decoded delta is invalid: %v", err)
	}
	if len(decoded.Tokens) != len(delta.Tokens) {
		t.Fatalf("decoded token count = %d, expected %d", len(decoded.Tokens), len(delta.Tokens))
	}

	patched, err := rsync.PatchBytes(old, decoded, rsync.NewMD5, rsync.FormatAdler32MD5, nil)
	if err != nil {
		t.Fatalf("patch from decoded delta failed: %v", err)
	}
	if !bytes.Equal(patched, updated) {
		t.Fatal("patching with a decoded delta did not reproduce the expected content")
	}

	var reencoded bytes.Buffer
	if err := EncodeDelta(&reencoded, decoded); err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), reencoded.Bytes()) {
		t.Fatal("re-encoding a decoded delta did not reproduce identical bytes")
	}
}

func TestDecodeSignatureRejectsWrongMagic(t *testing.T) {
	if _, err := DecodeSignature(bytes.NewReader([]byte("not a signature file"))); err == nil {
		t.Fatal("expected an error decoding a non-signature file")
	}
}

func TestDecodeDeltaRejectsWrongMagic(t *testing.T) {
	var buf bytes.Buffer
	builder := rsync.NewSignatureBuilder(1)
	defer builder.Close()
	EncodeSignature(&buf, builder.Build([]byte("hello")))

	if _, err := DecodeDelta(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatal("expected an error decoding a signature file as a delta")
	}
}
