package rsync

import (
	"github.com/pkg/errors"
)

// TokenKind identifies which of the three delta token variants a Token
// represents.
type TokenKind uint8

const (
	// TokenAdded indicates literal bytes from the new content that have no
	// match in the old content.
	TokenAdded TokenKind = iota
	// TokenReused indicates a chunk of the new content that is identical to
	// a chunk of the old content, identified by chunk number.
	TokenReused
	// TokenRemoved indicates a chunk of the old content that was not reused
	// anywhere in the new content. Removed tokens carry no reconstruction
	// information; they exist purely so that a consumer of the delta (e.g.
	// a cache eviction policy) can learn which old chunks are now dead
	// without having to diff the reused set itself.
	TokenRemoved
)

// String returns a human-readable name for a TokenKind.
func (k TokenKind) String() string {
	switch k {
	case TokenAdded:
		return "added"
	case TokenReused:
		return "reused"
	case TokenRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Token is a single instruction in a Delta's token stream.
type Token struct {
	Kind TokenKind

	// Data holds the literal bytes of an Added token. It is unset for
	// Reused and Removed tokens.
	Data []byte

	// Chunk identifies the old chunk referenced by a Reused or Removed
	// token. It is unset (zero) for Added tokens.
	Chunk ChunkNumber

	// Strong holds the expected strong hash of the chunk referenced by a
	// Reused token, copied from the signature at the time the match was
	// found. It is used by Patch to verify the chunk before reuse. It is
	// unset for Added and Removed tokens.
	Strong []byte
}

// AddedToken creates a Token carrying literal bytes. The provided slice is
// copied so that the token does not alias caller-owned memory.
func AddedToken(data []byte) Token {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Token{Kind: TokenAdded, Data: cp}
}

// ReusedToken creates a Token referencing a reused chunk of old content.
func ReusedToken(chunk ChunkNumber, strong []byte) Token {
	cp := make([]byte, len(strong))
	copy(cp, strong)
	return Token{Kind: TokenReused, Chunk: chunk, Strong: cp}
}

// RemovedToken creates a Token marking an old chunk as unreused.
func RemovedToken(chunk ChunkNumber) Token {
	return Token{Kind: TokenRemoved, Chunk: chunk}
}

// EnsureValid verifies that a token's invariants are respected.
func (t *Token) EnsureValid() error {
	if t == nil {
		return errors.New("nil token")
	}
	switch t.Kind {
	case TokenAdded:
		if len(t.Data) == 0 {
			return errors.New("added token with no data")
		}
	case TokenReused:
		if len(t.Strong) == 0 {
			return errors.New("reused token with no strong hash")
		}
	case TokenRemoved:
		// No further constraints.
	default:
		return errors.Errorf("unknown token kind %d", t.Kind)
	}
	return nil
}

// Delta is the ordered token stream produced by GenerateDelta, sufficient
// (together with the old content) to reconstruct the new content via Patch.
type Delta struct {
	// Format must match the Format of the signature used to build this
	// delta's Reused tokens; Patch rejects a delta whose Format does not
	// match the weak-checksum/strong-hash pairing it was built with.
	Format uint32
	// ChunkSize is the chunk size used by the signature this delta was
	// generated against, copied so that Patch can partition the old content
	// identically without needing the signature itself.
	ChunkSize uint64
	// Tokens is the delta's token stream, in new-content order for Added
	// and Reused tokens, followed by Removed tokens in ascending chunk
	// number.
	Tokens []Token
}

// EnsureValid verifies that a delta's invariants are respected.
func (d *Delta) EnsureValid() error {
	if d == nil {
		return errors.New("nil delta")
	}
	for i := range d.Tokens {
		if err := d.Tokens[i].EnsureValid(); err != nil {
			return errors.Wrapf(err, "invalid token at index %d", i)
		}
	}
	return nil
}
