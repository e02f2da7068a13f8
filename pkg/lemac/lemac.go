// Package lemac implements the LeMac nonce-based MAC: a Universal Hash
// Function built from keyless AES rounds over a 9-lane state, followed by a
// finalization phase that mixes the nonce and per-lane subkeys through the
// aes_modified permutation.
package lemac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/mac"
)

// trailingZeroChunks returns how many all-zero chunks LeMac appends after
// padding, draining the feedback delay line fully into the state: v1 adds
// one extra register stage (RR) over v0, so it needs one more chunk.
func trailingZeroChunks(version int) int {
	if version == V1 {
		return 4
	}

	return 3
}

// Tag computes the LeMac tag of message under key and nonce for the given
// version (V0 or V1). key and nonce must each be exactly 16 bytes.
func Tag(key, nonce, message []byte, version int) (Block, error) {
	sched, err := DeriveSchedule(key)
	if err != nil {
		return Block{}, err
	}

	return TagWithSchedule(sched, nonce, message, version)
}

// TagWithSchedule computes a tag reusing a precomputed Schedule, avoiding
// re-deriving subkeys on every call for callers sharing one key across many
// messages.
func TagWithSchedule(sched Schedule, nonce, message []byte, version int) (Block, error) {
	if version != V0 && version != V1 {
		return Block{}, errorcodes.ErrUnsupportedVersion
	}
	if len(nonce) != 16 {
		return Block{}, errorcodes.ErrInvalidNonceLength
	}

	var n Block
	copy(n[:], nonce)

	padded := mac.Pad(message, ChunkSize)
	padded = append(padded, make([]byte, trailingZeroChunks(version)*ChunkSize)...)

	state := sched.Init
	uhf(&state, padded, version)

	return finalize(sched, n, state), nil
}

// V1Tagger computes LeMac v1 tags, satisfying mac.Tagger. v1 is the default
// version per the public interface (spec §6.1).
type V1Tagger struct{}

func (V1Tagger) Tag(key, nonce, message []byte) (Block, error) {
	return Tag(key, nonce, message, V1)
}

// V0Tagger computes LeMac v0 tags, satisfying mac.Tagger.
type V0Tagger struct{}

func (V0Tagger) Tag(key, nonce, message []byte) (Block, error) {
	return Tag(key, nonce, message, V0)
}

var (
	_ mac.Tagger = V1Tagger{}
	_ mac.Tagger = V0Tagger{}
)
