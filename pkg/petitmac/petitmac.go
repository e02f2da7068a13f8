package petitmac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/mac"
)

// Tag computes the PetitMAC tag of message under key and nonce. key and
// nonce must each be exactly 16 bytes.
func Tag(key, nonce, message []byte) (Block, error) {
	sched, err := DeriveSchedule(key)
	if err != nil {
		return Block{}, err
	}

	return TagWithSchedule(sched, nonce, message)
}

// TagWithSchedule computes a tag reusing a precomputed Schedule, avoiding
// re-deriving subkeys on every call for callers sharing one key across many
// messages.
func TagWithSchedule(sched Schedule, nonce, message []byte) (Block, error) {
	if len(nonce) != 16 {
		return Block{}, errorcodes.ErrInvalidNonceLength
	}

	var n Block
	copy(n[:], nonce)

	padded := mac.Pad(message, BlockSize)

	state := sched.Init
	r := uhf(&state, padded)

	return finalize(sched, n, state, r), nil
}

// Tagger computes PetitMAC tags, satisfying mac.Tagger.
type Tagger struct{}

func (Tagger) Tag(key, nonce, message []byte) (Block, error) {
	return Tag(key, nonce, message)
}

var _ mac.Tagger = Tagger{}
