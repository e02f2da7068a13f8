package lemac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/aes128"
)

// Block is the 16-byte unit LeMac operates on.
type Block = aes128.Block

// ChunkSize is the UHF absorption unit: 64 bytes, four blocks per chunk.
const ChunkSize = 64

// Version selects between the two LeMac variants.
const (
	V0 = 0
	V1 = 1
)

// Schedule holds the subkeys derived once per key: 9 UHF init blocks, 18
// finalization subkeys (9 overlapping 10-block windows, one per lane), and
// two nonce keys. All of it is a pure function of the key, so it can be
// computed once and reused across every MAC call sharing that key.
type Schedule struct {
	Init      [9]Block
	Final     [18]Block
	NonceKey1 Block
	NonceKey2 Block
}

// constant returns the 16-byte block AES_enc is applied to when deriving
// subkey i: first byte i, the rest zero.
func constant(i byte) Block {
	var c Block
	c[0] = i

	return c
}

// DeriveSchedule derives and returns the subkey schedule for key. Callers
// making many MAC calls under the same key should derive this once and
// reuse it via TagWithSchedule, amortizing the 29 AES encryptions key
// derivation costs.
func DeriveSchedule(key []byte) (Schedule, error) {
	if len(key) != 16 {
		return Schedule{}, errorcodes.ErrInvalidKeyLength
	}

	var k Block
	copy(k[:], key)

	return deriveSchedule(k), nil
}

func deriveSchedule(key Block) Schedule {
	var s Schedule

	for i := 0; i < 9; i++ {
		s.Init[i] = aes128.EncryptBlock(key, constant(byte(i)))
	}

	for j := 0; j < 18; j++ {
		s.Final[j] = aes128.EncryptBlock(key, constant(byte(9+j)))
	}

	s.NonceKey1 = aes128.EncryptBlock(key, constant(27))
	s.NonceKey2 = aes128.EncryptBlock(key, constant(28))

	return s
}
