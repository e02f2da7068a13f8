// Package petitmac implements PetitMAC, the lightweight sibling of LeMac:
// a single-lane Universal Hash Function driven by five feedback registers,
// finalized the same way as LeMac by mixing the nonce and per-register
// subkeys through aes_modified.
package petitmac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/aes128"
)

// Block is the 16-byte unit PetitMAC operates on.
type Block = aes128.Block

// BlockSize is the UHF absorption unit: one AES block per step, unlike
// LeMac's four-block chunk.
const BlockSize = 16

// Schedule holds the subkeys derived once per key: the single UHF init
// block, 15 finalization subkeys (six overlapping 10-block windows, one
// per state/register), and two nonce keys.
type Schedule struct {
	Init      Block
	Final     [15]Block
	NonceKey1 Block
	NonceKey2 Block
}

// constant returns the 16-byte block AES_enc is applied to when deriving
// subkey i: first byte i, the rest zero. Shared layout with lemac, but
// kept package-local since the two subkey spaces never interact.
func constant(i byte) Block {
	var c Block
	c[0] = i

	return c
}

// DeriveSchedule derives and returns the subkey schedule for key. key must
// be exactly 16 bytes.
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

	s.Init = aes128.EncryptBlock(key, constant(0))

	for j := 0; j < 15; j++ {
		s.Final[j] = aes128.EncryptBlock(key, constant(byte(1+j)))
	}

	s.NonceKey1 = aes128.EncryptBlock(key, constant(16))
	s.NonceKey2 = aes128.EncryptBlock(key, constant(17))

	return s
}
