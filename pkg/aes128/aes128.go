// Package aes128 implements the bare AES-128 round primitives the LeMac and
// PetitMac cores are built from: SubBytes, ShiftRows, MixColumns,
// AddRoundKey, a standard key-scheduled EncryptBlock, a single keyless round
// (RoundNoKey) and the externally-keyed, final-round-truncated permutation
// the cores call Modified. The standard library's crypto/aes does not
// expose any of these, so this package owns the math end to end.
package aes128

import "errors"

// Block is the 16-byte unit used throughout. Its natural byte order is
// already AES's own column-major state layout: byte i sits at column i/4,
// row i%4, so a Block doubles as wire bytes and as AES state without any
// repacking.
type Block = [16]byte

// ErrInvalidKeyLength is returned by EncryptBlock when the key is not 16 bytes.
var ErrInvalidKeyLength = errors.New("aes128: key must be 16 bytes")

// sbox is the standard AES S-box.
var sbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

// rcon holds the round constants used by the AES-128 key schedule, indexed
// from the first expanded word (round 1).
var rcon = [10]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// xtime multiplies a by x in GF(2^8) modulo the AES reduction polynomial.
func xtime(a byte) byte {
	if a&0x80 != 0 {
		return (a << 1) ^ 0x1b
	}

	return a << 1
}

// mul2 and mul3 are the only GF(2^8) multiplications MixColumns needs in the
// forward (encrypt-only) direction this package implements.
func mul2(a byte) byte { return xtime(a) }
func mul3(a byte) byte { return xtime(a) ^ a }

// SubBytes applies the AES S-box to every byte of state, in place.
func SubBytes(state *Block) {
	for i := range state {
		state[i] = sbox[state[i]]
	}
}

// ShiftRows performs the AES row rotation over the column-major state, in
// place. Row r (bytes r, r+4, r+8, r+12) is rotated left by r positions.
func ShiftRows(state *Block) {
	state[1], state[5], state[9], state[13] = state[5], state[9], state[13], state[1]
	state[2], state[6], state[10], state[14] = state[10], state[14], state[2], state[6]
	state[3], state[7], state[11], state[15] = state[15], state[3], state[7], state[11]
}

// MixColumns mixes each column of the state with the AES MDS matrix, in place.
func MixColumns(state *Block) {
	for c := 0; c < 4; c++ {
		i := c * 4
		a0, a1, a2, a3 := state[i], state[i+1], state[i+2], state[i+3]
		state[i] = mul2(a0) ^ mul3(a1) ^ a2 ^ a3
		state[i+1] = a0 ^ mul2(a1) ^ mul3(a2) ^ a3
		state[i+2] = a0 ^ a1 ^ mul2(a2) ^ mul3(a3)
		state[i+3] = mul3(a0) ^ a1 ^ a2 ^ mul2(a3)
	}
}

// AddRoundKey XORs a raw 16-byte key block directly into state, in place.
// This is the form aes_modified uses: its subkeys are AES-encrypted
// constants, not a key-scheduled round-key sequence.
func AddRoundKey(state *Block, key Block) {
	for i := range state {
		state[i] ^= key[i]
	}
}

// RoundNoKey applies one AES round (SubBytes, ShiftRows, MixColumns) with no
// key addition, returning a new block. This is the UHF's keyless AES round.
func RoundNoKey(in Block) Block {
	out := in
	SubBytes(&out)
	ShiftRows(&out)
	MixColumns(&out)

	return out
}

// Modified implements aes_modified: a 10-round, externally-keyed AES-like
// permutation that omits the AddRoundKey after its final round. subkeys must
// hold exactly 10 blocks (K[0]..K[9]); K[0] is added before the round loop,
// K[1]..K[9] are added after rounds 0..8, and round 9 gets no trailing key.
func Modified(plaintext Block, subkeys [10]Block) Block {
	state := plaintext
	AddRoundKey(&state, subkeys[0])

	for round := 0; round < 10; round++ {
		SubBytes(&state)
		ShiftRows(&state)
		MixColumns(&state)

		if round != 9 {
			AddRoundKey(&state, subkeys[round+1])
		}
	}

	return state
}

// expandKey runs the standard AES-128 key schedule, returning the 44 round
// words w[0..43] (11 round keys of 4 words each).
func expandKey(key Block) [44]uint32 {
	var w [44]uint32
	for i := 0; i < 4; i++ {
		w[i] = uint32(key[4*i])<<24 | uint32(key[4*i+1])<<16 | uint32(key[4*i+2])<<8 | uint32(key[4*i+3])
	}

	for i := 4; i < 44; i++ {
		temp := w[i-1]
		if i%4 == 0 {
			temp = subWord(rotWord(temp)) ^ uint32(rcon[i/4-1])<<24
		}
		w[i] = w[i-4] ^ temp
	}

	return w
}

func rotWord(w uint32) uint32 {
	return (w << 8) | (w >> 24)
}

func subWord(w uint32) uint32 {
	return uint32(sbox[byte(w>>24)])<<24 |
		uint32(sbox[byte(w>>16)])<<16 |
		uint32(sbox[byte(w>>8)])<<8 |
		uint32(sbox[byte(w)])
}

// addScheduledRoundKey XORs round key `round` (4 words from the expanded
// schedule) into state, in place.
func addScheduledRoundKey(state *Block, w [44]uint32, round int) {
	for c := 0; c < 4; c++ {
		k := w[round*4+c]
		i := c * 4
		state[i] ^= byte(k >> 24)
		state[i+1] ^= byte(k >> 16)
		state[i+2] ^= byte(k >> 8)
		state[i+3] ^= byte(k)
	}
}

// EncryptBlock performs a standard AES-128 single-block encryption. This is
// the `encrypt_block` collaborator the MAC cores use for subkey derivation,
// the nonce mask, and the tag finalization mask.
func EncryptBlock(key, plaintext Block) Block {
	w := expandKey(key)
	state := plaintext

	addScheduledRoundKey(&state, w, 0)

	for round := 1; round < 10; round++ {
		SubBytes(&state)
		ShiftRows(&state)
		MixColumns(&state)
		addScheduledRoundKey(&state, w, round)
	}

	SubBytes(&state)
	ShiftRows(&state)
	addScheduledRoundKey(&state, w, 10)

	return state
}
