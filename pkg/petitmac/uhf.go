package petitmac

import "github.com/go-lemac/lemacd/pkg/aes128"

func xorBlock(a, b Block) Block {
	var out Block
	for i := range out {
		out[i] = a[i] ^ b[i]
	}

	return out
}

func blockAt(message []byte, i int) Block {
	var b Block
	copy(b[:], message[i*BlockSize:(i+1)*BlockSize])

	return b
}

// registers holds the five feedback delay stages threaded through the
// PetitMAC UHF, carried forward into finalization alongside the lane
// state.
type registers struct {
	R0, R1, R2, R3, R4 Block
}

// stepBlock absorbs message block i into state and advances r, mutating
// both in place. It is the single source of truth for one UHF iteration,
// shared by the bulk uhf loop and the step-through Tracer.
func stepBlock(state *Block, r *registers, message []byte, i int) {
	m := blockAt(message, i)

	t := xorBlock(aes128.RoundNoKey(*state), m)
	t = xorBlock(t, r.R4)

	newR0 := xorBlock(m, r.R3)
	newR1 := xorBlock(r.R4, newR0)
	newR2 := xorBlock(r.R4, r.R0)
	newR3 := r.R1
	newR4 := r.R2

	*state = xorBlock(aes128.RoundNoKey(t), newR0)

	r.R0, r.R1, r.R2, r.R3, r.R4 = newR0, newR1, newR2, newR3, newR4
}

// uhf runs the PetitMAC Universal Hash Function over message (already
// padded to a multiple of BlockSize), mutating state in place and
// returning the final register values.
//
// Unlike LeMac's 9-lane state, PetitMAC keeps a single lane; the five
// registers carry the delay that LeMac spreads across its extra lanes.
func uhf(state *Block, message []byte) registers {
	var r registers

	numBlocks := len(message) / BlockSize
	for i := 0; i < numBlocks; i++ {
		stepBlock(state, &r, message, i)
	}

	return r
}
