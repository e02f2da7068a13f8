package lemac

import "github.com/go-lemac/lemacd/pkg/aes128"

func xorBlock(a, b Block) Block {
	var out Block
	for i := range out {
		out[i] = a[i] ^ b[i]
	}

	return out
}

// chunkWord returns message word w (0..3) of chunk i: 16 bytes starting at
// offset (4*i+w)*16.
func chunkWord(message []byte, i, w int) Block {
	var b Block
	off := (4*i + w) * 16
	copy(b[:], message[off:off+16])

	return b
}

// feedback holds the delay-line registers carried between UHF chunks. v1
// carries one extra stage (rr) over v0.
type feedback struct {
	r0, r1, r2, rr Block
}

// stepChunk absorbs chunk i of message into state and advances fb,
// mutating both in place. It is the single source of truth for one UHF
// iteration, shared by the bulk uhf loop and the step-through Tracer so
// the two can never drift apart.
//
// The fresh state N is computed from a snapshot of the current state
// before any lane of S is overwritten — S[j-1] must still hold its
// pre-update value when N[j] is computed, so N is an explicit second
// buffer rather than an in-place update.
func stepChunk(state *[9]Block, fb *feedback, message []byte, i int, version int) {
	m0 := chunkWord(message, i, 0)
	m1 := chunkWord(message, i, 1)
	m2 := chunkWord(message, i, 2)
	m3 := chunkWord(message, i, 3)

	var n [9]Block
	n[0] = xorBlock(state[0], state[8])
	for j := 1; j < 9; j++ {
		n[j] = aes128.RoundNoKey(state[j-1])
	}

	state[0] = xorBlock(n[0], m2)
	state[1] = xorBlock(n[1], m3)
	state[2] = xorBlock(n[2], m3)
	state[3] = xorBlock(xorBlock(n[3], fb.r1), fb.r2)
	state[4] = xorBlock(n[4], m0)
	state[5] = xorBlock(n[5], m0)
	state[6] = xorBlock(n[6], m1)
	state[7] = xorBlock(n[7], m1)
	state[8] = xorBlock(n[8], m3)

	if version == V1 {
		fb.r2 = fb.r1
		fb.r1 = fb.r0
		fb.r0 = xorBlock(fb.rr, m1)
		fb.rr = m2
	} else {
		fb.r2 = fb.r1
		fb.r1 = xorBlock(fb.r0, m1)
		fb.r0 = m2
	}
}

// uhf runs the LeMac Universal Hash Function over message (already padded
// and zero-extended to a multiple of ChunkSize), mutating state in place.
func uhf(state *[9]Block, message []byte, version int) {
	var fb feedback

	numChunks := len(message) / ChunkSize
	for i := 0; i < numChunks; i++ {
		stepChunk(state, &fb, message, i, version)
	}
}
