package lemac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/mac"
)

// Tracer steps the LeMac UHF through one chunk at a time, exposing the
// 9-lane state after each absorption for interactive inspection.
type Tracer struct {
	sched   Schedule
	nonce   Block
	version int

	message   []byte
	state     [9]Block
	fb        feedback
	chunk     int
	numChunks int
}

// NewTracer prepares message (padding and zero-extending it exactly as
// Tag does) and returns a Tracer positioned before the first chunk.
func NewTracer(sched Schedule, nonce, message []byte, version int) (*Tracer, error) {
	if version != V0 && version != V1 {
		return nil, errorcodes.ErrUnsupportedVersion
	}
	if len(nonce) != 16 {
		return nil, errorcodes.ErrInvalidNonceLength
	}

	var n Block
	copy(n[:], nonce)

	padded := mac.Pad(message, ChunkSize)
	padded = append(padded, make([]byte, trailingZeroChunks(version)*ChunkSize)...)

	return &Tracer{
		sched:     sched,
		nonce:     n,
		version:   version,
		message:   padded,
		state:     sched.Init,
		numChunks: len(padded) / ChunkSize,
	}, nil
}

// NumChunks returns the total number of chunks the tracer will step
// through before the UHF is exhausted.
func (t *Tracer) NumChunks() int {
	return t.numChunks
}

// Chunk returns the index of the next chunk to be absorbed, or
// NumChunks() once the tracer is done.
func (t *Tracer) Chunk() int {
	return t.chunk
}

// Done reports whether every chunk has been absorbed.
func (t *Tracer) Done() bool {
	return t.chunk >= t.numChunks
}

// State returns the 9-lane UHF state as it stands after the last Step.
func (t *Tracer) State() [9]Block {
	return t.state
}

// Step absorbs the next chunk, mutating the lane state and feedback
// registers in place. It reports false once the tracer is already Done.
func (t *Tracer) Step() bool {
	if t.Done() {
		return false
	}

	stepChunk(&t.state, &t.fb, t.message, t.chunk, t.version)
	t.chunk++

	return true
}

// Tag runs finalize over the current state, producing the same tag Tag
// would return if Step were called until Done. Calling it before Done is
// valid and simply finalizes whatever partial state has accumulated so
// far, which is useful for inspecting intermediate tags while stepping.
func (t *Tracer) Tag() Block {
	return finalize(t.sched, t.nonce, t.state)
}
