package petitmac

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/pkg/mac"
)

// Tracer steps the PetitMAC UHF through one message block at a time,
// exposing the single-lane state and five feedback registers after each
// absorption for interactive inspection.
type Tracer struct {
	sched Schedule
	nonce Block

	message   []byte
	state     Block
	regs      registers
	block     int
	numBlocks int
}

// NewTracer pads message exactly as Tag does and returns a Tracer
// positioned before the first block.
func NewTracer(sched Schedule, nonce, message []byte) (*Tracer, error) {
	if len(nonce) != 16 {
		return nil, errorcodes.ErrInvalidNonceLength
	}

	var n Block
	copy(n[:], nonce)

	padded := mac.Pad(message, BlockSize)

	return &Tracer{
		sched:     sched,
		nonce:     n,
		message:   padded,
		state:     sched.Init,
		numBlocks: len(padded) / BlockSize,
	}, nil
}

// NumBlocks returns the total number of blocks the tracer will step
// through before the UHF is exhausted.
func (t *Tracer) NumBlocks() int {
	return t.numBlocks
}

// Block returns the index of the next block to be absorbed, or
// NumBlocks() once the tracer is done.
func (t *Tracer) Block() int {
	return t.block
}

// Done reports whether every block has been absorbed.
func (t *Tracer) Done() bool {
	return t.block >= t.numBlocks
}

// State returns the lane state and registers as they stand after the
// last Step.
func (t *Tracer) State() (Block, Block, Block, Block, Block, Block) {
	return t.state, t.regs.R0, t.regs.R1, t.regs.R2, t.regs.R3, t.regs.R4
}

// Step absorbs the next block, mutating the lane state and registers in
// place. It reports false once the tracer is already Done.
func (t *Tracer) Step() bool {
	if t.Done() {
		return false
	}

	stepBlock(&t.state, &t.regs, t.message, t.block)
	t.block++

	return true
}

// Tag runs finalize over the current state, producing the same tag Tag
// would return if Step were called until Done.
func (t *Tracer) Tag() Block {
	return finalize(t.sched, t.nonce, t.state, t.regs)
}
