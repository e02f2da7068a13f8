package tui

import (
	"fmt"

	"github.com/go-lemac/lemacd/internal/cli"
	"github.com/go-lemac/lemacd/pkg/lemac"
	"github.com/go-lemac/lemacd/pkg/petitmac"
)

// lemacAdapter renders a *lemac.Tracer's 9-lane state.
type lemacAdapter struct {
	t *lemac.Tracer
}

func newLemacAdapter(t *lemac.Tracer) StepTracer {
	return lemacAdapter{t: t}
}

func (a lemacAdapter) Steps() int   { return a.t.NumChunks() }
func (a lemacAdapter) Current() int { return a.t.Chunk() }
func (a lemacAdapter) Done() bool   { return a.t.Done() }
func (a lemacAdapter) Step() bool   { return a.t.Step() }

func (a lemacAdapter) Lines() []string {
	state := a.t.State()
	lines := make([]string, len(state))
	for i, lane := range state {
		lines[i] = fmt.Sprintf("S[%d]: %s", i, cli.FormatTag(lane[:]))
	}

	return lines
}

func (a lemacAdapter) Tag() string {
	tag := a.t.Tag()

	return cli.FormatTag(tag[:])
}

// petitmacAdapter renders a *petitmac.Tracer's single lane and five
// feedback registers.
type petitmacAdapter struct {
	t *petitmac.Tracer
}

func newPetitmacAdapter(t *petitmac.Tracer) StepTracer {
	return petitmacAdapter{t: t}
}

func (a petitmacAdapter) Steps() int   { return a.t.NumBlocks() }
func (a petitmacAdapter) Current() int { return a.t.Block() }
func (a petitmacAdapter) Done() bool   { return a.t.Done() }
func (a petitmacAdapter) Step() bool   { return a.t.Step() }

func (a petitmacAdapter) Lines() []string {
	state, r0, r1, r2, r3, r4 := a.t.State()

	return []string{
		"S:  " + cli.FormatTag(state[:]),
		"R0: " + cli.FormatTag(r0[:]),
		"R1: " + cli.FormatTag(r1[:]),
		"R2: " + cli.FormatTag(r2[:]),
		"R3: " + cli.FormatTag(r3[:]),
		"R4: " + cli.FormatTag(r4[:]),
	}
}

func (a petitmacAdapter) Tag() string {
	tag := a.t.Tag()

	return cli.FormatTag(tag[:])
}
