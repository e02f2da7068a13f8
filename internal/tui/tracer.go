// Package tui implements the interactive step-through UHF tracer behind
// the `lemacd trace` command.
package tui

// StepTracer exposes a chunk-by-chunk algorithm walk for the TUI to
// drive: both pkg/lemac.Tracer and pkg/petitmac.Tracer satisfy it, each
// wrapped by an adapter in this package that knows how to render its own
// lane layout.
type StepTracer interface {
	// Steps returns the total number of absorption steps.
	Steps() int
	// Current returns the index of the next step to be taken, equal to
	// Steps() once Done.
	Current() int
	// Done reports whether every step has been taken.
	Done() bool
	// Step takes the next absorption step, returning false if already Done.
	Step() bool
	// Lines renders the current lane/register state as labeled hex rows.
	Lines() []string
	// Tag renders the tag finalize would produce from the current state.
	Tag() string
}
