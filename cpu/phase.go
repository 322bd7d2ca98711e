package cpu

// Phase is one of the five canonical stages of the instruction cycle, used
// for stepping granularity and display.
type Phase int

//go:generate go tool stringer -linecomment -type=Phase
const (
	PHASE_FETCH        = Phase(0) // Fetch
	PHASE_DECODE       = Phase(1) // Decode
	PHASE_EVAL_ADDRESS = Phase(2) // Evaluate Address
	PHASE_EXECUTE      = Phase(3) // Execute
	PHASE_STORE_RESULT = Phase(4) // Store Result
)

// Tracker observes the cycle currently executing and reports which phase it
// belongs to, plus an instruction boundary signal emitted exactly once per
// instruction at the transition back to Fetch. It holds no state that
// affects outcomes; removing it changes only what callers can display.
type Tracker struct {
	phase    Phase
	boundary bool
	seen     bool
}

// Reset returns the tracker to its pre-first-instruction state.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Observe records that a cycle is starting. The boundary signal fires when
// a Fetch cycle begins after any later phase.
func (t *Tracker) Observe(c Cycle) {
	p := c.Phase()
	t.boundary = t.seen && p == PHASE_FETCH && t.phase != PHASE_FETCH
	t.phase = p
	t.seen = true
}

// Phase reports the phase of the most recently observed cycle.
func (t *Tracker) Phase() Phase {
	return t.phase
}

// Boundary reports whether the most recently observed cycle opened a new
// instruction.
func (t *Tracker) Boundary() bool {
	return t.boundary
}
