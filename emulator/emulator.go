package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/JackCrumpLeys/textbook210-emulator/cpu"
	"github.com/JackCrumpLeys/textbook210-emulator/machine"
	"github.com/JackCrumpLeys/textbook210-emulator/program"
)

// DEFAULT_PC is where the PC points after a reset, the bottom of the
// operating system region.
const DEFAULT_PC = machine.Word(0x0200)

// Machine is one emulated machine instance: architectural state, memory,
// and the stepping engine over them. Instances are fully independent and
// single-threaded; only RequestPause may be called concurrently.
type Machine struct {
	Verbose bool // If set, enables verbose logging.

	State machine.State
	Mem   machine.Memory

	// Default devices, installed by New. Frontends may replace
	// Mem.Keyboard and Mem.Display with their own.
	Keys   *machine.KeyBuffer
	Screen *machine.Screen

	// Symbols collected from loaded images, for display only.
	Symbols map[string]machine.Word

	plan    cpu.Plan // remaining cycles of the current instruction
	idx     int      // next cycle within plan
	fetched bool     // set once the decoded instruction's plan is appended
	tracker cpu.Tracker

	pending     *machine.Fault // fault awaiting dispatch
	interrupts  []Interrupt
	breakpoints map[machine.Word]bool

	pause atomic.Bool
}

// New creates a machine in the reset state with buffer-backed devices
// installed.
func New() (m *Machine) {
	m = &Machine{
		Keys:        &machine.KeyBuffer{},
		Screen:      &machine.Screen{},
		Symbols:     map[string]machine.Word{},
		breakpoints: map[machine.Word]bool{},
	}
	m.Mem.Keyboard = m.Keys
	m.Mem.Display = m.Screen
	m.Reset()
	return
}

// Reset restores the power-on state: cleared memory and registers,
// supervisor mode with Z set, PC at the bottom of the OS region, machine
// stopped. Breakpoints and installed devices survive.
func (m *Machine) Reset() {
	m.State.Reset()
	m.Mem.Reset()
	m.State.PC = DEFAULT_PC

	m.plan = nil
	m.idx = 0
	m.fetched = false
	m.tracker.Reset()
	m.pending = nil
	m.interrupts = nil
	m.pause.Store(false)

	if m.Verbose {
		log.Printf("emulator: reset")
	}
}

// LoadImage copies an image into memory, points the PC at its origin, and
// sets the run bit. An empty image is rejected before any state changes.
func (m *Machine) LoadImage(img *program.Image) (err error) {
	if img == nil || len(img.Words) == 0 {
		err = ErrImageEmpty
		return
	}

	for addr, w := range img.Walk() {
		m.Mem.Poke(&m.State, addr, w)
	}
	m.State.PC = img.Origin
	m.Mem.MCR = machine.MCR_RUN
	maps.Copy(m.Symbols, img.Symbols)

	if m.Verbose {
		log.Printf("emulator: loaded %d words at x%04X", len(img.Words), img.Origin)
	}
	return
}

// Running reports whether the run bit of the machine control register is
// still set.
func (m *Machine) Running() bool {
	return m.Mem.Running()
}

// atBoundary reports whether the next group opens a new instruction.
func (m *Machine) atBoundary() bool {
	return m.plan == nil && m.pending == nil
}

// StepGroup executes one cycle group: the next cycle of the current plan,
// or — at an instruction boundary — a pending fault or eligible interrupt
// dispatch. Groups are atomic: a fault aborts the remainder of the plan
// with no further state change from it, and the dispatch happens as the
// following group. done reports that the run bit is clear.
func (m *Machine) StepGroup() (done bool, err error) {
	if !m.Mem.Running() {
		done = true
		return
	}

	if m.pending != nil {
		fa := m.pending
		m.pending = nil
		m.enter(fa.Kind.Vector(), nil)
		return
	}

	if m.plan == nil {
		if irq, ok := m.takeInterrupt(); ok {
			m.enter(irq.Vector, &irq.Priority)
			return
		}
		m.plan = cpu.FetchPlan()
		m.idx = 0
		m.fetched = false
	}

	group := m.plan[m.idx]
	m.tracker.Observe(group)
	if m.Verbose {
		log.Printf("emulator: x%04X %v", m.State.PC, group.Phase())
	}

	for _, op := range group.Ops {
		aerr := cpu.Apply(&m.State, &m.Mem, op)
		if aerr == nil {
			continue
		}
		var fa *machine.Fault
		if !errors.As(aerr, &fa) {
			err = aerr
			return
		}
		if m.Verbose {
			log.Printf("emulator: %v", fa)
		}
		m.pending = fa
		m.plan = nil
		return
	}

	m.idx++
	if m.idx < len(m.plan) {
		return
	}
	if !m.fetched {
		// Decode just completed; the IR now names the rest of the
		// instruction.
		m.fetched = true
		m.plan = append(m.plan, cpu.PlanFor(m.State.IR)...)
		return
	}
	m.plan = nil
	return
}

// StepInstruction executes groups until the next instruction boundary. A
// faulting instruction completes through its handler entry.
func (m *Machine) StepInstruction() (done bool, err error) {
	for {
		done, err = m.StepGroup()
		if done || err != nil {
			return
		}
		if m.atBoundary() {
			return
		}
	}
}

// Run executes instructions until the machine halts, a breakpoint is
// reached, the step limit expires, or a pause is requested. limit <= 0
// means no limit. A breakpoint at the starting PC does not fire, so Run
// resumes past the breakpoint it stopped at. Stops other than a halt are
// reported as ErrBreakpoint, ErrPaused, or ErrLimit.
func (m *Machine) Run(limit int) (done bool, err error) {
	steps := 0
	for {
		if m.pause.Swap(false) {
			err = ErrPaused
			return
		}
		if steps > 0 && m.atBoundary() && m.breakpoints[m.State.PC] {
			if m.Verbose {
				log.Printf("emulator: breakpoint x%04X", m.State.PC)
			}
			err = ErrBreakpoint
			return
		}

		done, err = m.StepInstruction()
		if done || err != nil {
			return
		}

		steps++
		if limit > 0 && steps >= limit {
			err = ErrLimit
			return
		}
	}
}

// RequestPause asks a running Run to stop at the next instruction
// boundary. Safe to call from another goroutine.
func (m *Machine) RequestPause() {
	m.pause.Store(true)
}

// Phase reports the phase of the most recently executed group.
func (m *Machine) Phase() cpu.Phase {
	return m.tracker.Phase()
}

// Reg returns general register n.
func (m *Machine) Reg(n int) machine.Word {
	return m.State.R[n&7]
}

// SetReg writes general register n.
func (m *Machine) SetReg(n int, v machine.Word) {
	m.State.R[n&7] = v
}

// Peek reads memory without device side effects.
func (m *Machine) Peek(addr machine.Word) machine.Word {
	return m.Mem.Peek(&m.State, addr)
}

// Poke writes memory without device side effects.
func (m *Machine) Poke(addr, v machine.Word) {
	m.Mem.Poke(&m.State, addr, v)
}

// AddBreakpoint arms a breakpoint at addr.
func (m *Machine) AddBreakpoint(addr machine.Word) {
	m.breakpoints[addr] = true
}

// ClearBreakpoint disarms the breakpoint at addr.
func (m *Machine) ClearBreakpoint(addr machine.Word) {
	delete(m.breakpoints, addr)
}

// Breakpoints iterates over the armed breakpoints in address order.
func (m *Machine) Breakpoints() iter.Seq[machine.Word] {
	return slices.Values(slices.Sorted(maps.Keys(m.breakpoints)))
}

// Snapshot renders the machine state, the current phase, and the micro-op
// listing of the group up next.
func (m *Machine) Snapshot() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%v\n", &m.State)
	fmt.Fprintf(sb, "phase %v", m.tracker.Phase())
	if m.pending != nil {
		fmt.Fprintf(sb, "\npending %v", m.pending)
	}
	if m.plan != nil {
		for _, op := range m.plan[m.idx].Ops {
			fmt.Fprintf(sb, "\n  %v", op)
		}
	}
	return sb.String()
}
