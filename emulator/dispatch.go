package emulator

import (
	"log"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// Interrupt is one pending external interrupt request. Requests queue in
// assertion order and stay queued until the processor priority drops below
// theirs.
type Interrupt struct {
	Vector   machine.Word // entry in the interrupt vector table
	Priority machine.Word // device priority, 0..7
}

// AssertInterrupt queues an external interrupt request. It is taken at the
// next instruction boundary whose processor priority is below the request's.
func (m *Machine) AssertInterrupt(vect, pri machine.Word) {
	m.interrupts = append(m.interrupts, Interrupt{Vector: vect, Priority: pri & 7})
	if m.Verbose {
		log.Printf("emulator: interrupt x%02X priority %d asserted", vect, pri&7)
	}
}

// takeInterrupt removes and returns the first queued request that outranks
// the current processor priority.
func (m *Machine) takeInterrupt() (irq Interrupt, ok bool) {
	for i, pending := range m.interrupts {
		if pending.Priority > m.State.Priority() {
			irq = pending
			m.interrupts = append(m.interrupts[:i], m.interrupts[i+1:]...)
			ok = true
			return
		}
	}
	return
}

// enter performs the vectoring protocol shared by faults and interrupts:
// push the status word, push the PC, force supervisor, and load the PC from
// the vector table slot. TRAP entry follows the same protocol but runs as
// micro-ops inside its own plan. An interrupt entry additionally raises the
// processor priority to the device's.
func (m *Machine) enter(vect machine.Word, pri *machine.Word) {
	st := &m.State
	saved := st.PSR

	st.SetPrivilege(machine.PRIV_SUPERVISOR)
	if pri != nil {
		st.SetPriority(*pri)
	}

	st.R[6]--
	m.Mem.Write(st, st.R[6], saved)
	st.R[6]--
	m.Mem.Write(st, st.R[6], st.PC)

	// Vector unconditionally; an uninstalled handler is a guest problem.
	st.PC = m.Mem.Read(st, machine.INT_TABLE_ADDR+vect)

	if m.Verbose {
		log.Printf("emulator: vector x%02X entered, PC x%04X", vect, st.PC)
	}
}
