package machine

import (
	"fmt"
)

// Processor status word layout.
const (
	PSR_PRIV Word = 1 << 15 // 0 = supervisor, 1 = user
	PSR_N    Word = 1 << 2
	PSR_Z    Word = 1 << 1
	PSR_P    Word = 1 << 0

	PSR_CC_MASK  Word = PSR_N | PSR_Z | PSR_P
	PSR_PRI_MASK Word = 7 << 8
)

// Privilege is the execution mode carried in PSR[15].
type Privilege int

//go:generate go tool stringer -linecomment -type=Privilege
const (
	PRIV_SUPERVISOR = Privilege(0) // supervisor
	PRIV_USER       = Privilege(1) // user
)

// State is the architectural state visible to a running program plus the
// internal latches the micro-op interpreter moves data through. It is a pure
// data holder; every mutation outside Reset happens through micro-ops.
type State struct {
	R [8]Word // general registers; R6 is the stack pointer by convention only

	PC  Word // address fetched next
	IR  Word // instruction latch
	MAR Word // memory address latch
	MDR Word // memory data latch
	PSR Word // processor status word

	ALUOut Word // ALU output latch; committed by a later move
	Temp   Word // scratch latch used by multi-cycle instructions
}

// Reset restores the power-on state: registers and latches cleared, PSR in
// supervisor mode with the Z condition code set.
func (st *State) Reset() {
	*st = State{PSR: PSR_Z}
}

// Privilege returns the current execution mode.
func (st *State) Privilege() Privilege {
	return Privilege(Bit(st.PSR, 15))
}

// SetPrivilege rewrites the privilege bit, leaving the rest of the PSR alone.
func (st *State) SetPrivilege(p Privilege) {
	if p == PRIV_USER {
		st.PSR |= PSR_PRIV
	} else {
		st.PSR &^= PSR_PRIV
	}
}

// Priority returns the processor priority level, PSR[10:8].
func (st *State) Priority() Word {
	return Bits(st.PSR, 10, 8)
}

// SetPriority rewrites the priority field.
func (st *State) SetPriority(pri Word) {
	st.PSR = (st.PSR &^ PSR_PRI_MASK) | ((pri & 7) << 8)
}

func (st *State) N() bool { return st.PSR&PSR_N != 0 }
func (st *State) Z() bool { return st.PSR&PSR_Z != 0 }
func (st *State) P() bool { return st.PSR&PSR_P != 0 }

// SetCC recomputes the condition codes from v. Exactly one of N/Z/P is set
// afterwards.
func (st *State) SetCC(v Word) {
	cc := PSR_P
	switch {
	case Negative(v):
		cc = PSR_N
	case v == 0:
		cc = PSR_Z
	}
	st.PSR = (st.PSR &^ PSR_CC_MASK) | cc
}

// CCMatch reports whether any condition code selected by the 3-bit n/z/p
// mask is currently set. BR encodes its mask in the same bit order as the
// PSR holds the codes.
func (st *State) CCMatch(mask Word) bool {
	return st.PSR&mask&PSR_CC_MASK != 0
}

// String renders the register file and decoded status word on one line.
func (st *State) String() string {
	cc := "P"
	switch {
	case st.N():
		cc = "N"
	case st.Z():
		cc = "Z"
	}
	return fmt.Sprintf(
		"R0 %04x R1 %04x R2 %04x R3 %04x R4 %04x R5 %04x R6 %04x R7 %04x PC %04x PSR %04x [%v pri %d %s]",
		st.R[0], st.R[1], st.R[2], st.R[3], st.R[4], st.R[5], st.R[6], st.R[7],
		st.PC, st.PSR, st.Privilege(), st.Priority(), cc)
}
