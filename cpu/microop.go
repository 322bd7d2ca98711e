package cpu

import (
	"fmt"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// Loc names a micro-architectural location a micro-op can read or write.
type Loc int

//go:generate go tool stringer -linecomment -type=Loc
const (
	LOC_R0      = Loc(0) // R0
	LOC_R1      = Loc(1) // R1
	LOC_R2      = Loc(2) // R2
	LOC_R3      = Loc(3) // R3
	LOC_R4      = Loc(4) // R4
	LOC_R5      = Loc(5) // R5
	LOC_R6      = Loc(6) // R6
	LOC_R7      = Loc(7) // R7
	LOC_PC      = Loc(8)  // PC
	LOC_IR      = Loc(9)  // IR
	LOC_MAR     = Loc(10) // MAR
	LOC_MDR     = Loc(11) // MDR
	LOC_PSR     = Loc(12) // PSR
	LOC_ALU_OUT = Loc(13) // ALU_OUT
	LOC_TEMP    = Loc(14) // TEMP
)

// Reg returns the Loc for general register n.
func Reg(n machine.Word) Loc {
	return Loc(n & 7)
}

// Operand is a micro-op data source: a location, or a literal already
// sign- or zero-extended at decode time.
type Operand struct {
	Loc     Loc
	Lit     machine.Word
	Literal bool
}

// L wraps a location as an operand.
func L(loc Loc) Operand {
	return Operand{Loc: loc}
}

// Lit wraps a literal word as an operand.
func Lit(v machine.Word) Operand {
	return Operand{Lit: v, Literal: true}
}

func (o Operand) String() string {
	if o.Literal {
		return fmt.Sprintf("x%04X", uint16(o.Lit))
	}
	return o.Loc.String()
}

// AluFn selects the ALU function of a compute micro-op.
type AluFn int

//go:generate go tool stringer -linecomment -type=AluFn
const (
	ALU_ADD = AluFn(0) // +
	ALU_AND = AluFn(1) // &
	ALU_NOT = AluFn(2) // NOT
)

// Flag is a control-flag micro-op effect.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	// FLAG_SUPERVISOR_CHECK faults with a privilege violation when the
	// machine is in user mode. It gates return-from-exception.
	FLAG_SUPERVISOR_CHECK = Flag(0) // check-supervisor
	// FLAG_SET_SUPERVISOR forces the privilege bit to supervisor. Only
	// trap and interrupt entry use it.
	FLAG_SET_SUPERVISOR = Flag(1) // set-supervisor
	// FLAG_ILLEGAL raises an illegal instruction fault. The sentinel plan
	// for undecodable opcodes is its only producer.
	FLAG_ILLEGAL = Flag(2) // illegal
)

// Kind tags the micro-op variants. The interpreter is a single exhaustive
// dispatch over these.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_PHASE  = Kind(0) // phase
	KIND_MOVE   = Kind(1) // move
	KIND_READ   = Kind(2) // read
	KIND_WRITE  = Kind(3) // write
	KIND_ALU    = Kind(4) // alu
	KIND_SET_CC = Kind(5) // setcc
	KIND_BRANCH = Kind(6) // branch
	KIND_FLAG   = Kind(7) // flag
)

// MicroOp is one atomic operation of the instruction cycle. Which fields
// are meaningful depends on Kind; Apply rejects nothing at runtime beyond
// undefined locations, which are programming defects.
type MicroOp struct {
	Kind Kind

	Phase  Phase        // KIND_PHASE: the phase this cycle belongs to
	Dst    Loc          // KIND_MOVE destination
	Src    Operand      // KIND_MOVE source
	Fn     AluFn        // KIND_ALU function
	A, B   Operand      // KIND_ALU operands; B is ignored for NOT
	CC     Loc          // KIND_SET_CC: location whose value sets N/Z/P
	Mask   machine.Word // KIND_BRANCH: 3-bit n/z/p condition mask
	Flag   Flag         // KIND_FLAG effect
	Access machine.AccessKind // KIND_READ: fetch or read, for fault reporting
}

// Transition tags a cycle with its phase. It has no state effect.
func Transition(p Phase) MicroOp {
	return MicroOp{Kind: KIND_PHASE, Phase: p}
}

// Move copies src into dst.
func Move(dst Loc, src Operand) MicroOp {
	return MicroOp{Kind: KIND_MOVE, Dst: dst, Src: src}
}

// MemRead loads MDR from memory at MAR, protection-gated.
func MemRead() MicroOp {
	return MicroOp{Kind: KIND_READ, Access: machine.ACCESS_READ}
}

// Fetch is MemRead marked as an instruction fetch.
func Fetch() MicroOp {
	return MicroOp{Kind: KIND_READ, Access: machine.ACCESS_FETCH}
}

// MemWrite stores MDR to memory at MAR, protection-gated.
func MemWrite() MicroOp {
	return MicroOp{Kind: KIND_WRITE}
}

// Compute runs the ALU over a and b into the output latch. It never writes
// an architectural register; a later Move commits the result.
func Compute(fn AluFn, a, b Operand) MicroOp {
	return MicroOp{Kind: KIND_ALU, Fn: fn, A: a, B: b}
}

// SetCC recomputes the condition codes from the current value at loc. It
// must be ordered after the micro-op that commits that value.
func SetCC(loc Loc) MicroOp {
	return MicroOp{Kind: KIND_SET_CC, CC: loc}
}

// Branch commits the ALU output latch to the PC when the n/z/p mask
// intersects the current condition codes.
func Branch(mask machine.Word) MicroOp {
	return MicroOp{Kind: KIND_BRANCH, Mask: mask & 7}
}

// Raise emits a control flag effect.
func Raise(fl Flag) MicroOp {
	return MicroOp{Kind: KIND_FLAG, Flag: fl}
}

// String renders the micro-op in register-transfer notation, the way the
// stepping UI lists a cycle.
func (op MicroOp) String() string {
	switch op.Kind {
	case KIND_PHASE:
		return fmt.Sprintf("-> %v", op.Phase)
	case KIND_MOVE:
		return fmt.Sprintf("%v <- %v", op.Dst, op.Src)
	case KIND_READ:
		return "MDR <- MEM[MAR]"
	case KIND_WRITE:
		return "MEM[MAR] <- MDR"
	case KIND_ALU:
		if op.Fn == ALU_NOT {
			return fmt.Sprintf("ALU_OUT <- NOT %v", op.A)
		}
		return fmt.Sprintf("ALU_OUT <- %v %v %v", op.A, op.Fn, op.B)
	case KIND_SET_CC:
		return fmt.Sprintf("SET_CC(%v)", op.CC)
	case KIND_BRANCH:
		mask := ""
		for i, c := range "PZN" {
			if machine.Bit(op.Mask, uint(i)) == 1 {
				mask = string(c) + mask
			}
		}
		return fmt.Sprintf("if %s: PC <- ALU_OUT", mask)
	case KIND_FLAG:
		return op.Flag.String()
	default:
		return fmt.Sprintf("MicroOp(%d)", op.Kind)
	}
}
