package cpu

import (
	"iter"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// LC-3 opcodes, instruction bits 15..12.
const (
	OP_BR   machine.Word = 0x0
	OP_ADD  machine.Word = 0x1
	OP_LD   machine.Word = 0x2
	OP_ST   machine.Word = 0x3
	OP_JSR  machine.Word = 0x4
	OP_AND  machine.Word = 0x5
	OP_LDR  machine.Word = 0x6
	OP_STR  machine.Word = 0x7
	OP_RTI  machine.Word = 0x8
	OP_NOT  machine.Word = 0x9
	OP_LDI  machine.Word = 0xA
	OP_STI  machine.Word = 0xB
	OP_JMP  machine.Word = 0xC
	OP_RES  machine.Word = 0xD // reserved, always illegal
	OP_LEA  machine.Word = 0xE
	OP_TRAP machine.Word = 0xF
)

// Cycle is one clock cycle: a group of micro-ops that execute in order but
// are atomic as observed by any stepping caller. Ops[0] is always the
// phase-transition micro-op tagging the group.
type Cycle struct {
	Ops []MicroOp
}

// Phase returns the canonical phase this cycle belongs to.
func (c Cycle) Phase() Phase {
	return c.Ops[0].Phase
}

func cycle(p Phase, ops ...MicroOp) Cycle {
	return Cycle{Ops: append([]MicroOp{Transition(p)}, ops...)}
}

// Plan is the ordered sequence of cycles implementing one instruction.
// Plans are generated fresh per fetched instruction and discarded once
// consumed.
type Plan []Cycle

// Ops iterates over every micro-op in the plan together with its cycle
// index, for listings and inspection.
func (p Plan) Ops() iter.Seq2[int, MicroOp] {
	return func(yield func(int, MicroOp) bool) {
		for i, c := range p {
			for _, op := range c.Ops {
				if !yield(i, op) {
					return
				}
			}
		}
	}
}

// FetchPlan is the cycle pair common to every instruction: fetch the word
// at PC into MDR while the PC advances past it, then latch it into IR. The
// PC increment lands before Execute, so address evaluation sees the
// post-increment PC.
func FetchPlan() Plan {
	return Plan{
		cycle(PHASE_FETCH,
			Move(LOC_MAR, L(LOC_PC)),
			Compute(ALU_ADD, L(LOC_PC), Lit(1)),
			Move(LOC_PC, L(LOC_ALU_OUT)),
			Fetch(),
		),
		cycle(PHASE_DECODE,
			Move(LOC_IR, L(LOC_MDR)),
		),
	}
}

// PlanFor generates the execution plan for a fetched instruction word. It
// is a pure function of the instruction bits: no state is read or written.
// Undecodable patterns yield a sentinel plan whose single cycle raises an
// illegal instruction fault.
func PlanFor(ir machine.Word) Plan {
	dr := Reg(machine.Bits(ir, 11, 9))
	sr1 := Reg(machine.Bits(ir, 8, 6))

	switch machine.Bits(ir, 15, 12) {
	case OP_ADD:
		return binaryPlan(ALU_ADD, ir, dr, sr1)
	case OP_AND:
		return binaryPlan(ALU_AND, ir, dr, sr1)
	case OP_NOT:
		return Plan{
			cycle(PHASE_EXECUTE, Compute(ALU_NOT, L(sr1), L(sr1))),
			cycle(PHASE_STORE_RESULT, Move(dr, L(LOC_ALU_OUT)), SetCC(dr)),
		}
	case OP_LD:
		return loadPlan(pcRelative(ir), dr)
	case OP_LDR:
		return loadPlan(baseOffset(ir, sr1), dr)
	case OP_LDI:
		return Plan{
			cycle(PHASE_EVAL_ADDRESS, pcRelative(ir)),
			cycle(PHASE_EXECUTE, Move(LOC_MAR, L(LOC_ALU_OUT)), MemRead()),
			cycle(PHASE_EXECUTE, Move(LOC_MAR, L(LOC_MDR)), MemRead()),
			cycle(PHASE_STORE_RESULT, Move(dr, L(LOC_MDR)), SetCC(dr)),
		}
	case OP_LEA:
		// LEA stopped setting condition codes in the 2015 ISA revision.
		return Plan{
			cycle(PHASE_EVAL_ADDRESS, pcRelative(ir)),
			cycle(PHASE_STORE_RESULT, Move(dr, L(LOC_ALU_OUT))),
		}
	case OP_ST:
		return storePlan(pcRelative(ir), dr)
	case OP_STR:
		return storePlan(baseOffset(ir, sr1), dr)
	case OP_STI:
		return Plan{
			cycle(PHASE_EVAL_ADDRESS, pcRelative(ir)),
			cycle(PHASE_EXECUTE, Move(LOC_MAR, L(LOC_ALU_OUT)), MemRead()),
			cycle(PHASE_STORE_RESULT,
				Move(LOC_MAR, L(LOC_MDR)),
				Move(LOC_MDR, L(dr)),
				MemWrite(),
			),
		}
	case OP_BR:
		return Plan{
			cycle(PHASE_EVAL_ADDRESS, pcRelative(ir)),
			cycle(PHASE_EXECUTE, Branch(machine.Bits(ir, 11, 9))),
		}
	case OP_JMP:
		if machine.Bits(ir, 11, 9) != 0 || machine.Bits(ir, 5, 0) != 0 {
			return illegalPlan()
		}
		return Plan{
			cycle(PHASE_EVAL_ADDRESS, Move(LOC_TEMP, L(sr1))),
			cycle(PHASE_EXECUTE, Move(LOC_PC, L(LOC_TEMP))),
		}
	case OP_JSR:
		if machine.Bit(ir, 11) == 1 {
			return Plan{
				cycle(PHASE_EVAL_ADDRESS,
					Compute(ALU_ADD, L(LOC_PC), Lit(machine.Sext(ir, 10))),
					Move(LOC_R7, L(LOC_PC)),
				),
				cycle(PHASE_EXECUTE, Move(LOC_PC, L(LOC_ALU_OUT))),
			}
		}
		if machine.Bits(ir, 10, 9) != 0 || machine.Bits(ir, 5, 0) != 0 {
			return illegalPlan()
		}
		// JSRR reads BaseR before R7 is clobbered, so JSRR R7 still
		// jumps to the old return address.
		return Plan{
			cycle(PHASE_EVAL_ADDRESS,
				Move(LOC_TEMP, L(sr1)),
				Move(LOC_R7, L(LOC_PC)),
			),
			cycle(PHASE_EXECUTE, Move(LOC_PC, L(LOC_TEMP))),
		}
	case OP_TRAP:
		if machine.Bits(ir, 11, 8) != 0 {
			return illegalPlan()
		}
		return trapPlan(machine.Bits(ir, 7, 0))
	case OP_RTI:
		return rtiPlan()
	default: // OP_RES
		return illegalPlan()
	}
}

// illegalPlan is the sentinel plan for undecodable instruction words: one
// cycle raising an illegal instruction fault.
func illegalPlan() Plan {
	return Plan{cycle(PHASE_EXECUTE, Raise(FLAG_ILLEGAL))}
}

// binaryPlan covers ADD and AND. The register-mode and immediate-mode
// variants differ only in the second ALU operand, never in structure.
func binaryPlan(fn AluFn, ir machine.Word, dr, sr1 Loc) Plan {
	b := L(Reg(machine.Bits(ir, 2, 0)))
	if machine.Bit(ir, 5) == 1 {
		b = Lit(machine.Sext(ir, 4))
	}
	return Plan{
		cycle(PHASE_EXECUTE, Compute(fn, L(sr1), b)),
		cycle(PHASE_STORE_RESULT, Move(dr, L(LOC_ALU_OUT)), SetCC(dr)),
	}
}

// pcRelative computes PC plus the sign-extended 9-bit offset of ir.
func pcRelative(ir machine.Word) MicroOp {
	return Compute(ALU_ADD, L(LOC_PC), Lit(machine.Sext(ir, 8)))
}

// baseOffset computes BaseR plus the sign-extended 6-bit offset of ir.
func baseOffset(ir machine.Word, base Loc) MicroOp {
	return Compute(ALU_ADD, L(base), Lit(machine.Sext(ir, 5)))
}

func loadPlan(eval MicroOp, dr Loc) Plan {
	return Plan{
		cycle(PHASE_EVAL_ADDRESS, eval),
		cycle(PHASE_EXECUTE, Move(LOC_MAR, L(LOC_ALU_OUT)), MemRead()),
		cycle(PHASE_STORE_RESULT, Move(dr, L(LOC_MDR)), SetCC(dr)),
	}
}

func storePlan(eval MicroOp, sr Loc) Plan {
	return Plan{
		cycle(PHASE_EVAL_ADDRESS, eval),
		cycle(PHASE_STORE_RESULT,
			Move(LOC_MAR, L(LOC_ALU_OUT)),
			Move(LOC_MDR, L(sr)),
			MemWrite(),
		),
	}
}

// trapPlan implements the trap entry protocol in-plan: save the status
// word, force supervisor so the stack pushes pass protection, push PSR then
// the post-increment PC, and load the PC from the trap vector table entry.
func trapPlan(vect machine.Word) Plan {
	return Plan{
		cycle(PHASE_EVAL_ADDRESS,
			Move(LOC_TEMP, L(LOC_PSR)),
			Raise(FLAG_SET_SUPERVISOR),
			Compute(ALU_ADD, L(LOC_R6), Lit(0xFFFF)),
			Move(LOC_R6, L(LOC_ALU_OUT)),
			Move(LOC_MAR, L(LOC_R6)),
			Move(LOC_MDR, L(LOC_TEMP)),
			MemWrite(),
		),
		cycle(PHASE_EXECUTE,
			Compute(ALU_ADD, L(LOC_R6), Lit(0xFFFF)),
			Move(LOC_R6, L(LOC_ALU_OUT)),
			Move(LOC_MAR, L(LOC_R6)),
			Move(LOC_MDR, L(LOC_PC)),
			MemWrite(),
		),
		cycle(PHASE_EXECUTE,
			Move(LOC_MAR, Lit(machine.TRAP_TABLE_ADDR+vect)),
			MemRead(),
		),
		cycle(PHASE_STORE_RESULT, Move(LOC_PC, L(LOC_MDR))),
	}
}

// rtiPlan is the return-from-exception: gated on supervisor mode, it pops
// the PC and then the PSR, restoring whatever privilege bit was saved.
func rtiPlan() Plan {
	return Plan{
		cycle(PHASE_EVAL_ADDRESS,
			Raise(FLAG_SUPERVISOR_CHECK),
			Move(LOC_MAR, L(LOC_R6)),
			MemRead(),
		),
		cycle(PHASE_EXECUTE,
			Move(LOC_TEMP, L(LOC_MDR)),
			Compute(ALU_ADD, L(LOC_R6), Lit(1)),
			Move(LOC_MAR, L(LOC_ALU_OUT)),
			MemRead(),
		),
		cycle(PHASE_STORE_RESULT,
			Move(LOC_PC, L(LOC_TEMP)),
			Move(LOC_PSR, L(LOC_MDR)),
			Compute(ALU_ADD, L(LOC_R6), Lit(2)),
			Move(LOC_R6, L(LOC_ALU_OUT)),
		),
	}
}
