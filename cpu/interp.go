package cpu

import (
	"fmt"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// Apply executes exactly one micro-op against the machine state. Moves and
// computes are unconditional; memory micro-ops are validated by the
// protection unit first and touch nothing on denial. The returned error is
// always a *machine.Fault for the dispatcher to vector — except that a
// plan referencing an undefined location panics, since that is a generator
// defect, not guest behaviour.
func Apply(st *machine.State, mem *machine.Memory, op MicroOp) error {
	switch op.Kind {
	case KIND_PHASE:
		// Observation only; the tracker reads it off the cycle.
		return nil

	case KIND_MOVE:
		write(st, op.Dst, value(st, op.Src))
		return nil

	case KIND_READ:
		if err := machine.CheckAccess(st, st.MAR, op.Access); err != nil {
			return err
		}
		st.MDR = mem.Read(st, st.MAR)
		return nil

	case KIND_WRITE:
		if err := machine.CheckAccess(st, st.MAR, machine.ACCESS_WRITE); err != nil {
			return err
		}
		mem.Write(st, st.MAR, st.MDR)
		return nil

	case KIND_ALU:
		a := value(st, op.A)
		switch op.Fn {
		case ALU_ADD:
			st.ALUOut = a + value(st, op.B)
		case ALU_AND:
			st.ALUOut = a & value(st, op.B)
		case ALU_NOT:
			st.ALUOut = ^a
		default:
			panic(fmt.Sprintf("cpu: undefined ALU function %d", op.Fn))
		}
		return nil

	case KIND_SET_CC:
		st.SetCC(value(st, L(op.CC)))
		return nil

	case KIND_BRANCH:
		if st.CCMatch(op.Mask) {
			st.PC = st.ALUOut
		}
		return nil

	case KIND_FLAG:
		switch op.Flag {
		case FLAG_SUPERVISOR_CHECK:
			return machine.CheckReturn(st)
		case FLAG_SET_SUPERVISOR:
			st.SetPrivilege(machine.PRIV_SUPERVISOR)
			return nil
		case FLAG_ILLEGAL:
			return &machine.Fault{Kind: machine.FAULT_ILLEGAL, Addr: st.PC}
		default:
			panic(fmt.Sprintf("cpu: undefined flag %d", op.Flag))
		}

	default:
		panic(fmt.Sprintf("cpu: undefined micro-op kind %d", op.Kind))
	}
}

// value reads an operand from the state.
func value(st *machine.State, o Operand) machine.Word {
	if o.Literal {
		return o.Lit
	}
	switch {
	case o.Loc >= LOC_R0 && o.Loc <= LOC_R7:
		return st.R[o.Loc]
	case o.Loc == LOC_PC:
		return st.PC
	case o.Loc == LOC_IR:
		return st.IR
	case o.Loc == LOC_MAR:
		return st.MAR
	case o.Loc == LOC_MDR:
		return st.MDR
	case o.Loc == LOC_PSR:
		return st.PSR
	case o.Loc == LOC_ALU_OUT:
		return st.ALUOut
	case o.Loc == LOC_TEMP:
		return st.Temp
	default:
		panic(fmt.Sprintf("cpu: undefined source location %d", o.Loc))
	}
}

// write stores a word at a destination location.
func write(st *machine.State, loc Loc, v machine.Word) {
	switch {
	case loc >= LOC_R0 && loc <= LOC_R7:
		st.R[loc] = v
	case loc == LOC_PC:
		st.PC = v
	case loc == LOC_IR:
		st.IR = v
	case loc == LOC_MAR:
		st.MAR = v
	case loc == LOC_MDR:
		st.MDR = v
	case loc == LOC_PSR:
		st.PSR = v
	case loc == LOC_ALU_OUT:
		st.ALUOut = v
	case loc == LOC_TEMP:
		st.Temp = v
	default:
		panic(fmt.Sprintf("cpu: undefined destination location %d", loc))
	}
}
