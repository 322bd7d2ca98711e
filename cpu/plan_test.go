package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// runPlan applies every micro-op of p in order, stopping at the first fault.
func runPlan(st *machine.State, mem *machine.Memory, p Plan) error {
	for _, c := range p {
		for _, op := range c.Ops {
			if err := Apply(st, mem, op); err != nil {
				return err
			}
		}
	}
	return nil
}

// exec places ir at the PC and runs a full fetch-decode-execute round.
func exec(st *machine.State, mem *machine.Memory, ir machine.Word) error {
	mem.Poke(st, st.PC, ir)
	if err := runPlan(st, mem, FetchPlan()); err != nil {
		return err
	}
	return runPlan(st, mem, PlanFor(st.IR))
}

func TestFetchPlan(t *testing.T) {
	assert := assert.New(t)

	st := &machine.State{}
	mem := &machine.Memory{}
	st.Reset()
	st.PC = 0x3000
	mem.Poke(st, 0x3000, 0x1234)

	err := runPlan(st, mem, FetchPlan())
	assert.NoError(err)
	assert.Equal(machine.Word(0x1234), st.IR)
	assert.Equal(machine.Word(0x3001), st.PC)
}

func TestPlanPhases(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		ir     machine.Word
		phases []Phase
	}){
		{"add_reg", 0x1042, []Phase{PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"add_imm", 0x1065, []Phase{PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"and_reg", 0x5042, []Phase{PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"not", 0x907F, []Phase{PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"ld", 0x2001, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"ldr", 0x6041, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"ldi", 0xA001, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"lea", 0xE001, []Phase{PHASE_EVAL_ADDRESS, PHASE_STORE_RESULT}},
		{"st", 0x3001, []Phase{PHASE_EVAL_ADDRESS, PHASE_STORE_RESULT}},
		{"str", 0x7041, []Phase{PHASE_EVAL_ADDRESS, PHASE_STORE_RESULT}},
		{"sti", 0xB001, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"br", 0x0E01, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE}},
		{"jmp", 0xC040, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE}},
		{"jsr", 0x4801, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE}},
		{"jsrr", 0x4040, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE}},
		{"trap", 0xF025, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"rti", 0x8000, []Phase{PHASE_EVAL_ADDRESS, PHASE_EXECUTE, PHASE_STORE_RESULT}},
		{"reserved", 0xD000, []Phase{PHASE_EXECUTE}},
	}

	for _, entry := range table {
		plan := PlanFor(entry.ir)
		phases := []Phase{}
		for _, c := range plan {
			phases = append(phases, c.Phase())
			assert.Equal(KIND_PHASE, c.Ops[0].Kind, entry.name)
		}
		assert.Equal(entry.phases, phases, entry.name)
	}
}

func TestPlanPure(t *testing.T) {
	assert := assert.New(t)

	for _, ir := range []machine.Word{0x1042, 0x2001, 0xF025, 0x8000, 0xD000} {
		assert.Equal(PlanFor(ir), PlanFor(ir))
	}
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		r1   machine.Word
		r2   machine.Word
		ir   machine.Word
		r0   machine.Word
		cc   machine.Word
	}){
		{"add_reg", 2, 3, 0x1042, 5, machine.PSR_P},
		{"add_imm", 2, 0, 0x1065, 7, machine.PSR_P},
		{"add_imm_neg", 2, 0, 0x107E, 0, machine.PSR_Z},
		{"add_wrap", 0xFFFF, 2, 0x1042, 1, machine.PSR_P},
		{"and_reg", 0x0F0F, 0x00FF, 0x5042, 0x000F, machine.PSR_P},
		{"and_imm_zero", 0x00FF, 0, 0x5060, 0, machine.PSR_Z},
		{"not", 0x00FF, 0, 0x9047, 0xFF00, machine.PSR_N},
	}

	for _, entry := range table {
		st := &machine.State{}
		mem := &machine.Memory{}
		st.Reset()
		st.PC = 0x3000
		st.R[1] = entry.r1
		st.R[2] = entry.r2

		err := exec(st, mem, entry.ir)
		assert.NoError(err, entry.name)
		assert.Equal(entry.r0, st.R[0], entry.name)
		assert.Equal(entry.cc, st.PSR&machine.PSR_CC_MASK, entry.name)
	}
}

func TestLoadStore(t *testing.T) {
	assert := assert.New(t)

	st := &machine.State{}
	mem := &machine.Memory{}
	st.Reset()
	st.PC = 0x3000

	// LD R0, #2 reads relative to the incremented PC.
	mem.Poke(st, 0x3003, 0x00AA)
	err := exec(st, mem, 0x2002)
	assert.NoError(err)
	assert.Equal(machine.Word(0x00AA), st.R[0])
	assert.True(st.P())

	// LDR R0, R1, #1
	st.R[1] = 0x4000
	mem.Poke(st, 0x4001, 0x8001)
	err = exec(st, mem, 0x6041)
	assert.NoError(err)
	assert.Equal(machine.Word(0x8001), st.R[0])
	assert.True(st.N())

	// LDI R0, #1 chases the pointer at x3004.
	mem.Poke(st, 0x3004, 0x5000)
	mem.Poke(st, 0x5000, 0x0000)
	err = exec(st, mem, 0xA001)
	assert.NoError(err)
	assert.Equal(machine.Word(0), st.R[0])
	assert.True(st.Z())

	// LEA R0, #-1 leaves the condition codes alone.
	err = exec(st, mem, 0xE1FF)
	assert.NoError(err)
	assert.Equal(machine.Word(0x3003), st.R[0])
	assert.True(st.Z(), "LEA must not set condition codes")

	// ST R0, #2
	err = exec(st, mem, 0x3002)
	assert.NoError(err)
	assert.Equal(machine.Word(0x3003), mem.Peek(st, 0x3007))

	// STR R0, R1, #2
	err = exec(st, mem, 0x7042)
	assert.NoError(err)
	assert.Equal(machine.Word(0x3003), mem.Peek(st, 0x4002))

	// STI R0, #1 stores through the pointer at x3008.
	mem.Poke(st, 0x3008, 0x5005)
	err = exec(st, mem, 0xB001)
	assert.NoError(err)
	assert.Equal(machine.Word(0x3003), mem.Peek(st, 0x5005))
}

func TestControlFlow(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		cc   machine.Word
		ir   machine.Word
		pc   machine.Word
	}){
		{"brp_taken", machine.PSR_P, 0x0205, 0x3006},
		{"brp_not_taken", machine.PSR_Z, 0x0205, 0x3001},
		{"brz_taken", machine.PSR_Z, 0x0405, 0x3006},
		{"brn_taken", machine.PSR_N, 0x0805, 0x3006},
		{"brnzp_taken", machine.PSR_Z, 0x0E05, 0x3006},
		{"br_never", machine.PSR_Z, 0x0005, 0x3001},
		{"br_backward", machine.PSR_Z, 0x05FE, 0x2FFF},
	}

	for _, entry := range table {
		st := &machine.State{}
		mem := &machine.Memory{}
		st.Reset()
		st.PC = 0x3000
		st.PSR = (st.PSR &^ machine.PSR_CC_MASK) | entry.cc

		err := exec(st, mem, entry.ir)
		assert.NoError(err, entry.name)
		assert.Equal(entry.pc, st.PC, entry.name)
	}

	st := &machine.State{}
	mem := &machine.Memory{}
	st.Reset()
	st.PC = 0x3000

	// JMP R1
	st.R[1] = 0x4000
	err := exec(st, mem, 0xC040)
	assert.NoError(err)
	assert.Equal(machine.Word(0x4000), st.PC)

	// JSR #4 links through R7.
	err = exec(st, mem, 0x4804)
	assert.NoError(err)
	assert.Equal(machine.Word(0x4005), st.PC)
	assert.Equal(machine.Word(0x4001), st.R[7])

	// JSRR R1
	st.R[1] = 0x5000
	err = exec(st, mem, 0x4040)
	assert.NoError(err)
	assert.Equal(machine.Word(0x5000), st.PC)
	assert.Equal(machine.Word(0x4006), st.R[7])

	// JSRR R7 jumps to the old R7, not the new link address.
	st.R[7] = 0x6000
	err = exec(st, mem, 0x41C0)
	assert.NoError(err)
	assert.Equal(machine.Word(0x6000), st.PC)
	assert.Equal(machine.Word(0x5001), st.R[7])
}

func TestTrap(t *testing.T) {
	assert := assert.New(t)

	st := &machine.State{}
	mem := &machine.Memory{}
	st.Reset()
	st.SetPrivilege(machine.PRIV_USER)
	st.PC = 0x3000
	st.R[6] = 0x3800
	mem.Poke(st, machine.TRAP_TABLE_ADDR+0x25, 0x0520)

	savedPSR := st.PSR

	err := exec(st, mem, 0xF025)
	assert.NoError(err)
	assert.Equal(machine.Word(0x0520), st.PC)
	assert.Equal(machine.PRIV_SUPERVISOR, st.Privilege())
	assert.Equal(machine.Word(0x37FE), st.R[6])
	assert.Equal(machine.Word(0x3001), mem.Peek(st, 0x37FE), "return address on top")
	assert.Equal(savedPSR, mem.Peek(st, 0x37FF), "saved status word above it")
}

func TestRti(t *testing.T) {
	assert := assert.New(t)

	st := &machine.State{}
	mem := &machine.Memory{}
	st.Reset()
	st.PC = 0x0520
	st.R[6] = 0x37FE
	mem.Poke(st, 0x37FE, 0x3001)
	mem.Poke(st, 0x37FF, machine.PSR_PRIV|machine.PSR_Z)

	err := exec(st, mem, 0x8000)
	assert.NoError(err)
	assert.Equal(machine.Word(0x3001), st.PC)
	assert.Equal(machine.PRIV_USER, st.Privilege())
	assert.Equal(machine.Word(0x3800), st.R[6])

	// RTI in user mode is a privilege violation before anything moves.
	st.Reset()
	st.SetPrivilege(machine.PRIV_USER)
	st.PC = 0x3000
	st.R[6] = 0x3800

	err = exec(st, mem, 0x8000)
	var fault *machine.Fault
	assert.ErrorAs(err, &fault)
	assert.Equal(machine.FAULT_PRIVILEGE, fault.Kind)
	assert.Equal(machine.Word(0x3800), st.R[6], "fault aborts before the pops")
}

func TestIllegalPatterns(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		ir   machine.Word
	}){
		{"reserved", 0xD123},
		{"jmp_dr_bits", 0xC240},
		{"jmp_offset_bits", 0xC041},
		{"jsrr_high_bits", 0x4440},
		{"jsrr_offset_bits", 0x4042},
		{"trap_high_bits", 0xF125},
	}

	for _, entry := range table {
		st := &machine.State{}
		mem := &machine.Memory{}
		st.Reset()
		st.PC = 0x3000

		err := exec(st, mem, entry.ir)
		var fault *machine.Fault
		assert.ErrorAs(err, &fault, entry.name)
		assert.Equal(machine.FAULT_ILLEGAL, fault.Kind, entry.name)
	}
}

func TestPlanOps(t *testing.T) {
	assert := assert.New(t)

	plan := PlanFor(0x1042)
	cycles := map[int]bool{}
	count := 0
	for i, op := range plan.Ops() {
		cycles[i] = true
		count++
		_ = op
	}
	assert.Equal(len(plan), len(cycles))
	total := 0
	for _, c := range plan {
		total += len(c.Ops)
	}
	assert.Equal(total, count)
}
