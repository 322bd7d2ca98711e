// Package cpu implements the micro-operation layer of the instruction cycle.
//
// A MicroOp is one atomic data movement: a move between locations, a
// protection-gated memory read or write through the MAR/MDR latches, an ALU
// compute into the output latch, a condition-code update, or a control flag.
// PlanFor turns a fetched instruction word into an execution plan: an
// ordered sequence of cycles, each cycle a group of micro-ops tagged with
// its canonical phase. Apply executes exactly one micro-op against the
// machine state; the Tracker observes cycles and reports the current phase
// and instruction boundaries for stepping callers.
package cpu
