// Package machine models the architectural state of a 16-bit LC-3 computer:
// the register file, program counter, processor status word and internal
// latches, the 65536-word memory with its memory-mapped device page, and the
// privilege/protection rules that gate every access.
//
// The package is a pure data layer. Nothing here sequences execution; the cpu
// package interprets micro-operations against this state and the emulator
// package drives the instruction cycle.
package machine
