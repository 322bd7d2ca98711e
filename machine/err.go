package machine

import (
	"github.com/JackCrumpLeys/textbook210-emulator/translate"
)

var f = translate.From

// FaultKind classifies the guest-visible exceptions the engine can raise.
type FaultKind int

//go:generate go tool stringer -linecomment -type=FaultKind
const (
	FAULT_PRIVILEGE      = FaultKind(0) // privilege violation
	FAULT_ILLEGAL        = FaultKind(1) // illegal instruction
	FAULT_ACCESS_CONTROL = FaultKind(2) // access control violation
)

// Vector returns the fault's entry in the interrupt/exception vector table,
// relative to the table base.
func (k FaultKind) Vector() Word {
	return Word(k)
}

// Fault is a guest-visible exception signal. It is delivered inside the
// emulated machine through the dispatcher's vectoring protocol; the engine
// never aborts for one.
type Fault struct {
	Kind   FaultKind
	Addr   Word       // offending address, when the fault names one
	Access AccessKind // offending access kind for access control faults
}

func (fa *Fault) Error() string {
	switch fa.Kind {
	case FAULT_ACCESS_CONTROL:
		return f("%v: %v x%04X", fa.Kind, fa.Access, fa.Addr)
	default:
		return f("%v at x%04X", fa.Kind, fa.Addr)
	}
}
