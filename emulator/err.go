package emulator

import (
	"errors"

	"github.com/JackCrumpLeys/textbook210-emulator/translate"
)

var f = translate.From

var (
	// Host-side errors. These never reach the guest; a running program
	// only ever observes faults through its vector table.
	ErrImageEmpty = errors.New(f("image empty"))

	// Run stop signals.
	ErrBreakpoint = errors.New(f("breakpoint"))
	ErrPaused     = errors.New(f("paused"))
	ErrLimit      = errors.New(f("step limit reached"))
)
