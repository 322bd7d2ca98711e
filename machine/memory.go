package machine

// Fixed memory map addresses. The device page occupies the high 512 words;
// reads and writes there are intercepted as device operations, never plain
// storage.
const (
	TRAP_TABLE_ADDR Word = 0x0000 // trap vector table, 256 entries
	INT_TABLE_ADDR  Word = 0x0100 // interrupt/exception vector table, 256 entries
	DEVICE_ADDR     Word = 0xFE00 // start of the device register page

	KBSR_ADDR Word = 0xFE00 // keyboard status; bit 15 set when a character waits
	KBDR_ADDR Word = 0xFE02 // keyboard data; reading takes the character
	DSR_ADDR  Word = 0xFE04 // display status; bit 15 set when the display is ready
	DDR_ADDR  Word = 0xFE06 // display data; writing sends the low byte
	PSR_ADDR  Word = 0xFFFC // aliases the processor status word
	MCR_ADDR  Word = 0xFFFE // machine control; clearing bit 15 stops the machine

	DEVICE_READY Word = 0x8000 // ready bit in KBSR and DSR
	MCR_RUN      Word = 0x8000 // run bit in MCR
)

// Keyboard is the input half of the device boundary. The I/O collaborator
// owns the implementation; both calls must be non-blocking. Take is only
// called after Ready reports true and clears the pending character.
type Keyboard interface {
	Ready() bool
	Take() Word
}

// Display is the output half of the device boundary. Accept must not block;
// a display that is not Ready never sees the write.
type Display interface {
	Ready() bool
	Accept(ch Word)
}

// Memory is the 65536-word addressable space of one machine instance. The
// vector tables and OS region are ordinary storage, mutable by guest code;
// only the device page is intercepted.
type Memory struct {
	words [1 << 16]Word

	// Devices installed by the caller. A nil device is never ready.
	Keyboard Keyboard
	Display  Display

	// MCR is the machine control register. The run loop stops once the run
	// bit is cleared, typically by the guest's halt service routine.
	MCR Word
}

// Reset clears storage and devices register state. The display starts ready
// and the machine stopped.
func (m *Memory) Reset() {
	m.words = [1 << 16]Word{}
	m.MCR = 0
}

// Read returns the word at addr, performing device side effects in the
// device page. A KBDR read takes the pending character, clearing the
// keyboard status. The processor status word reads through from st.
func (m *Memory) Read(st *State, addr Word) Word {
	if addr < DEVICE_ADDR {
		return m.words[addr]
	}
	switch addr {
	case KBSR_ADDR:
		if m.Keyboard != nil && m.Keyboard.Ready() {
			return DEVICE_READY
		}
		return 0
	case KBDR_ADDR:
		if m.Keyboard != nil && m.Keyboard.Ready() {
			return m.Keyboard.Take() & 0xff
		}
		return 0
	case DSR_ADDR:
		if m.Display != nil && m.Display.Ready() {
			return DEVICE_READY
		}
		return 0
	case PSR_ADDR:
		return st.PSR
	case MCR_ADDR:
		return m.MCR
	default:
		// Unassigned device registers read as zero.
		return 0
	}
}

// Write stores v at addr, performing device side effects in the device
// page. Writes to status registers and unassigned device addresses are
// dropped.
func (m *Memory) Write(st *State, addr, v Word) {
	if addr < DEVICE_ADDR {
		m.words[addr] = v
		return
	}
	switch addr {
	case DDR_ADDR:
		if m.Display != nil && m.Display.Ready() {
			m.Display.Accept(v & 0xff)
		}
	case PSR_ADDR:
		st.PSR = v
	case MCR_ADDR:
		m.MCR = v
	}
}

// Peek returns the word at addr without device side effects. Device status
// registers report their current value; the keyboard data register reads as
// zero rather than consuming input. Intended for the debug surface.
func (m *Memory) Peek(st *State, addr Word) Word {
	if addr == KBDR_ADDR {
		return 0
	}
	return m.Read(st, addr)
}

// Poke stores v at addr bypassing the device intercept where that would
// have side effects: only plain storage, PSR and MCR are writable. Intended
// for the debug surface and image loading.
func (m *Memory) Poke(st *State, addr, v Word) {
	if addr < DEVICE_ADDR {
		m.words[addr] = v
		return
	}
	switch addr {
	case PSR_ADDR:
		st.PSR = v
	case MCR_ADDR:
		m.MCR = v
	}
}

// Running reports whether the run bit of the machine control register is set.
func (m *Memory) Running() bool {
	return m.MCR&MCR_RUN != 0
}
