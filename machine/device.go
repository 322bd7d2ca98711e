package machine

import (
	"strings"
)

// KeyBuffer is a Keyboard fed from host code: characters queue in FIFO
// order and the status bit stays set while any remain. It backs the script
// driver and tests; interactive frontends provide their own Keyboard.
type KeyBuffer struct {
	pending []Word
}

// Feed appends the bytes of s to the pending input.
func (kb *KeyBuffer) Feed(s string) {
	for _, b := range []byte(s) {
		kb.pending = append(kb.pending, Word(b))
	}
}

func (kb *KeyBuffer) Ready() bool {
	return len(kb.pending) > 0
}

func (kb *KeyBuffer) Take() (ch Word) {
	ch = kb.pending[0]
	kb.pending = kb.pending[1:]
	return
}

// Screen is a Display that is always ready and records every accepted
// character.
type Screen struct {
	out strings.Builder
}

func (sc *Screen) Ready() bool {
	return true
}

func (sc *Screen) Accept(ch Word) {
	sc.out.WriteByte(byte(ch))
}

// String returns everything written to the display since the last Clear.
func (sc *Screen) String() string {
	return sc.out.String()
}

// Clear discards the recorded output.
func (sc *Screen) Clear() {
	sc.out.Reset()
}
