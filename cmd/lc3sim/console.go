package main

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/JackCrumpLeys/textbook210-emulator/machine"
)

// console wires the host terminal to the device registers: stdin in raw
// mode as the keyboard, stdout as the display.
type console struct {
	Keys   consoleKeys
	Screen consoleScreen

	saved *unix.Termios
}

func newConsole() (con *console, err error) {
	con = &console{
		Keys: consoleKeys{pending: make(chan machine.Word, 64)},
	}

	saved, terr := tcget(os.Stdin.Fd())
	if terr == nil {
		// Raw enough: no echo, no line buffering; ISIG stays so Ctrl-C
		// still pauses the run.
		raw := *saved
		raw.Lflag &^= unix.ECHO | unix.ICANON
		raw.Cc[unix.VMIN] = 1
		raw.Cc[unix.VTIME] = 0
		err = tcset(os.Stdin.Fd(), &raw)
		if err != nil {
			return
		}
		con.saved = saved
		con.Screen.raw = true
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, rerr := os.Stdin.Read(buf)
			if rerr != nil {
				close(con.Keys.pending)
				return
			}
			if n == 1 {
				con.Keys.pending <- machine.Word(buf[0])
			}
		}
	}()

	return
}

// Close restores the terminal. Safe to call more than once.
func (con *console) Close() (err error) {
	if con.saved != nil {
		err = tcset(os.Stdin.Fd(), con.saved)
		con.saved = nil
	}
	return
}

// consoleKeys buffers stdin bytes for the keyboard data register.
type consoleKeys struct {
	pending chan machine.Word
	taken   machine.Word
	holding bool
}

func (k *consoleKeys) Ready() bool {
	if k.holding {
		return true
	}
	select {
	case ch, ok := <-k.pending:
		if !ok {
			return false
		}
		k.taken = ch
		k.holding = true
		return true
	default:
		return false
	}
}

func (k *consoleKeys) Take() (ch machine.Word) {
	ch = k.taken
	k.holding = false
	return
}

// consoleScreen writes display characters straight to stdout.
type consoleScreen struct {
	raw bool
}

func (s *consoleScreen) Ready() bool {
	return true
}

func (s *consoleScreen) Accept(ch machine.Word) {
	if s.raw && ch == '\n' {
		os.Stdout.WriteString("\r\n")
		return
	}
	outb := [1]byte{byte(ch)}
	os.Stdout.Write(outb[:])
}
