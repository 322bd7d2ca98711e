// lc3sim runs LC-3 object images at micro-operation granularity.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/JackCrumpLeys/textbook210-emulator/emulator"
	"github.com/JackCrumpLeys/textbook210-emulator/machine"
	"github.com/JackCrumpLeys/textbook210-emulator/program"
)

func main() {
	var cli struct {
		Run    runCmd    `cmd:"" help:"Run an object image until the machine halts."`
		Script scriptCmd `cmd:"" help:"Drive a machine from a Starlark script."`
	}

	ctx := kong.Parse(&cli)
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type runCmd struct {
	Image   string `arg:"" type:"existingfile" help:"Object image (.obj)."`
	Sym     string `name:"sym" type:"existingfile" help:"Symbol table (.sym)."`
	Start   string `name:"start" help:"Start address override, hex (e.g. x3000)."`
	Limit   int    `name:"limit" help:"Instruction limit; 0 means none."`
	Verbose bool   `name:"verbose" short:"v" help:"Verbose logging."`
}

func (r *runCmd) Run(ctx *kong.Context) (err error) {
	img, err := program.ReadFile(r.Image)
	if err != nil {
		return
	}
	if len(r.Sym) != 0 {
		img.Symbols, err = program.ReadSymbolsFile(r.Sym)
		if err != nil {
			return
		}
	}

	m := emulator.New()
	m.Verbose = r.Verbose
	err = m.LoadImage(img)
	if err != nil {
		return
	}

	if len(r.Start) != 0 {
		var start uint64
		start, err = strconv.ParseUint(strings.TrimPrefix(r.Start, "x"), 16, 16)
		if err != nil {
			return
		}
		m.State.PC = machine.Word(start)
	}

	con, err := newConsole()
	if err != nil {
		return
	}
	defer con.Close()
	m.Mem.Keyboard = &con.Keys
	m.Mem.Display = &con.Screen

	// Ctrl-C pauses the machine instead of killing the process, so the
	// terminal is restored and the state printed.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)
	go func() {
		<-stop
		m.RequestPause()
	}()

	done, err := m.Run(r.Limit)
	con.Close()

	switch {
	case done:
		fmt.Println()
		fmt.Println(&m.State)
	case errors.Is(err, emulator.ErrPaused), errors.Is(err, emulator.ErrLimit):
		err = nil
		fmt.Println()
		fmt.Println(m.Snapshot())
	}
	return
}
