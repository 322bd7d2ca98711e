package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/JackCrumpLeys/textbook210-emulator/emulator"
	"github.com/JackCrumpLeys/textbook210-emulator/machine"
	"github.com/JackCrumpLeys/textbook210-emulator/program"
)

type scriptCmd struct {
	Script  string `arg:"" type:"existingfile" help:"Starlark script driving the machine."`
	Verbose bool   `name:"verbose" short:"v" help:"Verbose logging."`
}

func (s *scriptCmd) Run(ctx *kong.Context) (err error) {
	src, err := os.ReadFile(s.Script)
	if err != nil {
		return
	}

	m := emulator.New()
	m.Verbose = s.Verbose

	return runScript(m, s.Script, src)
}

// runScript executes a Starlark script with the machine's debug API bound
// as builtins.
func runScript(m *emulator.Machine, name string, src []byte) (err error) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Println(msg)
		},
	}
	// Debug scripts are imperative; allow the control flow the bazel
	// dialect leaves off by default.
	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}

	_, err = starlark.ExecFileOptions(&opts, thread, name, src, builtins(m))
	return
}

// stopString renders a Run result for the script.
func stopString(done bool, err error) (starlark.Value, error) {
	switch {
	case done:
		return starlark.String("halt"), nil
	case errors.Is(err, emulator.ErrBreakpoint):
		return starlark.String("breakpoint"), nil
	case errors.Is(err, emulator.ErrLimit):
		return starlark.String("limit"), nil
	case errors.Is(err, emulator.ErrPaused):
		return starlark.String("paused"), nil
	case err != nil:
		return nil, err
	default:
		return starlark.String("stopped"), nil
	}
}

func builtins(m *emulator.Machine) starlark.StringDict {
	fn := func(name string, impl func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)) starlark.Value {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			return impl(b, args, kwargs)
		})
	}

	return starlark.StringDict{
		"load_image": fn("load_image", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var path, sym string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "path", &path, "sym?", &sym); err != nil {
				return nil, err
			}
			img, err := program.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if len(sym) != 0 {
				img.Symbols, err = program.ReadSymbolsFile(sym)
				if err != nil {
					return nil, err
				}
			}
			if err = m.LoadImage(img); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(img.Origin)), nil
		}),

		"reg": fn("reg", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var n int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(m.Reg(n))), nil
		}),

		"set_reg": fn("set_reg", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var n, v int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n", &n, "v", &v); err != nil {
				return nil, err
			}
			m.SetReg(n, machine.Word(v))
			return starlark.None, nil
		}),

		"pc": fn("pc", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(m.State.PC)), nil
		}),

		"set_pc": fn("set_pc", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var v int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "v", &v); err != nil {
				return nil, err
			}
			m.State.PC = machine.Word(v)
			return starlark.None, nil
		}),

		"peek": fn("peek", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var addr int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
				return nil, err
			}
			return starlark.MakeInt(int(m.Peek(machine.Word(addr)))), nil
		}),

		"poke": fn("poke", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var addr, v int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr, "v", &v); err != nil {
				return nil, err
			}
			m.Poke(machine.Word(addr), machine.Word(v))
			return starlark.None, nil
		}),

		"step": fn("step", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			n := 1
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n?", &n); err != nil {
				return nil, err
			}
			done := false
			for range n {
				var err error
				done, err = m.StepInstruction()
				if err != nil {
					return nil, err
				}
				if done {
					break
				}
			}
			return starlark.Bool(done), nil
		}),

		"step_group": fn("step_group", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			n := 1
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "n?", &n); err != nil {
				return nil, err
			}
			done := false
			for range n {
				var err error
				done, err = m.StepGroup()
				if err != nil {
					return nil, err
				}
				if done {
					break
				}
			}
			return starlark.Bool(done), nil
		}),

		"run": fn("run", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			limit := 0
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "limit?", &limit); err != nil {
				return nil, err
			}
			return stopString(m.Run(limit))
		}),

		"add_breakpoint": fn("add_breakpoint", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var addr int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
				return nil, err
			}
			m.AddBreakpoint(machine.Word(addr))
			return starlark.None, nil
		}),

		"clear_breakpoint": fn("clear_breakpoint", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var addr int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "addr", &addr); err != nil {
				return nil, err
			}
			m.ClearBreakpoint(machine.Word(addr))
			return starlark.None, nil
		}),

		"interrupt": fn("interrupt", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var vect, pri int
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "vector", &vect, "priority", &pri); err != nil {
				return nil, err
			}
			m.AssertInterrupt(machine.Word(vect), machine.Word(pri))
			return starlark.None, nil
		}),

		"feed": fn("feed", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var s string
			if err := starlark.UnpackArgs(b.Name(), args, kwargs, "s", &s); err != nil {
				return nil, err
			}
			m.Keys.Feed(s)
			return starlark.None, nil
		}),

		"output": fn("output", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.String(m.Screen.String()), nil
		}),

		"snapshot": fn("snapshot", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			return starlark.String(m.Snapshot()), nil
		}),

		"reset": fn("reset", func(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
				return nil, err
			}
			m.Reset()
			return starlark.None, nil
		}),
	}
}
