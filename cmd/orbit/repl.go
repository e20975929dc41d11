package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/orbit-lang/orbit/compiler"
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vm"
)

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "Start an interactive Orbit session",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to orbit.yaml"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return runRepl(cmd.String("config"))
	},
}

// runRepl drives a read-compile-run loop over one persistent *vm.VM, so
// globals (and hence top-level `def`/`class` bindings) survive across
// entries, matching the embedding API's LastPoppedValue contract (spec §6,
// Glossary "Last-popped slot") for auto-printing bare expression results.
func runRepl(configPath string) error {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	prompt := "orbit> "
	contPrompt := "   ... "
	if !styled {
		prompt, contPrompt = "", ""
	}

	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	machine := newConfiguredVM(loadConfig(configPath))

	var buf strings.Builder
	continuing := false

	for {
		rl.SetPrompt(prompt)
		if continuing {
			rl.SetPrompt(contPrompt)
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if continuing {
				buf.Reset()
				continuing = false
				continue
			}
			break
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimRight(line, " \t")
		if continuing {
			if strings.TrimSpace(trimmed) == "" {
				source := buf.String()
				buf.Reset()
				continuing = false
				evalAndPrint(machine, source)
				continue
			}
			buf.WriteString(trimmed)
			buf.WriteByte('\n')
			continue
		}

		if strings.HasSuffix(strings.TrimSpace(trimmed), ":") {
			buf.WriteString(trimmed)
			buf.WriteByte('\n')
			continuing = true
			continue
		}

		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		evalAndPrint(machine, trimmed)
	}
	return nil
}

func evalAndPrint(machine *vm.VM, source string) {
	chunk, err := compiler.Compile(source)
	if err != nil {
		fmt.Println(err)
		return
	}
	if result, _ := machine.Interpret(chunk); result != vm.InterpretOK {
		return
	}
	if last := machine.LastPoppedValue(); last.Kind != values.KindNil {
		if repr, err := machine.Repr(last); err == nil {
			fmt.Println(repr)
		}
	}
}
