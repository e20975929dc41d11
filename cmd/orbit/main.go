// Command orbit is the reference CLI/REPL front end for the Orbit bytecode
// VM (SPEC_FULL.md AMBIENT STACK): it owns the lexer+compiler front end and
// drives the vm package to execute scripts, but the vm package itself has
// zero import dependency on either (spec §6).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/orbit-lang/orbit/version"
)

func main() {
	app := &cli.Command{
		Name:    "orbit",
		Usage:   "Run and inspect Orbit scripts",
		Version: version.Version(),
		Commands: []*cli.Command{
			runCommand,
			replCommand,
			checkCommand,
			disasmCommand,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to orbit.yaml"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 0 {
				return runFile(cmd.Args().First(), cmd.String("config"))
			}
			return runRepl(cmd.String("config"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "orbit: %v\n", err)
		os.Exit(1)
	}
}
