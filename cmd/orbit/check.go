package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/orbit-lang/orbit/compiler"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Compile a script without running it, reporting any errors",
	ArgsUsage: "<script.orb>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() == 0 {
			return fmt.Errorf("usage: orbit check <script.orb>")
		}
		path := cmd.Args().First()
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := compiler.Compile(string(src)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s: ok\n", path)
		return nil
	},
}
