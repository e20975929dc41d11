package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/compiler"
	"github.com/orbit-lang/orbit/values"
)

var disasmCommand = &cli.Command{
	Name:      "disasm",
	Usage:     "Compile a script and print its bytecode listing",
	ArgsUsage: "<script.orb>",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() == 0 {
			return fmt.Errorf("usage: orbit disasm <script.orb>")
		}
		src, err := os.ReadFile(cmd.Args().First())
		if err != nil {
			return err
		}
		chunk, err := compiler.Compile(string(src))
		if err != nil {
			return err
		}
		disassembleRecursive(chunk, "<script>")
		return nil
	},
}

// disassembleRecursive prints chunk's listing and then recurses into every
// FunctionProto found in its constants pool, matching the way a clox-style
// debug dump walks nested function chunks.
func disassembleRecursive(chunk *values.Chunk, name string) {
	bytecode.Disassemble(chunk, name, os.Stdout)
	for _, c := range chunk.Constants {
		if c.Kind == values.KindFunctionProto {
			proto := c.AsFunctionProto()
			disassembleRecursive(proto.Chunk, proto.QualName)
		}
	}
}
