package bytecode

import (
	"fmt"
	"io"

	"github.com/orbit-lang/orbit/values"
)

// Disassemble writes a human-readable listing of chunk's instructions to
// out, one per line, prefixed with the name given for display purposes
// (e.g. "<script>" or a function's qualified name).
func Disassemble(chunk *values.Chunk, name string, out io.Writer) {
	fmt.Fprintf(out, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		offset = DisassembleInstruction(chunk, out, offset)
	}
}

// DisassembleInstruction disassembles the instruction at offset and returns
// the offset of the next instruction.
func DisassembleInstruction(chunk *values.Chunk, out io.Writer, offset int) int {
	fmt.Fprintf(out, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		fmt.Fprint(out, "   | ")
	} else {
		fmt.Fprintf(out, "%4d ", chunk.Lines[offset])
	}

	op := Op(chunk.Code[offset])
	if !Valid(op) {
		fmt.Fprintf(out, "unknown opcode %d\n", op)
		return offset + 1
	}

	width := OperandWidth(op)
	switch width {
	case 0:
		fmt.Fprintf(out, "%s\n", op)
		return offset + 1
	case 1:
		operand := chunk.Code[offset+1]
		if isConstantOp(op) {
			fmt.Fprintf(out, "%-16s %4d '%v'\n", op, operand, constantPreview(chunk, uint16(operand)))
		} else {
			fmt.Fprintf(out, "%-16s %4d\n", op, operand)
		}
		return offset + 2
	case 2:
		operand := uint16(chunk.Code[offset+1])<<8 | uint16(chunk.Code[offset+2])
		if isConstantOp(op) {
			fmt.Fprintf(out, "%-16s %4d '%v'\n", op, operand, constantPreview(chunk, operand))
		} else if op == OpJump || op == OpJumpIfFalse || op == OpLoop {
			target := offset + 3
			if op == OpLoop {
				target -= int(operand)
			} else {
				target += int(operand)
			}
			fmt.Fprintf(out, "%-16s %4d -> %d\n", op, operand, target)
		} else {
			fmt.Fprintf(out, "%-16s %4d\n", op, operand)
		}
		return offset + 3
	default:
		fmt.Fprintf(out, "%s (bad width %d)\n", op, width)
		return offset + 1
	}
}

func isConstantOp(op Op) bool {
	switch op {
	case OpConstant, OpDefineGlobal, OpGetGlobal, OpSetGlobal:
		return true
	default:
		return false
	}
}

func constantPreview(chunk *values.Chunk, idx uint16) string {
	if int(idx) >= len(chunk.Constants) {
		return "<out of range>"
	}
	c := chunk.Constants[idx]
	switch c.Kind {
	case values.KindStr:
		return c.AsStr()
	case values.KindInt:
		return fmt.Sprintf("%d", c.AsInt())
	case values.KindFloat:
		return fmt.Sprintf("%g", c.AsFloat())
	case values.KindFunctionProto:
		return fmt.Sprintf("<fn %s>", c.AsFunctionProto().Name)
	default:
		return c.Kind.String()
	}
}
