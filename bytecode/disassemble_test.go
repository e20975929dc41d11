package bytecode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

func TestDisassembleSimpleChunk(t *testing.T) {
	chunk := &values.Chunk{}
	idx := chunk.AddConstant(values.Int(42))
	chunk.Write(byte(OpConstant), 1)
	chunk.WriteUint16(idx, 1)
	chunk.Write(byte(OpReturn), 1)

	var buf bytes.Buffer
	Disassemble(chunk, "<script>", &buf)
	out := buf.String()

	require.True(t, strings.HasPrefix(out, "== <script> ==\n"))
	assert.Contains(t, out, "OpConstant")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "OpReturn")
}

func TestDisassembleInstructionReportsJumpTarget(t *testing.T) {
	chunk := &values.Chunk{}
	chunk.Write(byte(OpJump), 1)
	chunk.WriteUint16(2, 1)
	chunk.Write(byte(OpNil), 1)

	var buf bytes.Buffer
	next := DisassembleInstruction(chunk, &buf, 0)
	assert.Equal(t, 3, next)
	assert.Contains(t, buf.String(), "-> 5")
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	chunk := &values.Chunk{Code: []byte{255}, Lines: []int{1}}
	var buf bytes.Buffer
	next := DisassembleInstruction(chunk, &buf, 0)
	assert.Equal(t, 1, next)
	assert.Contains(t, buf.String(), "unknown opcode")
}
