package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/bytecode"
)

// containsOp reports whether op appears anywhere in chunk's code stream,
// walking operands by width so a constant index byte is never mistaken for
// an opcode.
func containsOp(t *testing.T, code []byte, want bytecode.Op) bool {
	t.Helper()
	for i := 0; i < len(code); {
		op := bytecode.Op(code[i])
		if op == want {
			return true
		}
		i += 1 + bytecode.OperandWidth(op)
	}
	return false
}

func TestCompileSimpleArithmetic(t *testing.T) {
	chunk, err := Compile("1 + 2 * 3\n")
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpAdd))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpMultiply))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpConstant))
}

func TestCompileEndsWithImplicitNilReturn(t *testing.T) {
	chunk, err := Compile("x = 1\n")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunk.Code), 2)
	assert.Equal(t, bytecode.OpNil, bytecode.Op(chunk.Code[len(chunk.Code)-2]))
	assert.Equal(t, bytecode.OpReturn, bytecode.Op(chunk.Code[len(chunk.Code)-1]))
}

func TestCompileGlobalAssignmentEmitsDefineGlobal(t *testing.T) {
	chunk, err := Compile("x = 1\nprintln(x)\n")
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpDefineGlobal))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpGetGlobal))
}

func TestCompileIfElseEmitsJumps(t *testing.T) {
	src := "if 1 < 2:\n    println(1)\nelse:\n    println(2)\n"
	chunk, err := Compile(src)
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpJumpIfFalse))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpJump))
}

func TestCompileWhileLoopEmitsLoop(t *testing.T) {
	src := "i = 0\nwhile i < 3:\n    i = i + 1\n"
	chunk, err := Compile(src)
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpLoop))
}

func TestCompileFunctionDefEmitsMakeFunction(t *testing.T) {
	src := "def f(x):\n    return x + 1\n"
	chunk, err := Compile(src)
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpMakeFunction))

	found := false
	for _, c := range chunk.Constants {
		if c.Kind.String() == "function" {
			found = true
		}
	}
	assert.True(t, found, "expected a FunctionProto constant in the pool")
}

func TestCompileClassDefEmitsMakeClassAndInherit(t *testing.T) {
	src := "class A:\n    def f(self):\n        return 1\n\nclass B(A):\n    def g(self):\n        return 2\n"
	chunk, err := Compile(src)
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpMakeClass))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpInherit))
}

func TestCompileListAndDictLiterals(t *testing.T) {
	chunk, err := Compile("xs = [1, 2, 3]\nd = {\"a\": 1}\n")
	require.NoError(t, err)
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpMakeList))
	assert.True(t, containsOp(t, chunk.Code, bytecode.OpMakeDict))
}

func TestCompileSyntaxErrorIsReported(t *testing.T) {
	_, err := Compile("def f(:\n    return 1\n")
	require.Error(t, err)
	assert.IsType(t, &CompileError{}, err)
}

func TestCompileClassBodyRejectsNonDefStatements(t *testing.T) {
	_, err := Compile("class A:\n    x = 1\n")
	require.Error(t, err)
}
