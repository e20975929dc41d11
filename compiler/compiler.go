// Package compiler implements Orbit's single-pass bytecode compiler: a
// Pratt expression parser (grounded on the teacher's parser.PrattParser —
// prefixParseFns/infixParseFns keyed by token type, currentToken/peekToken)
// fused directly with code generation, emitting a values.Chunk the vm
// package consumes without any intervening AST (spec §1, §6).
package compiler

import (
	"fmt"
	"strconv"

	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/lexer"
	"github.com/orbit-lang/orbit/values"
)

// precedence mirrors the teacher's Pratt-parser precedence ladder, adapted
// to Orbit's operator set.
type precedence int

const (
	precNone precedence = iota
	precOr
	precAnd
	precNot
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type (
	prefixParseFn func(c *Compiler, canAssign bool)
	infixParseFn  func(c *Compiler, canAssign bool)
)

type parseRule struct {
	prefix     prefixParseFn
	infix      infixParseFn
	precedence precedence
}

var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.LPAREN:   {prefix: parseGrouping, infix: parseCall, precedence: precCall},
		lexer.LBRACKET: {prefix: parseListLiteral, infix: parseIndexOrSlice, precedence: precCall},
		lexer.LBRACE:   {prefix: parseDictLiteral},
		lexer.DOT:      {infix: parseAttr, precedence: precCall},
		lexer.MINUS:    {prefix: parseUnary, infix: parseBinary, precedence: precTerm},
		lexer.PLUS:     {infix: parseBinary, precedence: precTerm},
		lexer.SLASH:    {infix: parseBinary, precedence: precFactor},
		lexer.STAR:     {infix: parseBinary, precedence: precFactor},
		lexer.PERCENT:  {infix: parseBinary, precedence: precFactor},
		lexer.BANG:     {prefix: parseNot},
		lexer.NOT:      {prefix: parseNot},
		lexer.NEQ:      {infix: parseBinary, precedence: precEquality},
		lexer.EQ:       {infix: parseBinary, precedence: precEquality},
		lexer.GT:       {infix: parseBinary, precedence: precComparison},
		lexer.GE:       {infix: parseBinary, precedence: precComparison},
		lexer.LT:       {infix: parseBinary, precedence: precComparison},
		lexer.LE:       {infix: parseBinary, precedence: precComparison},
		lexer.IDENT:    {prefix: parseIdent},
		lexer.STRING:   {prefix: parseString},
		lexer.INT:      {prefix: parseInt},
		lexer.FLOAT:    {prefix: parseFloat},
		lexer.TRUE:     {prefix: parseLiteralBool},
		lexer.FALSE:    {prefix: parseLiteralBool},
		lexer.NIL:      {prefix: parseNil},
		lexer.AND:      {infix: parseAnd, precedence: precAnd},
		lexer.OR:       {infix: parseOr, precedence: precOr},
		lexer.IN:       {infix: parseBinary, precedence: precComparison},
	}
}

func getRule(t lexer.TokenType) parseRule { return rules[t] }

// local tracks one declared name in the current function's scope, by
// position on the value stack relative to stack_base (spec §4.2).
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalRef is a compile-time upvalue descriptor under construction, mirrors
// values.UpvalueDesc once finalized.
type upvalRef struct {
	isLocal bool
	index   uint16
}

type loopCtx struct {
	continueTarget int
	breakJumps     []int
	depthAtStart   int // fc.scopeDepth when the loop header was compiled, for break/continue unwind
	cleanupValues  int // anonymous stack temporaries (iterator+cursor, for a for-loop) break must also pop
}

// functionCompiler holds the state for compiling one function body (or the
// top-level script, which is compiled as an implicit function of arity 0).
// enclosing chains outward for upvalue resolution across nested defs,
// exactly as clox-style single-pass compilers do.
type functionCompiler struct {
	enclosing  *functionCompiler
	proto      *values.FunctionProto
	locals     []local
	scopeDepth int
	upvalues   []upvalRef
	loops      []loopCtx
	inClass    bool            // true while compiling a method body, for super()'s sake (no special codegen needed: super is just an identifier resolving to the global native)
	nonlocals  map[string]bool // names declared via `nonlocal` in this function body
}

// Compiler drives the lexer and the active functionCompiler chain.
type Compiler struct {
	lex       *lexer.Lexer
	cur       lexer.Token
	peek      lexer.Token
	prevToken lexer.Token // the token just consumed by the Pratt loop, read by parse* functions
	fc        *functionCompiler
	errors    []string

	exprDepth     int  // parsePrecedence nesting depth; assignment only applies at depth 1 (true statement position)
	assignHandled bool // set by an assignment production to tell the statement layer to skip its discard-pop
}

// CompileError aggregates parse/codegen diagnostics.
type CompileError struct{ Errors []string }

func (e *CompileError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("%d compile errors, first: %s", len(e.Errors), e.Errors[0])
}

// Compile parses source and returns the root Chunk (spec §6's compiler
// contract): a top-level function of arity 0 whose Chunk the vm package
// runs directly via Interpret.
func Compile(source string) (*values.Chunk, error) {
	c := &Compiler{lex: lexer.New(source)}
	c.advance()
	c.advance()

	c.fc = &functionCompiler{proto: &values.FunctionProto{Name: "<script>", Chunk: &values.Chunk{}}, nonlocals: map[string]bool{}}
	c.fc.locals = append(c.fc.locals, local{name: "", depth: 0})

	for !c.check(lexer.EOF) {
		c.skipNewlines()
		if c.check(lexer.EOF) {
			break
		}
		c.statement()
	}
	c.emitByte(byte(bytecode.OpNil))
	c.emitByte(byte(bytecode.OpReturn))

	if len(c.errors) > 0 {
		return nil, &CompileError{Errors: c.errors}
	}
	return c.fc.proto.Chunk, nil
}

// ---- token stream helpers ----

func (c *Compiler) advance() {
	c.cur = c.peek
	c.peek = c.lex.Next()
}

func (c *Compiler) check(t lexer.TokenType) bool { return c.cur.Type == t }

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) expect(t lexer.TokenType, msg string) {
	if c.check(t) {
		c.advance()
		return
	}
	c.errorf("line %d: expected %s, got %s", c.cur.Position.Line, msg, lexer.TokenNames[c.cur.Type])
}

func (c *Compiler) skipNewlines() {
	for c.check(lexer.NEWLINE) {
		c.advance()
	}
}

func (c *Compiler) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *Compiler) line() int { return c.cur.Position.Line }

// ---- chunk emission, delegating to the active functionCompiler's chunk ----

func (c *Compiler) chunk() *values.Chunk { return c.fc.proto.Chunk }

func (c *Compiler) emitByte(b byte) { c.chunk().Write(b, c.line()) }

func (c *Compiler) emitOp(op bytecode.Op) { c.emitByte(byte(op)) }

func (c *Compiler) emitUint16(n uint16) { c.chunk().WriteUint16(n, c.line()) }

func (c *Compiler) emitConstant(v values.Value) {
	idx := c.chunk().AddConstant(v)
	c.emitOp(bytecode.OpConstant)
	c.emitUint16(idx)
}

// emitJump writes op plus a placeholder 2-byte operand, returning its
// offset so patchJump can backfill it once the target is known.
func (c *Compiler) emitJump(op bytecode.Op) int {
	c.emitOp(op)
	c.emitUint16(0xFFFF)
	return len(c.chunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - (offset + 2)
	if jump > 0xFFFF {
		c.errorf("jump too large")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

func (c *Compiler) emitLoop(target int) {
	c.emitOp(bytecode.OpLoop)
	back := len(c.chunk().Code) + 2 - target
	c.emitUint16(uint16(back))
}
