package compiler

import (
	"strconv"

	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/lexer"
	"github.com/orbit-lang/orbit/values"
)

// defStatement compiles `def name(params): body` (spec §3/§4.7): a plain
// function reserves local slot 0 for an anonymous callee value, so its first
// declared parameter lands at slot 1. The finished closure is bound to name
// by the same resolveAndStore path an ordinary assignment would use.
func (c *Compiler) defStatement() {
	c.advance() // DEF
	c.expect(lexer.IDENT, "function name")
	name := c.prevToken.Value

	proto := c.compileFunctionBody(name, false)
	c.emitMakeFunction(proto)
	c.resolveAndStore(name)
}

// classStatement compiles `class Name[(Parent)]: method*` (spec §4.5): each
// method body is compiled with isMethod=true, so self occupies local slot 0
// directly — matching what super() and bound-method dispatch expect
// (vm/call.go, vm/classes.go). Stack choreography for OpMakeClass/OpInherit
// is class-name, then methodCount (name, closure) pairs, then the optional
// parent.
func (c *Compiler) classStatement() {
	c.advance() // CLASS
	c.expect(lexer.IDENT, "class name")
	className := c.prevToken.Value

	hasParent := false
	var parentName string
	if c.match(lexer.LPAREN) {
		if !c.check(lexer.RPAREN) {
			c.expect(lexer.IDENT, "base class name")
			parentName = c.prevToken.Value
			hasParent = true
		}
		c.expect(lexer.RPAREN, "')'")
	}

	c.emitConstant(values.Str(className))

	c.expect(lexer.COLON, "':'")
	c.expect(lexer.NEWLINE, "newline after class header")
	c.skipNewlines()
	c.expect(lexer.INDENT, "indented class body")

	methodCount := 0
	for !c.check(lexer.DEDENT) && !c.check(lexer.EOF) {
		c.skipNewlines()
		if c.check(lexer.DEDENT) || c.check(lexer.EOF) {
			break
		}
		if !c.check(lexer.DEF) {
			c.errorf("line %d: only method definitions are allowed in a class body", c.line())
			for !c.check(lexer.NEWLINE) && !c.check(lexer.DEDENT) && !c.check(lexer.EOF) {
				c.advance()
			}
			c.skipNewlines()
			continue
		}
		c.advance() // DEF
		c.expect(lexer.IDENT, "method name")
		methodName := c.prevToken.Value
		c.emitConstant(values.Str(methodName))

		proto := c.compileFunctionBody(methodName, true)
		c.emitMakeFunction(proto)
		methodCount++
		c.skipNewlines()
	}
	if c.check(lexer.DEDENT) {
		c.advance()
	}

	c.emitOp(bytecode.OpMakeClass)
	c.emitByte(byte(methodCount))

	if hasParent {
		c.resolveAndLoad(parentName)
		c.emitOp(bytecode.OpInherit)
	}

	c.resolveAndStore(className)
}

func (c *Compiler) emitMakeFunction(proto *values.FunctionProto) {
	idx := c.chunk().AddConstant(values.Value{Kind: values.KindFunctionProto, Data: proto})
	c.emitOp(bytecode.OpMakeFunction)
	c.emitUint16(idx)
}

// compileFunctionBody pushes a child functionCompiler, parses the
// parenthesized parameter list and colon-block body, and returns the
// finished FunctionProto with its upvalue table resolved. By the time it
// returns, c.fc is restored to the enclosing compiler — OpMakeFunction must
// be emitted there, since upvalue capture reads the ENCLOSING frame's
// locals/upvalues (vm/call.go opMakeFunction).
func (c *Compiler) compileFunctionBody(name string, isMethod bool) *values.FunctionProto {
	fc := &functionCompiler{
		enclosing: c.fc,
		proto:     &values.FunctionProto{Name: name, QualName: name},
		nonlocals: map[string]bool{},
		inClass:   isMethod,
	}
	fc.proto.Chunk = &values.Chunk{}
	if !isMethod {
		// Reserved callee slot: plain calls don't splice a receiver into slot
		// 0 the way BoundMethod dispatch does for self, so the slot is left
		// anonymous and real parameters start at local index 1.
		fc.locals = append(fc.locals, local{name: "", depth: 0})
	}
	c.fc = fc

	c.expect(lexer.LPAREN, "'('")
	var names []string
	var defaults []values.Value
	numDefault := 0
	if !c.check(lexer.RPAREN) {
		for {
			c.expect(lexer.IDENT, "parameter name")
			pname := c.prevToken.Value
			names = append(names, pname)
			c.declareLocal(pname)
			if c.match(lexer.ASSIGN) {
				defaults = append(defaults, c.parseDefaultLiteral())
				numDefault++
			} else if numDefault > 0 {
				c.errorf("line %d: non-default argument '%s' follows a default argument", c.line(), pname)
			}
			if !c.match(lexer.COMMA) {
				break
			}
		}
	}
	c.expect(lexer.RPAREN, "')'")

	fc.proto.Arity = len(names)
	fc.proto.NumDefault = numDefault
	fc.proto.Defaults = defaults
	fc.proto.ParamNames = names

	c.block()
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)

	proto := fc.proto
	proto.Upvalues = make([]values.UpvalueDesc, len(fc.upvalues))
	for i, uv := range fc.upvalues {
		proto.Upvalues[i] = values.UpvalueDesc{IsLocal: uv.isLocal, Index: uv.index}
	}

	c.fc = fc.enclosing
	return proto
}

// parseDefaultLiteral accepts only literal constants: FunctionProto.Defaults
// is a precomputed []Value with no "evaluate this expression at def time"
// opcode, so a default argument can't reference a variable or call anything.
func (c *Compiler) parseDefaultLiteral() values.Value {
	switch c.cur.Type {
	case lexer.INT:
		n, err := strconv.ParseInt(c.cur.Value, 10, 64)
		if err != nil {
			c.errorf("line %d: invalid int literal %q", c.cur.Position.Line, c.cur.Value)
		}
		c.advance()
		return values.Int(n)
	case lexer.FLOAT:
		f, err := strconv.ParseFloat(c.cur.Value, 64)
		if err != nil {
			c.errorf("line %d: invalid float literal %q", c.cur.Position.Line, c.cur.Value)
		}
		c.advance()
		return values.Float(f)
	case lexer.STRING:
		s := c.cur.Value
		c.advance()
		return values.Str(s)
	case lexer.TRUE:
		c.advance()
		return values.Bool(true)
	case lexer.FALSE:
		c.advance()
		return values.Bool(false)
	case lexer.NIL:
		c.advance()
		return values.Nil()
	case lexer.MINUS:
		c.advance()
		switch c.cur.Type {
		case lexer.INT:
			n, _ := strconv.ParseInt(c.cur.Value, 10, 64)
			c.advance()
			return values.Int(-n)
		case lexer.FLOAT:
			f, _ := strconv.ParseFloat(c.cur.Value, 64)
			c.advance()
			return values.Float(-f)
		default:
			c.errorf("line %d: default argument must be a literal", c.cur.Position.Line)
			return values.Nil()
		}
	default:
		c.errorf("line %d: default argument must be a literal", c.cur.Position.Line)
		c.advance()
		return values.Nil()
	}
}
