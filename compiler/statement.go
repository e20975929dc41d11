package compiler

import (
	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/lexer"
	"github.com/orbit-lang/orbit/values"
)

// statement dispatches on the current token to one compiled statement
// production. Anything that isn't a recognized keyword falls through to
// expressionStatement, which also carries every assignment form (expr.go's
// parseIdent/parseAttr/parseIndexOrSlice productions, gated by canAssign).
func (c *Compiler) statement() {
	switch c.cur.Type {
	case lexer.IF:
		c.ifStatement()
	case lexer.WHILE:
		c.whileStatement()
	case lexer.FOR:
		c.forStatement()
	case lexer.DEF:
		c.defStatement()
	case lexer.CLASS:
		c.classStatement()
	case lexer.RETURN:
		c.returnStatement()
	case lexer.PRINT:
		c.printStatement(false)
	case lexer.PRINTLN:
		c.printStatement(true)
	case lexer.BREAK:
		c.breakStatement()
	case lexer.CONTINUE:
		c.continueStatement()
	case lexer.PASS:
		c.advance()
		c.consumeStatementEnd()
	case lexer.NONLOCAL:
		c.nonlocalStatement()
	default:
		c.expressionStatement()
	}
}

// consumeStatementEnd closes a simple (non-block) statement: a NEWLINE, or
// the EOF/DEDENT that ends the enclosing suite with no blank line after the
// last statement in it.
func (c *Compiler) consumeStatementEnd() {
	if c.match(lexer.NEWLINE) {
		return
	}
	if c.check(lexer.EOF) || c.check(lexer.DEDENT) {
		return
	}
	c.errorf("line %d: expected newline after statement, got %s", c.cur.Position.Line, lexer.TokenNames[c.cur.Type])
	c.advance()
}

// block consumes "': NEWLINE INDENT statement* DEDENT", the body of every
// compound statement (spec §1's indentation-delimited grammar).
func (c *Compiler) block() {
	c.expect(lexer.COLON, "':'")
	c.expect(lexer.NEWLINE, "newline after ':'")
	c.skipNewlines()
	c.expect(lexer.INDENT, "an indented block")

	for !c.check(lexer.DEDENT) && !c.check(lexer.EOF) {
		c.skipNewlines()
		if c.check(lexer.DEDENT) || c.check(lexer.EOF) {
			break
		}
		c.statement()
	}
	if c.check(lexer.DEDENT) {
		c.advance()
	}
}

// expressionStatement compiles a bare expression, or any of the assignment
// forms expr.go's Pratt productions recognize at statement position. Every
// assignment form balances its own stack effect and sets assignHandled, so
// the usual discard-pop only fires for a non-assignment expression.
func (c *Compiler) expressionStatement() {
	c.assignHandled = false
	c.expression()
	if !c.assignHandled {
		c.emitOp(bytecode.OpPop)
	}
	c.assignHandled = false
	c.consumeStatementEnd()
}

// ifStatement compiles an if/elif*/else? chain. Each arm's condition leaves
// a flag OpJumpIfFalse only peeks, never pops, so both the taken and
// skipped path must discard it explicitly once their target is known.
func (c *Compiler) ifStatement() {
	c.advance() // IF
	var endJumps []int

	elseJump := c.compileIfArm()
	for c.check(lexer.ELIF) {
		j := c.emitJump(bytecode.OpJump)
		endJumps = append(endJumps, j)
		c.patchJump(elseJump)
		c.emitOp(bytecode.OpPop)
		c.advance() // ELIF
		elseJump = c.compileIfArm()
	}

	j := c.emitJump(bytecode.OpJump)
	endJumps = append(endJumps, j)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)

	if c.match(lexer.ELSE) {
		c.beginScope()
		c.block()
		c.endScope()
	}

	for _, jmp := range endJumps {
		c.patchJump(jmp)
	}
}

// compileIfArm compiles one "<expr>: <block>" arm and returns the
// OpJumpIfFalse offset to patch to the next arm (or the chain's end).
func (c *Compiler) compileIfArm() int {
	c.expression()
	jump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.beginScope()
	c.block()
	c.endScope()
	return jump
}

func (c *Compiler) whileStatement() {
	c.advance() // WHILE
	loopStart := len(c.chunk().Code)

	c.expression()
	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)

	c.fc.loops = append(c.fc.loops, loopCtx{
		continueTarget: loopStart,
		depthAtStart:   c.fc.scopeDepth,
	})

	c.beginScope()
	c.block()
	c.endScope()

	c.emitLoop(loopStart)
	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)

	c.patchAndPopLoop()
}

// forStatement compiles "for IDENT in <expr>: <block>" (spec §4.8). The
// iterable is normalized up front by a single call to __iter_start__ (so an
// Instance's __iter__ runs exactly once), unpacked into the [iterator,
// cursor] pair OpIterNext maintains across iterations.
func (c *Compiler) forStatement() {
	c.advance() // FOR
	c.expect(lexer.IDENT, "loop variable name")
	varName := c.prevToken.Value
	c.expect(lexer.IN, "'in'")

	c.resolveAndLoad("__iter_start__")
	c.expression()
	c.emitOp(bytecode.OpCall)
	c.emitByte(1)

	// __iter_start__ returns [iterator, cursor]; unpack it in place.
	c.emitOp(bytecode.OpDup)
	c.emitConstant(values.Int(0))
	c.emitOp(bytecode.OpIndex)
	c.emitOp(bytecode.OpSwap)
	c.emitConstant(values.Int(1))
	c.emitOp(bytecode.OpIndex)

	// The iterator and cursor stay on the stack for the whole loop; reserve
	// their two slots as unnamed locals so the loop variable's slot index
	// matches its stack position.
	c.fc.locals = append(c.fc.locals, local{depth: c.fc.scopeDepth}, local{depth: c.fc.scopeDepth})

	loopStart := len(c.chunk().Code)
	c.fc.loops = append(c.fc.loops, loopCtx{
		continueTarget: loopStart,
		depthAtStart:   c.fc.scopeDepth,
		cleanupValues:  2, // the iterator and cursor a break must also drop
	})

	c.emitOp(bytecode.OpIterNext)
	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop) // discard the continuation flag

	c.beginScope()
	c.declareLocal(varName) // binds the value OpIterNext just left on top
	c.block()
	c.endScope()

	c.emitLoop(loopStart)
	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop) // discard the lone exhaustion flag
	// OpIterNext already dropped the iterator and cursor on exhaustion, and
	// break pops them through cleanupValues; release their slots here.
	c.fc.locals = c.fc.locals[:len(c.fc.locals)-2]

	c.patchAndPopLoop()
}

func (c *Compiler) patchAndPopLoop() {
	loop := c.fc.loops[len(c.fc.loops)-1]
	c.fc.loops = c.fc.loops[:len(c.fc.loops)-1]
	for _, j := range loop.breakJumps {
		c.patchJump(j)
	}
}

// emitScopeUnwind pops (or closes, if captured) every local declared more
// deeply than targetDepth, without touching fc.locals — break/continue jump
// out from the middle of a block that compilation continues past, so the
// compile-time bookkeeping must stay intact even though the runtime stack
// is unwound early.
func (c *Compiler) emitScopeUnwind(targetDepth int) {
	fc := c.fc
	for i := len(fc.locals) - 1; i >= 0 && fc.locals[i].depth > targetDepth; i-- {
		if fc.locals[i].isCaptured {
			c.emitOp(bytecode.OpCloseUpvalue)
			c.emitByte(byte(i))
		} else {
			c.emitOp(bytecode.OpPop)
		}
	}
}

func (c *Compiler) breakStatement() {
	c.advance()
	if len(c.fc.loops) == 0 {
		c.errorf("line %d: 'break' outside a loop", c.line())
		c.consumeStatementEnd()
		return
	}
	loop := &c.fc.loops[len(c.fc.loops)-1]
	c.emitScopeUnwind(loop.depthAtStart)
	for i := 0; i < loop.cleanupValues; i++ {
		c.emitOp(bytecode.OpPop)
	}
	j := c.emitJump(bytecode.OpJump)
	loop.breakJumps = append(loop.breakJumps, j)
	c.consumeStatementEnd()
}

func (c *Compiler) continueStatement() {
	c.advance()
	if len(c.fc.loops) == 0 {
		c.errorf("line %d: 'continue' outside a loop", c.line())
		c.consumeStatementEnd()
		return
	}
	loop := c.fc.loops[len(c.fc.loops)-1]
	c.emitScopeUnwind(loop.depthAtStart)
	c.emitLoop(loop.continueTarget)
	c.consumeStatementEnd()
}

func (c *Compiler) returnStatement() {
	c.advance()
	if c.fc.enclosing == nil {
		c.errorf("line %d: 'return' outside a function", c.line())
	}
	if c.check(lexer.NEWLINE) || c.check(lexer.EOF) || c.check(lexer.DEDENT) {
		c.emitOp(bytecode.OpNil)
	} else {
		c.expression()
	}
	c.emitOp(bytecode.OpReturn)
	c.consumeStatementEnd()
}

// printStatement compiles print/println. A single argument dispatches
// directly to OpPrint/OpPrintln; more than one goes through OpPrintSpaced,
// which joins its operands with a single space the way Python's print() does.
func (c *Compiler) printStatement(newline bool) {
	c.advance() // PRINT or PRINTLN
	n := 1
	c.expression()
	for c.match(lexer.COMMA) {
		c.expression()
		n++
	}
	switch {
	case n > 1:
		c.emitOp(bytecode.OpPrintSpaced)
		c.emitByte(byte(n))
	case newline:
		c.emitOp(bytecode.OpPrintln)
	default:
		c.emitOp(bytecode.OpPrint)
	}
	c.consumeStatementEnd()
}

// nonlocalStatement records one or more names that resolveAndStore must
// rebind via the enclosing upvalue chain rather than shadow with a fresh
// local (spec §8 scenario 2).
func (c *Compiler) nonlocalStatement() {
	c.advance()
	if c.fc.enclosing == nil {
		c.errorf("line %d: nonlocal declared at module scope", c.line())
	}
	for {
		c.expect(lexer.IDENT, "name")
		c.fc.nonlocals[c.prevToken.Value] = true
		if !c.match(lexer.COMMA) {
			break
		}
	}
	c.consumeStatementEnd()
}
