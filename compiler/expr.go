package compiler

import (
	"strconv"

	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/lexer"
	"github.com/orbit-lang/orbit/values"
)

// expression parses and emits one expression at precedence precOr (the
// lowest binding level above assignment; assignment targets are handled by
// parseIdent/parseAttr/parseIndexOrSlice when canAssign allows it).
func (c *Compiler) expression() { c.parsePrecedence(precOr) }

// parsePrecedence is the Pratt-parser core (grounded on the teacher's
// prefixParseFns/infixParseFns dispatch in parser.PrattParser): consume one
// prefix term, then keep folding in infix operators whose precedence meets
// min.
func (c *Compiler) parsePrecedence(min precedence) {
	c.exprDepth++
	defer func() { c.exprDepth-- }()

	rule := getRule(c.cur.Type)
	if rule.prefix == nil {
		c.errorf("line %d: expected expression, got %s", c.cur.Position.Line, lexer.TokenNames[c.cur.Type])
		c.advance()
		return
	}
	// canAssign is true only for the outermost parsePrecedence activation at
	// assignment precedence — exactly a statement's own top-level expression,
	// never an argument, grouping, or operand nested inside one. That keeps
	// `f(x = 1)` and `[x = 1]` from being mistaken for assignment targets.
	canAssign := min <= precOr && c.exprDepth == 1
	c.prevToken = c.cur
	c.advance()
	rule.prefix(c, canAssign)

	for {
		next := getRule(c.cur.Type)
		if next.infix == nil || min > next.precedence {
			break
		}
		c.prevToken = c.cur
		c.advance()
		next.infix(c, canAssign)
	}
}

func parseInt(c *Compiler, _ bool) {
	n, err := strconv.ParseInt(c.prevToken.Value, 10, 64)
	if err != nil {
		c.errorf("line %d: invalid int literal %q", c.prevToken.Position.Line, c.prevToken.Value)
		return
	}
	c.emitConstant(values.Int(n))
}

func parseFloat(c *Compiler, _ bool) {
	f, err := strconv.ParseFloat(c.prevToken.Value, 64)
	if err != nil {
		c.errorf("line %d: invalid float literal %q", c.prevToken.Position.Line, c.prevToken.Value)
		return
	}
	c.emitConstant(values.Float(f))
}

func parseString(c *Compiler, _ bool) {
	c.emitConstant(values.Str(c.prevToken.Value))
}

func parseLiteralBool(c *Compiler, _ bool) {
	if c.prevToken.Type == lexer.TRUE {
		c.emitOp(bytecode.OpTrue)
	} else {
		c.emitOp(bytecode.OpFalse)
	}
}

func parseNil(c *Compiler, _ bool) {
	c.emitOp(bytecode.OpNil)
}

func parseGrouping(c *Compiler, _ bool) {
	c.expression()
	c.expect(lexer.RPAREN, "')'")
}

func parseUnary(c *Compiler, _ bool) {
	c.parsePrecedence(precUnary)
	c.emitOp(bytecode.OpNegate)
}

func parseNot(c *Compiler, _ bool) {
	c.parsePrecedence(precUnary)
	c.emitOp(bytecode.OpNot)
}

func parseBinary(c *Compiler, _ bool) {
	op := c.prevToken.Type
	rule := getRule(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case lexer.PLUS:
		c.emitOp(bytecode.OpAdd)
	case lexer.MINUS:
		c.emitOp(bytecode.OpSubtract)
	case lexer.STAR:
		c.emitOp(bytecode.OpMultiply)
	case lexer.SLASH:
		c.emitOp(bytecode.OpDivide)
	case lexer.PERCENT:
		c.emitOp(bytecode.OpModulo)
	case lexer.EQ:
		c.emitOp(bytecode.OpEqual)
	case lexer.NEQ:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case lexer.LT:
		c.emitOp(bytecode.OpLess)
	case lexer.GT:
		c.emitOp(bytecode.OpGreater)
	case lexer.LE:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	case lexer.GE:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case lexer.IN:
		c.emitOp(bytecode.OpContains)
	}
}

// parseAnd/parseOr short-circuit: the left operand is already on the stack
// (peeked, not popped) so a false/true left side skips evaluating the right.
func parseAnd(c *Compiler, _ bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func parseOr(c *Compiler, _ bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func parseListLiteral(c *Compiler, _ bool) {
	n := 0
	if !c.check(lexer.RBRACKET) {
		for {
			c.expression()
			n++
			if !c.match(lexer.COMMA) {
				break
			}
			if c.check(lexer.RBRACKET) {
				break
			}
		}
	}
	c.expect(lexer.RBRACKET, "']'")
	c.emitOp(bytecode.OpMakeList)
	c.emitByte(byte(n))
}

func parseDictLiteral(c *Compiler, _ bool) {
	n := 0
	if !c.check(lexer.RBRACE) {
		for {
			c.expression()
			c.expect(lexer.COLON, "':'")
			c.expression()
			n++
			if !c.match(lexer.COMMA) {
				break
			}
			if c.check(lexer.RBRACE) {
				break
			}
		}
	}
	c.expect(lexer.RBRACE, "'}'")
	c.emitOp(bytecode.OpMakeDict)
	c.emitByte(byte(n))
}

// parseIndexOrSlice handles both container[i] and container[a:b:c], since
// both start with '[' immediately after an expression (infix position).
func parseIndexOrSlice(c *Compiler, canAssign bool) {
	hasColon := false

	if c.check(lexer.COLON) {
		c.emitOp(bytecode.OpNil)
	} else {
		c.expression()
	}

	if c.match(lexer.COLON) {
		hasColon = true
		if c.check(lexer.COLON) || c.check(lexer.RBRACKET) {
			c.emitOp(bytecode.OpNil)
		} else {
			c.expression()
		}
		if c.match(lexer.COLON) {
			if c.check(lexer.RBRACKET) {
				c.emitOp(bytecode.OpNil)
			} else {
				c.expression()
			}
		} else {
			c.emitOp(bytecode.OpNil)
		}
	}
	c.expect(lexer.RBRACKET, "']'")

	if hasColon {
		c.emitOp(bytecode.OpSlice)
		return
	}

	if canAssign && c.match(lexer.ASSIGN) {
		c.expression()
		c.emitOp(bytecode.OpSetIndex)
		c.emitOp(bytecode.OpPop)
		c.assignHandled = true
		return
	}
	c.emitOp(bytecode.OpIndex)
}

func parseAttr(c *Compiler, canAssign bool) {
	c.expect(lexer.IDENT, "attribute name")
	name := c.prevToken.Value
	idx := c.chunk().AddConstant(values.Str(name))

	if canAssign && c.match(lexer.ASSIGN) {
		c.expression()
		c.emitOp(bytecode.OpSetAttr)
		c.emitUint16(idx)
		c.emitOp(bytecode.OpPop)
		c.assignHandled = true
		return
	}

	if c.check(lexer.LPAREN) {
		c.advance()
		c.emitOp(bytecode.OpGetAttr)
		c.emitUint16(idx)
		argc := c.argumentList()
		c.emitOp(bytecode.OpCall)
		c.emitByte(byte(argc))
		return
	}

	c.emitOp(bytecode.OpGetAttr)
	c.emitUint16(idx)
}

func parseCall(c *Compiler, _ bool) {
	argc := c.argumentList()
	c.emitOp(bytecode.OpCall)
	c.emitByte(byte(argc))
}

// argumentList consumes a parenthesized actual-argument list; '(' has
// already been consumed by the caller.
func (c *Compiler) argumentList() int {
	n := 0
	if !c.check(lexer.RPAREN) {
		for {
			c.expression()
			n++
			if !c.match(lexer.COMMA) {
				break
			}
		}
	}
	c.expect(lexer.RPAREN, "')'")
	return n
}

func parseIdent(c *Compiler, canAssign bool) {
	name := c.prevToken.Value

	if canAssign && c.check(lexer.ASSIGN) {
		c.advance()
		c.expression()
		c.resolveAndStore(name)
		c.assignHandled = true
		return
	}
	c.resolveAndLoad(name)
}
