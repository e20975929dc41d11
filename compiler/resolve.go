package compiler

import (
	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/values"
)

// beginScope/endScope track nested block scopes within one functionCompiler.
// endScope pops locals declared in the scope being left, emitting
// OpCloseUpvalue for any a nested closure captured (so the upvalue survives
// past this frame popping them) and OpPop otherwise.
func (c *Compiler) beginScope() { c.fc.scopeDepth++ }

func (c *Compiler) endScope() {
	c.fc.scopeDepth--
	fc := c.fc
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.scopeDepth {
		last := fc.locals[len(fc.locals)-1]
		if last.isCaptured {
			c.emitOp(bytecode.OpCloseUpvalue)
			c.emitByte(byte(len(fc.locals) - 1))
		} else {
			c.emitOp(bytecode.OpPop)
		}
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// declareLocal adds name as a new local occupying the current top-of-stack
// slot in the current scope.
func (c *Compiler) declareLocal(name string) {
	c.fc.locals = append(c.fc.locals, local{name: name, depth: c.fc.scopeDepth})
}

// resolveLocal searches fc's own locals innermost-first.
func resolveLocal(fc *functionCompiler, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue searches enclosing functionCompilers for name, adding an
// upvalue descriptor chain (clox-style) so every functionCompiler between
// the defining scope and the use site gets a transitive upvalue entry.
func resolveUpvalue(fc *functionCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if slot := resolveLocal(fc.enclosing, name); slot >= 0 {
		fc.enclosing.locals[slot].isCaptured = true
		return addUpvalue(fc, uint16(slot), true)
	}
	if idx := resolveUpvalue(fc.enclosing, name); idx >= 0 {
		return addUpvalue(fc, uint16(idx), false)
	}
	return -1
}

func addUpvalue(fc *functionCompiler, index uint16, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	fc.upvalues = append(fc.upvalues, upvalRef{isLocal: isLocal, index: index})
	return len(fc.upvalues) - 1
}

// resolveAndLoad emits the read sequence for name: local, upvalue, then
// global, mirroring Python's LEGB lookup.
func (c *Compiler) resolveAndLoad(name string) {
	if slot := resolveLocal(c.fc, name); slot >= 0 {
		c.emitOp(bytecode.OpGetLocal)
		c.emitByte(byte(slot))
		return
	}
	if idx := resolveUpvalue(c.fc, name); idx >= 0 {
		c.emitOp(bytecode.OpGetUpvalue)
		c.emitByte(byte(idx))
		return
	}
	c.emitNameConstantOp(bytecode.OpGetGlobal, name)
}

// resolveAndStore emits the write sequence for a plain identifier target.
// Assignment is always a statement (Orbit has no walrus/assignment-as-value
// form), so every path here leaves the stack exactly as it was before the
// assigned value was pushed, EXCEPT declaring a brand-new local: that value
// stays, becoming the local's permanent home — reported via the returned
// bool. The statement layer skips its usual discard-pop for every assignment
// form through assignHandled, not through this result.
//
// Without a prior `nonlocal name` in this function body, assignment inside a
// function always targets (or creates) a local in the CURRENT function scope,
// matching Python's write-side scoping default (spec §8 scenario 2: rebinding
// an enclosing local requires `nonlocal`). At script top level, including
// inside top-level blocks, an unresolved name is bound as a global.
func (c *Compiler) resolveAndStore(name string) (declaredNewLocal bool) {
	if c.fc.nonlocals[name] {
		if idx := resolveUpvalue(c.fc, name); idx >= 0 {
			c.emitOp(bytecode.OpSetUpvalue)
			c.emitByte(byte(idx))
			c.emitOp(bytecode.OpPop)
			return false
		}
		c.errorf("line %d: no binding for nonlocal '%s' in an enclosing scope", c.line(), name)
		return false
	}

	if slot := resolveLocal(c.fc, name); slot >= 0 {
		c.emitOp(bytecode.OpSetLocal)
		c.emitByte(byte(slot))
		c.emitOp(bytecode.OpPop)
		return false
	}

	if c.fc.enclosing != nil {
		c.declareLocal(name)
		return true
	}

	c.emitNameConstantOp(bytecode.OpDefineGlobal, name)
	return false
}

func (c *Compiler) emitNameConstantOp(op bytecode.Op, name string) {
	idx := c.chunk().AddConstant(values.Str(name))
	c.emitOp(op)
	c.emitUint16(idx)
}
