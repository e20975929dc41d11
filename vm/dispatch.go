package vm

import (
	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// execute decodes and runs a single already-fetched opcode against frame,
// delegating to the handler group files (arithmetic.go, collections.go,
// classes.go, call.go, strrepr.go) named in the component design table.
func (vm *VM) execute(op bytecode.Op, frame *CallFrame) error {
	switch op {
	case bytecode.OpConstant:
		idx := frame.readUint16()
		vm.stack.push(frame.chunk().Constants[idx])

	case bytecode.OpNil:
		vm.stack.push(values.Nil())
	case bytecode.OpTrue:
		vm.stack.push(values.Bool(true))
	case bytecode.OpFalse:
		vm.stack.push(values.Bool(false))

	case bytecode.OpPop:
		vm.stack.popDiscard()
	case bytecode.OpDup:
		vm.stack.push(vm.stack.peek(0))
	case bytecode.OpSwap:
		a := vm.stack.pop()
		b := vm.stack.pop()
		vm.stack.push(a)
		vm.stack.push(b)

	case bytecode.OpDefineGlobal:
		idx := frame.readUint16()
		name := frame.chunk().Constants[idx].AsStr()
		vm.globals[name] = vm.stack.pop()

	case bytecode.OpGetGlobal:
		idx := frame.readUint16()
		name := frame.chunk().Constants[idx].AsStr()
		v, ok := vm.globals[name]
		if !ok {
			return vmerr.New(vmerr.NameError, "name '%s' is not defined", name)
		}
		vm.stack.push(v)

	case bytecode.OpSetGlobal:
		idx := frame.readUint16()
		name := frame.chunk().Constants[idx].AsStr()
		if _, ok := vm.globals[name]; !ok {
			return vmerr.New(vmerr.NameError, "name '%s' is not defined", name)
		}
		vm.globals[name] = vm.stack.peek(0)

	case bytecode.OpGetLocal:
		slot := int(frame.readByte())
		vm.stack.push(vm.stack.get(frame.StackBase + slot))
	case bytecode.OpSetLocal:
		slot := int(frame.readByte())
		vm.stack.set(frame.StackBase+slot, vm.stack.peek(0))

	case bytecode.OpGetUpvalue:
		idx := int(frame.readByte())
		cell := frame.Closure.Upvalues[idx]
		vm.stack.push(getUpvalue(cell, vm.stack))
	case bytecode.OpSetUpvalue:
		idx := int(frame.readByte())
		cell := frame.Closure.Upvalues[idx]
		setUpvalue(cell, vm.stack, vm.stack.peek(0))
	case bytecode.OpCloseUpvalue:
		slot := int(frame.readByte())
		vm.open.closeFrom(frame.StackBase+slot, vm.stack)
		vm.stack.pop()

	case bytecode.OpAdd:
		return vm.opAdd()
	case bytecode.OpSubtract:
		return vm.opSubtract()
	case bytecode.OpMultiply:
		return vm.opMultiply()
	case bytecode.OpDivide:
		return vm.opDivide()
	case bytecode.OpModulo:
		return vm.opModulo()
	case bytecode.OpNegate:
		return vm.opNegate()
	case bytecode.OpNot:
		v := vm.stack.pop()
		vm.stack.push(values.Bool(!v.IsTruthy()))
	case bytecode.OpEqual:
		return vm.opEqual()
	case bytecode.OpLess:
		return vm.opLess()
	case bytecode.OpGreater:
		return vm.opGreater()

	case bytecode.OpJump:
		offset := frame.readUint16()
		frame.IP += int(offset)
	case bytecode.OpJumpIfFalse:
		offset := frame.readUint16()
		if !vm.stack.peek(0).IsTruthy() {
			frame.IP += int(offset)
		}
	case bytecode.OpLoop:
		offset := frame.readUint16()
		frame.IP -= int(offset)

	case bytecode.OpIterNext:
		return vm.opIterNext()

	case bytecode.OpMakeFunction:
		idx := frame.readUint16()
		proto := frame.chunk().Constants[idx].AsFunctionProto()
		return vm.opMakeFunction(frame, proto)

	case bytecode.OpCall:
		argc := int(frame.readByte())
		return vm.dispatchCall(argc)

	case bytecode.OpReturn:
		retVal := vm.stack.pop()
		vm.open.closeFrom(frame.StackBase, vm.stack)
		vm.frames.pop()
		vm.stack.truncate(frame.StackBase)
		vm.stack.push(retVal)

	case bytecode.OpMakeClass:
		return vm.opMakeClass(frame)
	case bytecode.OpInherit:
		return vm.opInherit()
	case bytecode.OpGetAttr:
		idx := frame.readUint16()
		name := frame.chunk().Constants[idx].AsStr()
		return vm.opGetAttr(name)
	case bytecode.OpSetAttr:
		idx := frame.readUint16()
		name := frame.chunk().Constants[idx].AsStr()
		return vm.opSetAttr(name)

	case bytecode.OpIndex:
		return vm.opIndex()
	case bytecode.OpSetIndex:
		return vm.opSetIndex()
	case bytecode.OpSlice:
		return vm.opSlice()
	case bytecode.OpLen:
		return vm.opLen()
	case bytecode.OpAppend:
		return vm.opAppend()
	case bytecode.OpRange:
		argc := int(frame.readByte())
		return vm.opRange(argc)
	case bytecode.OpContains:
		return vm.opContains()

	case bytecode.OpMakeList:
		n := int(frame.readByte())
		return vm.opMakeList(n)
	case bytecode.OpMakeDict:
		n := int(frame.readByte())
		return vm.opMakeDict(n)

	case bytecode.OpPrint:
		return vm.opPrint(false, "")
	case bytecode.OpPrintln:
		return vm.opPrint(true, "")
	case bytecode.OpPrintSpaced:
		n := int(frame.readByte())
		return vm.opPrintSpaced(n)

	default:
		return vmerr.New(vmerr.RuntimeError, "unimplemented opcode %s", op)
	}
	return nil
}
