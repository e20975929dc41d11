// Package vm implements the Orbit bytecode virtual machine: the stack-based
// interpreter loop, the closure/upvalue machinery, class/attribute
// dispatch, and the runtime semantics (arithmetic coercion, iteration,
// slicing, dunder-method re-entry) described by spec §3-§8.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/orbit-lang/orbit/bytecode"
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// InterpretResult is the coarse outcome of a top-level Interpret call.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretRuntimeError
)

// VM is one independent interpreter instance. A host may embed several in
// distinct goroutines; each holds no package-level globals (spec §5).
type VM struct {
	stack   *valueStack
	frames  *frameStack
	open    *openUpvalues
	globals map[string]values.Value
	stdout  io.Writer

	// stopIteration is the designated sentinel Value __next__ implementations
	// return to signal exhaustion (spec §4.8, Glossary "StopIteration" is not
	// a literal word in the grammar but the VM needs a concrete singleton).
	stopIteration values.Value

	// activeFrame is the CallFrame executing at the moment a Native is
	// invoked — Native.Fn itself carries no frame parameter, but the
	// super() native needs one to recover "self" and the enclosing class
	// (spec §4.7/§9 strategy (b)); invokeNative sets this around each call.
	activeFrame *CallFrame
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdout redirects the print family's output (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(vm *VM) { vm.stdout = w }
}

// WithResourceLimits narrows the stack/frame depth bounds enforced by this
// instance (config.Limits, orbit.yaml's limits: section). Values above the
// hard compiled-in StackMax/FramesMax are clamped down to them; zero or
// negative values leave the hard bound untouched.
func WithResourceLimits(stackMax, framesMax int) Option {
	return func(vm *VM) {
		if stackMax > 0 && stackMax < StackMax {
			vm.stack.limit = stackMax
		}
		if framesMax > 0 && framesMax < FramesMax {
			vm.frames.limit = framesMax
		}
	}
}

// New constructs a fresh VM with empty globals and no natives registered.
func New(opts ...Option) *VM {
	vm := &VM{
		stack:   newValueStack(),
		frames:  newFrameStack(),
		open:    &openUpvalues{},
		globals: make(map[string]values.Value),
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(vm)
	}
	stopClass := values.NewClass("StopIteration")
	vm.stopIteration = values.NewInstance(stopClass.AsClass())
	vm.globals["StopIteration"] = vm.stopIteration
	vm.registerSuper()
	vm.registerIterStart()
	vm.registerRange()
	vm.registerAppend()
	return vm
}

// DefineGlobal installs or overwrites a global binding (embedding API,
// spec §6).
func (vm *VM) DefineGlobal(name string, v values.Value) {
	vm.globals[name] = v
}

// GetGlobal reads a global binding.
func (vm *VM) GetGlobal(name string) (values.Value, bool) {
	v, ok := vm.globals[name]
	return v, ok
}

// RegisterNative installs a host-provided callable under name, reachable
// from script code as an ordinary global (spec §6).
func (vm *VM) RegisterNative(name string, minArgs, maxArgs int, fn values.NativeFn) {
	vm.globals[name] = values.NewNative(&values.Native{
		Name:    name,
		MinArgs: minArgs,
		MaxArgs: maxArgs,
		Fn:      fn,
	})
}

// LastPoppedValue backs the REPL's expression-statement display (Glossary
// "Last-popped slot").
func (vm *VM) LastPoppedValue() values.Value {
	return vm.stack.lastPoppedValue()
}

// Interpret wraps chunk in a top-level closure, pushes the root frame, and
// runs the dispatch loop to completion (spec §2, §6).
func (vm *VM) Interpret(chunk *values.Chunk) (result InterpretResult, err error) {
	proto := &values.FunctionProto{Name: "<script>", Chunk: chunk, QualName: "<script>"}
	closure := &values.Closure{Proto: proto}

	defer func() {
		if r := recover(); r != nil {
			result = InterpretRuntimeError
			err = vm.recoverToError(r)
		}
	}()

	vm.stack.lastPopped = values.Nil()
	vm.stack.push(values.Value{Kind: values.KindClosure, Data: closure})
	vm.frames.push(&CallFrame{Closure: closure, StackBase: 0})

	if _, runErr := vm.run(0); runErr != nil {
		return InterpretRuntimeError, vm.report(runErr)
	}
	return InterpretOK, nil
}

func (vm *VM) recoverToError(r interface{}) error {
	switch r.(type) {
	case stackOverflow:
		e := vmerr.New(vmerr.RuntimeError, "stack overflow")
		return vm.report(e)
	case stackUnderflow:
		e := &vmerr.Error{Kind: vmerr.RuntimeError, Message: "stack underflow", Internal: true}
		return vm.report(e)
	case frameOverflow:
		e := vmerr.New(vmerr.RuntimeError, "maximum recursion depth exceeded")
		return vm.report(e)
	default:
		panic(r)
	}
}

// report attaches the current source line and a partial trace, then writes
// the diagnostic to stderr, matching spec §7's "prints kind + message +
// source line" requirement.
func (vm *VM) report(e *vmerr.Error) error {
	if frame := vm.frames.current(); frame != nil {
		e = e.WithLine(frame.currentLine())
	}
	e = e.WithTrace(vm.trace())
	fmt.Fprintln(os.Stderr, e.Error())
	for _, t := range e.Trace {
		fmt.Fprintln(os.Stderr, "  "+t)
	}
	return e
}

func (vm *VM) trace() []string {
	depth := vm.frames.depth()
	out := make([]string, 0, depth)
	for i := depth - 1; i >= 0; i-- {
		f := vm.frames.frames[i]
		out = append(out, fmt.Sprintf("line %d, in %s", f.currentLine(), f.Closure.Proto.Name))
	}
	return out
}

// run is the fetch-decode-execute loop (spec §4, Opcode dispatcher). It
// runs until the frame stack depth falls back to returnDepth, at which
// point the Value left by that frame's OpReturn is popped and returned.
// Passing returnDepth=0 drives a top-level Interpret to completion;
// passing the depth captured before a synchronous dunder re-entry drives
// just that nested call (see callSync).
func (vm *VM) run(returnDepth int) (values.Value, error) {
	for {
		if vm.frames.depth() <= returnDepth {
			return vm.stack.pop(), nil
		}

		frame := vm.frames.current()
		op := bytecode.Op(frame.readByte())
		if !bytecode.Valid(op) {
			return values.Nil(), vmerr.New(vmerr.RuntimeError, "unknown opcode %d", op).WithLine(frame.currentLine())
		}

		if err := vm.execute(op, frame); err != nil {
			if ve, ok := err.(*vmerr.Error); ok {
				return values.Nil(), ve.WithLine(frame.currentLine())
			}
			return values.Nil(), err
		}
	}
}
