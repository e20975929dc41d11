package vm

import "github.com/orbit-lang/orbit/values"

// FramesMax is the fixed bound on call-frame depth (spec §3 invariant).
const FramesMax = 256

// CallFrame is the per-invocation record: the Closure currently executing,
// an instruction pointer into its chunk, and stack_base — the absolute
// index at which this frame's locals begin (spec §4.2). Locals are
// addressed as stack[stack_base+slot]; the callee slot itself is local 0.
type CallFrame struct {
	Closure   *values.Closure
	IP        int
	StackBase int
}

func (f *CallFrame) chunk() *values.Chunk {
	return f.Closure.Proto.Chunk
}

// readByte fetches the byte at f.IP and advances it.
func (f *CallFrame) readByte() byte {
	b := f.chunk().Code[f.IP]
	f.IP++
	return b
}

// readUint16 fetches a big-endian u16 operand and advances IP by 2.
func (f *CallFrame) readUint16() uint16 {
	hi := f.readByte()
	lo := f.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

// currentLine returns the source line of the instruction just read (i.e.
// the one at f.IP-1), for diagnostics.
func (f *CallFrame) currentLine() int {
	idx := f.IP - 1
	lines := f.chunk().Lines
	if idx < 0 || idx >= len(lines) {
		return 0
	}
	return lines[idx]
}

// frameStack is a fixed-capacity vector of CallFrame pointers.
type frameStack struct {
	frames [FramesMax]*CallFrame
	top    int
	limit  int // host-narrowable soft bound, <= FramesMax (config.Limits)
}

func newFrameStack() *frameStack {
	return &frameStack{limit: FramesMax}
}

func (fs *frameStack) push(f *CallFrame) {
	if fs.top >= fs.limit {
		panic(frameOverflow{})
	}
	fs.frames[fs.top] = f
	fs.top++
}

func (fs *frameStack) pop() *CallFrame {
	fs.top--
	f := fs.frames[fs.top]
	fs.frames[fs.top] = nil
	return f
}

func (fs *frameStack) current() *CallFrame {
	if fs.top == 0 {
		return nil
	}
	return fs.frames[fs.top-1]
}

func (fs *frameStack) depth() int { return fs.top }

type frameOverflow struct{}

func (frameOverflow) String() string { return "maximum recursion depth exceeded" }
