package vm

import (
	"sort"

	"github.com/orbit-lang/orbit/values"
)

// openUpvalues is the VM's sorted-by-stack-index list of currently open
// upvalue cells (spec §4.7, §9). A sorted slice is acceptable at expected
// frame sizes; a hash index keyed by stack slot is an optimization the
// spec explicitly does not require.
type openUpvalues struct {
	cells []*values.UpvalueCell // sorted ascending by StackIdx
}

// capture returns the open cell for the given absolute stack index,
// creating and inserting one in order if none exists yet. Returning an
// existing cell lets sibling closures created from the same enclosing frame
// share state, per spec §4.7.
func (o *openUpvalues) capture(idx int) *values.UpvalueCell {
	i := sort.Search(len(o.cells), func(i int) bool { return o.cells[i].StackIdx >= idx })
	if i < len(o.cells) && o.cells[i].StackIdx == idx {
		return o.cells[i]
	}
	cell := &values.UpvalueCell{StackIdx: idx}
	o.cells = append(o.cells, nil)
	copy(o.cells[i+1:], o.cells[i:])
	o.cells[i] = cell
	return cell
}

// closeFrom transitions every open cell with StackIdx >= from to closed,
// reading its value off the given stack, and removes them from the open
// list (spec §4.7). Invoked on frame return (from = frame.StackBase) and by
// OpCloseUpvalue (from = a single local slot about to leave scope).
func (o *openUpvalues) closeFrom(from int, stack *valueStack) {
	i := sort.Search(len(o.cells), func(i int) bool { return o.cells[i].StackIdx >= from })
	for j := i; j < len(o.cells); j++ {
		cell := o.cells[j]
		cell.Value = stack.get(cell.StackIdx)
		cell.Closed = true
	}
	o.cells = o.cells[:i]
}

// get reads through a cell regardless of open/closed state.
func getUpvalue(cell *values.UpvalueCell, stack *valueStack) values.Value {
	if cell.Closed {
		return cell.Value
	}
	return stack.get(cell.StackIdx)
}

// set writes through a cell regardless of open/closed state.
func setUpvalue(cell *values.UpvalueCell, stack *valueStack, v values.Value) {
	if cell.Closed {
		cell.Value = v
		return
	}
	stack.set(cell.StackIdx, v)
}
