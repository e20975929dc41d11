package values

// List is a shared, mutable, ordered sequence of Value — the heap payload
// behind KindList.
type List struct {
	Elems []Value
}

func NewList(elems ...Value) Value {
	return Value{Kind: KindList, Data: &List{Elems: elems}}
}

func (l *List) Len() int { return len(l.Elems) }

func (l *List) Append(v Value) { l.Elems = append(l.Elems, v) }

// Normalize converts a possibly-negative index against this list's length,
// per spec §4.4. ok is false if the result is still out of bounds.
func (l *List) Normalize(idx int64) (int, bool) {
	n := int64(len(l.Elems))
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return int(idx), true
}

// Dict is a shared, mutable, insertion-ordered mapping from Str keys to
// Value — the heap payload behind KindDict.
type Dict struct {
	order []string
	index map[string]int // key -> position in order/entries
	vals  map[string]Value
}

func NewDict() Value {
	d := &Dict{
		index: make(map[string]int),
		vals:  make(map[string]Value),
	}
	return Value{Kind: KindDict, Data: d}
}

func (d *Dict) Len() int { return len(d.order) }

func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.vals[key]
	return v, ok
}

func (d *Dict) Set(key string, val Value) {
	if _, exists := d.index[key]; !exists {
		d.index[key] = len(d.order)
		d.order = append(d.order, key)
	}
	d.vals[key] = val
}

func (d *Dict) Delete(key string) bool {
	pos, ok := d.index[key]
	if !ok {
		return false
	}
	delete(d.index, key)
	delete(d.vals, key)
	d.order = append(d.order[:pos], d.order[pos+1:]...)
	for i := pos; i < len(d.order); i++ {
		d.index[d.order[i]] = i
	}
	return true
}

// Keys returns the dict's keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
