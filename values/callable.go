package values

import "github.com/google/uuid"

// UpvalueCell is a shared, mutable cell referenced by closures. It is either
// open — carrying the absolute VM stack index of the slot it captures — or
// closed, carrying an owned Value. The transition is one-way (spec §3, §4.7).
type UpvalueCell struct {
	Closed    bool
	StackIdx  int   // valid while Closed == false
	Value     Value // valid while Closed == true
}

// Closure bundles an immutable FunctionProto with the vector of captured
// upvalue cells (spec §3).
type Closure struct {
	Proto    *FunctionProto
	Upvalues []*UpvalueCell

	// OwnerClass is a back-pointer to the Class whose method table this
	// Closure was installed into at OpMakeClass time, or nil for a bare
	// function. It backs the super() native's class-chain-aware strategy
	// described in spec §4.7 / §9 (strategy (b): back-pointer from Closure
	// to owning Class).
	OwnerClass *Class
}

func NewClosure(proto *FunctionProto, upvalues []*UpvalueCell) Value {
	return Value{Kind: KindClosure, Data: &Closure{Proto: proto, Upvalues: upvalues}}
}

// BoundMethod pairs a receiver Value with the Closure or Native implementing
// the method (spec §3).
type BoundMethod struct {
	Receiver Value
	Method   Value // Kind == KindClosure || Kind == KindNative
}

func NewBoundMethod(receiver, method Value) Value {
	return Value{Kind: KindBoundMethod, Data: &BoundMethod{Receiver: receiver, Method: method}}
}

// NativeFn is a host-provided callable body. args excludes the receiver for
// plain natives; a bound native receives the receiver prepended by the
// BoundMethod call path just like a bound Closure (spec §4.6).
type NativeFn func(args []Value) (Value, error)

// Native is a host-provided callable: name, arity bounds, function pointer
// (spec §3).
type Native struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 means unbounded
	Fn      NativeFn
}

func NewNative(n *Native) Value {
	return Value{Kind: KindNative, Data: n}
}

// Class is a shared, mutable class object: name, method table, optional
// parent, optional class-level attributes (spec §3, §4.5).
type Class struct {
	Name    string
	Parent  *Class
	Methods *Dict // method name (Str key) -> Closure Value, insertion-ordered
	Attrs   *Dict // class-level attributes
}

func NewClass(name string) Value {
	methodsV := NewDict()
	attrsV := NewDict()
	c := &Class{
		Name:    name,
		Methods: methodsV.AsDict(),
		Attrs:   attrsV.AsDict(),
	}
	return Value{Kind: KindClass, Data: c}
}

// FindMethod walks this class's MRO (self, then Parent, then grandparent,
// …) looking for name in each class's method table. Returns the owning
// class alongside the Closure so callers can distinguish "found on self" vs
// inherited, and so BoundMethod construction always binds the instance
// rather than the defining class.
func (c *Class) FindMethod(name string) (Value, *Class, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if v, ok := cur.Methods.Get(name); ok {
			return v, cur, true
		}
	}
	return Value{}, nil, false
}

// FindAttr walks the parent chain looking in class-level attribute tables.
func (c *Class) FindAttr(name string) (Value, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if v, ok := cur.Attrs.Get(name); ok {
			return v, true
		}
	}
	return Value{}, false
}

// Instance is a shared, mutable instance of a Class: the class reference
// plus an insertion-ordered field map (spec §3). ID is a v4 UUID minted at
// construction, used only by the default __repr__ formatting (<ClassName
// 0xHEX>) so instance identity reads consistently across a VM reset instead
// of reusing a bare incrementing counter.
type Instance struct {
	Class  *Class
	Fields *Dict
	ID     uuid.UUID
}

func NewInstance(class *Class) Value {
	fieldsV := NewDict()
	inst := &Instance{Class: class, Fields: fieldsV.AsDict(), ID: uuid.New()}
	return Value{Kind: KindInstance, Data: inst}
}

func (v Value) AsInstance() *Instance { return v.Data.(*Instance) }
func (v Value) AsClosure() *Closure   { return v.Data.(*Closure) }
func (v Value) AsClass() *Class       { return v.Data.(*Class) }
func (v Value) AsNative() *Native     { return v.Data.(*Native) }
func (v Value) AsBoundMethod() *BoundMethod { return v.Data.(*BoundMethod) }
func (v Value) AsFunctionProto() *FunctionProto { return v.Data.(*FunctionProto) }
func (v Value) AsSuperProxy() *SuperProxy { return v.Data.(*SuperProxy) }

// SuperProxy is the transient value returned by the super() native (spec
// §4.7, Glossary). It resumes MRO lookup at StartClass while binding results
// to Instance.
type SuperProxy struct {
	Instance   Value
	StartClass *Class
}

func NewSuperProxy(instance Value, startClass *Class) Value {
	return Value{Kind: KindSuperProxy, Data: &SuperProxy{Instance: instance, StartClass: startClass}}
}

// IsCallable reports whether a Value can appear as OpCall's callee.
func (v Value) IsCallable() bool {
	switch v.Kind {
	case KindClosure, KindBoundMethod, KindClass, KindNative:
		return true
	default:
		return false
	}
}
