// object.go - The shared heap-allocated entity for both VMs.
package value

import "sync"

// Attr holds the AVM1 property attribute flags.
type Attr uint8

const (
	AttrNone Attr = 0
	AttrDontEnum Attr = 1 << iota
	AttrDontDelete Attr = 1 << iota
	AttrReadOnly Attr = 1 << iota
	AttrVersionGated Attr = 1 << iota
)

// Watcher is the observer callback invoked synchronously on a watched
// property write. It receives the property name and old/new values plus
// opaque user data, and its return value replaces the written value.
type Watcher func(name string, oldVal, newVal Value, userData Value) Value

// property is one entry in an Object's dynamic property map. It is either
// a stored Value, a virtual getter/setter pair, or both a stored value and
// a watcher.
type property struct {
	attr Attr
	value Value
	getter *Object // callable, nil if not virtual
	setter *Object // callable, nil if not virtual or getter-only
	watcher Watcher
	watchUD Value
	hasWatch bool
}

func (p *property) isVirtual() bool { return p.getter != nil || p.setter != nil }

// NativeKind discriminates the engine-defined state an Object can carry.
// Once set to a non-empty variant it never changes.
type NativeKind uint8

const (
	NativeNone NativeKind = iota
	NativeBitmapData
	NativeSound
	NativeMovieClip
	NativeByteArray
	NativeXMLNode
)

// Slot is one entry of a fixed-layout class's slot vector.
type Slot struct {
	Value Value
	Kind SlotKind
}

// SlotKind records how a Slot behaves under VTable dispatch.
type SlotKind uint8

const (
	SlotPlain SlotKind = iota
	SlotConst // write-once
)

// Object is the shared heap entity: every DisplayObject back-pointer,
// every ActionScript object, every class instance is one of these.
type Object struct {
	arena *Arena

	mu sync.RWMutex
	class *Class // nil for plain AVM1 objects without a registered class

	props map[string]*property
	propKeys []string // insertion order, for enumeration

	slots []Slot

	proto Weak // prototype link; nil-able

	native NativeKind
	nativeData any

	caseSensitive bool

	// children are other Objects this object keeps alive for GC tracing
	// purposes beyond props/slots/proto (e.g. a DisplayObject's child list,
	// a scope object's captured outer scope). Populated by higher layers
	// via AddGCEdge.
	extraEdges []*Object
}

// NewObject allocates a bare object with no class and no properties. The
// caller is expected to register it with an Arena via Arena.Allocate.
func NewObject(caseSensitive bool) *Object {
	return &Object{
 props: make(map[string]*property),
 caseSensitive: caseSensitive,
	}
}

// SetClass assigns this object's class. Used once at construction time.
func (o *Object) SetClass(c *Class) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.class = c
	if c != nil {
 o.slots = make([]Slot, len(c.InstanceVTable.Slots))
	}
}

// Class returns the object's class, or nil.
func (o *Object) Class() *Class {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.class
}

// SetNative attaches engine-defined state. Panics if a different kind is
// already set, so a second native discriminant cannot clobber the first;
// a repeat call with the same kind replaces the payload.
func (o *Object) SetNative(kind NativeKind, data any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.native != NativeNone && o.native != kind {
 panic("value: native discriminant already set")
	}
	o.native = kind
	o.nativeData = data
}

// Native returns the native discriminant and its payload.
func (o *Object) Native() (NativeKind, any) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.native, o.nativeData
}

// SetPrototype installs a weak prototype link (objects never root their
// own prototype; the prototype is kept alive by the class/registry that
// defined it).
func (o *Object) SetPrototype(proto *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if proto == nil {
 o.proto = Weak{}
 return
	}
	// caller must have a Strong elsewhere; Downgrade needs one.
	o.proto = (Strong{obj: proto}).Downgrade()
}

// Prototype resolves the (possibly collected) prototype link.
func (o *Object) Prototype() *Object {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if s, ok := o.proto.Upgrade(); ok {
 return s.Get()
	}
	return nil
}

func (o *Object) normalizeKey(name string) string {
	if o.caseSensitive {
 return name
	}
	return lowerASCII(name)
}

func lowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
 if c >= 'A' && c <= 'Z' {
 b[i] = c + ('a' - 'A')
 changed = true
 }
	}
	if !changed {
 return s
	}
	return string(b)
}

// GetOwn looks up a property on this object only (no prototype walk),
// returning the stored value. For a property with a getter it returns
// (Undefined, true) without calling the getter; LookupOwn exposes the
// getter for the caller to invoke.
func (o *Object) GetOwn(name string) (Value, bool) {
	o.mu.RLock()
	p, ok := o.props[o.normalizeKey(name)]
	o.mu.RUnlock()
	if !ok {
 return Undefined, false
	}
	if p.getter != nil {
 return Undefined, true // caller (interpreter) must invoke the getter; see LookupOwn
	}
	return p.value, true
}

// OwnProperty exposes the raw property record for callers (the AVM1/AVM2
// interpreters) that need to distinguish virtual from stored properties
// and invoke getters/setters themselves.
type OwnProperty struct {
	Attr Attr
	Value Value
	Getter *Object
	Setter *Object
	IsVirtual bool
}

// LookupOwn returns the full property record without walking the
// prototype chain.
func (o *Object) LookupOwn(name string) (OwnProperty, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.props[o.normalizeKey(name)]
	if !ok {
 return OwnProperty{}, false
	}
	return OwnProperty{
 Attr: p.attr,
 Value: p.value,
 Getter: p.getter,
 Setter: p.setter,
 IsVirtual: p.isVirtual(),
	}, true
}

// Lookup walks the prototype chain (bounded to avoid cycles) and returns
// the first matching property record plus the object owning it.
func (o *Object) Lookup(name string) (OwnProperty, *Object, bool) {
	cur := o
	for i := 0; i < 256 && cur != nil; i++ {
 if p, ok := cur.LookupOwn(name); ok {
 return p, cur, true
 }
 cur = cur.Prototype()
	}
	return OwnProperty{}, nil, false
}

// SetStored writes a plain stored value, creating the property with attr
// if it did not already exist. Returns false if the existing property has
// AttrReadOnly set.
func (o *Object) SetStored(tok MutationToken, name string, v Value, attr Attr) bool {
	if !tok.valid() {
 panic("value: stale mutation token")
	}
	key := o.normalizeKey(name)
	o.mu.Lock()
	defer o.mu.Unlock()
	p, existed := o.props[key]
	if existed {
 if p.attr&AttrReadOnly != 0 {
 return false
 }
 if p.hasWatch {
 old := p.value
 // Watcher runs synchronously inside the write.
 o.mu.Unlock()
 v = p.watcher(name, old, v, p.watchUD)
 o.mu.Lock()
 }
 p.value = v
 p.getter, p.setter = nil, nil
 return true
	}
	o.props[key] = &property{attr: attr, value: v}
	o.propKeys = append(o.propKeys, key)
	return true
}

// DefineVirtual installs a getter/setter pair under name, replacing any
// existing property.
func (o *Object) DefineVirtual(tok MutationToken, name string, getter, setter *Object, attr Attr) {
	if !tok.valid() {
 panic("value: stale mutation token")
	}
	key := o.normalizeKey(name)
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, existed := o.props[key]; !existed {
 o.propKeys = append(o.propKeys, key)
	}
	o.props[key] = &property{attr: attr, getter: getter, setter: setter}
}

// Watch installs a watcher observer on name, per AVM1 Object.watch.
func (o *Object) Watch(name string, w Watcher, userData Value) {
	key := o.normalizeKey(name)
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.props[key]
	if !ok {
 p = &property{}
 o.props[key] = p
 o.propKeys = append(o.propKeys, key)
	}
	p.watcher = w
	p.watchUD = userData
	p.hasWatch = true
}

// Unwatch removes a previously installed watcher, per AVM1 Object.unwatch.
func (o *Object) Unwatch(name string) bool {
	key := o.normalizeKey(name)
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.props[key]
	if !ok || !p.hasWatch {
 return false
	}
	p.hasWatch = false
	p.watcher = nil
	return true
}

// Delete removes an own property, honoring AttrDontDelete. Returns false
// (without deleting) if the property is protected or absent.
func (o *Object) Delete(name string) bool {
	key := o.normalizeKey(name)
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.props[key]
	if !ok {
 return false
	}
	if p.attr&AttrDontDelete != 0 {
 return false
	}
	delete(o.props, key)
	for i, k := range o.propKeys {
 if k == key {
 o.propKeys = append(o.propKeys[:i], o.propKeys[i+1:]...)
 break
 }
	}
	return true
}

// Keys enumerates own property names in insertion order, skipping
// AttrDontEnum entries unless includeHidden is set (used by for..in vs.
// debug inspection).
func (o *Object) Keys(includeHidden bool) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.propKeys))
	for _, k := range o.propKeys {
 p := o.props[k]
 if p.attr&AttrDontEnum != 0 && !includeHidden {
 continue
 }
 out = append(out, k)
	}
	return out
}

// Slot accesses the fixed-layout slot vector for AVM2 objects.
func (o *Object) Slot(i int) Value {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(o.slots) {
 return Undefined
	}
	return o.slots[i].Value
}

// SetSlot writes the fixed-layout slot vector. Write-once (SlotConst)
// slots silently ignore a second write, matching ConstSlot semantics.
func (o *Object) SetSlot(tok MutationToken, i int, v Value) {
	if !tok.valid() {
 panic("value: stale mutation token")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.slots) {
 return
	}
	if o.slots[i].Kind == SlotConst && !o.slots[i].Value.IsUndefined() {
 return
	}
	o.slots[i].Value = v
}

// AddGCEdge registers an extra strong edge for tracing purposes: used by
// higher layers (display.Node, avm2 scope chains) that hold *Object
// pointers outside the props/slots/proto fields this package already
// knows how to trace.
func (o *Object) AddGCEdge(child *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extraEdges = append(o.extraEdges, child)
}

func (o *Object) traceChildren(mark func(*Object)) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, p := range o.props {
 if p.value.IsObject() {
 mark(p.value.Object())
 }
 if p.getter != nil {
 mark(p.getter)
 }
 if p.setter != nil {
 mark(p.setter)
 }
	}
	for _, s := range o.slots {
 if s.Value.IsObject() {
 mark(s.Value.Object())
 }
	}
	for _, e := range o.extraEdges {
 mark(e)
	}
	// o.proto is weak and intentionally not traced as a root edge.
}
