// class.go - Immutable class descriptors and the AVM2 vtable model.
package value

// ClassFlags records the AVM2 class attribute bits.
type ClassFlags uint8

const (
	ClassSealed ClassFlags = 1 << iota
	ClassFinal
	ClassInterface
	ClassNonNullBuiltin
)

// TraitKind discriminates a VTable entry.
type TraitKind uint8

const (
	TraitSlot TraitKind = iota
	TraitConstSlot
	TraitMethod
	TraitVirtual
)

// DeclaredType records a slot's lazily-resolved declared type, used by the
// AVM2 optimizer to decide whether a coercion can be elided.
type DeclaredType struct {
	Name string // qualified name; empty means untyped ("*")
	Class *Class // resolved lazily; nil until first use
	Resolved bool
}

// Trait is one VTable entry: a Slot, ConstSlot, Method, or Virtual
// (getter/setter pair, either half optional).
type Trait struct {
	Name string
	Kind TraitKind
	Index int // slot index, for Slot/ConstSlot
	Type DeclaredType // declared type, for Slot/ConstSlot
	DispID int // dispatch id, for Method
	GetterDispID int // -1 if absent, for Virtual
	SetterDispID int // -1 if absent, for Virtual
}

// VTable resolves name lookups to Trait entries and backs method dispatch.
// Entries are indexed both by name (for findproperty-style resolution) and
// by a dense slot list (for fast getslot/setslot access after the
// optimizer specializes a generic getproperty/setproperty).
type VTable struct {
	ByName []Trait
	Slots []Trait // TraitSlot/TraitConstSlot entries, by Index
}

// Lookup finds a named trait by linear scan. Real implementations would
// hash this; a linear scan keeps the model legible and is still bounded by
// each class's own trait count, which the verifier has already checked is
// finite.
func (vt *VTable) Lookup(name string) (Trait, bool) {
	for _, t := range vt.ByName {
 if t.Name == name {
 return t, true
 }
	}
	return Trait{}, false
}

// NativeMethod is the Go implementation behind a native-dispatched AVM1 or
// AVM2 method.
type NativeMethod func(this *Object, args []Value) (Value, error)

// Class is an immutable descriptor shared by every instance. A Class and
// its companion c_class reference each other; both are heap objects
// tracked by the same Arena as ordinary Objects.
type Class struct {
	Name string
	Super *Class
	Interfaces []*Class
	Flags ClassFlags

	InstanceTraits map[string]Trait
	ClassTraits map[string]Trait
	InstanceVTable VTable
	ClassVTable VTable

	Allocator NativeMethod // optional custom allocator
	Ctor NativeMethod // optional custom constructor
	CallHandler NativeMethod // optional call-as-function handler

	// CClass/IClass form the companion pair: CClass is the class-as-object
	// (what `Foo` itself evaluates to in AS3), IClass is the instance
	// class these traits describe. Both point at the same *Class; the
	// distinction lives in how the object model represents the class
	// object versus instances, handled by avm2.ClassObject.
	CClass *Object
	IClass *Object
}

// IsSealed reports whether dynamic properties are disallowed on instances.
func (c *Class) IsSealed() bool { return c.Flags&ClassSealed != 0 }

// IsFinal reports whether the class cannot be subclassed, which the
// optimizer relies on to specialize callproperty to callnative.
func (c *Class) IsFinal() bool { return c.Flags&ClassFinal != 0 }

// DescendsFrom walks the superclass chain looking for target.
func (c *Class) DescendsFrom(target *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
 if cur == target {
 return true
 }
	}
	return false
}

// Implements reports whether c's interface list (transitively through
// Super) contains target.
func (c *Class) Implements(target *Class) bool {
	for cur := c; cur != nil; cur = cur.Super {
 for _, i := range cur.Interfaces {
 if i == target || i.Implements(target) {
 return true
 }
 }
	}
	return false
}
