// gc.go - Traced allocation arena shared by both ActionScript VMs.
package value

import (
	"sync"
	"sync/atomic"
	"weak"
)

// MutationToken gates every write to a traced object. Arena.Begin hands one
// out (timeline.Root calls it before each script it runs) and
// Object.SetStored, SetSlot and DefineVirtual require it, the same way a prior MachineBus gates
// memory-mapped writes through its page bitmap rather than letting callers
// poke the backing slice directly.
type MutationToken struct {
	arena *Arena
	epoch uint64
}

// Arena owns every GC-traced Object allocated for one Player. Collection is
// cooperative: Collect only ever runs between ticks, never mid-op, matching
// the documented "Collection is cooperative" contract.
type Arena struct {
	mu sync.Mutex
	objects []*Object
	epoch atomic.Uint64
	strings *StringTable

	allocated uint64
	freed uint64
}

// NewArena creates an empty arena with its own interned string table.
func NewArena() *Arena {
	a := &Arena{strings: NewStringTable()}
	a.epoch.Store(1)
	return a
}

// Strings returns the arena's interned string table.
func (a *Arena) Strings() *StringTable { return a.strings }

// Begin issues a MutationToken for the arena's current epoch. The token
// stays valid until the next Collect bumps the epoch; a later Begin call
// does not invalidate it (an Object checks the epoch, not the pointer, so a stale token is cheap
// to detect without extra bookkeeping).
func (a *Arena) Begin() MutationToken {
	return MutationToken{arena: a, epoch: a.epoch.Load()}
}

func (t MutationToken) valid() bool {
	return t.arena != nil && t.arena.epoch.Load() == t.epoch
}

// Allocate registers obj with the arena and returns a Strong handle. The
// object is live until it becomes unreachable from the arena's declared
// roots at a later Collect.
func (a *Arena) Allocate(obj *Object) Strong {
	a.mu.Lock()
	obj.arena = a
	a.objects = append(a.objects, obj)
	a.allocated++
	a.mu.Unlock()
	return Strong{obj: obj}
}

// Stats reports allocation counters, used by the debug inspector.
func (a *Arena) Stats() (allocated, freed, live uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated, a.freed, uint64(len(a.objects))
}

// Collect runs a mark-sweep pass rooted at roots. It must only be called
// between ticks. Objects unreachable from roots are dropped from the
// arena's bookkeeping list; Go's own collector reclaims the memory once
// every Strong handle referencing them is gone, and any outstanding Weak
// handle resolves to the zero value from then on.
func (a *Arena) Collect(roots []*Object) {
	a.mu.Lock()
	defer a.mu.Unlock()

	marked := make(map[*Object]bool, len(a.objects))
	var mark func(o *Object)
	mark = func(o *Object) {
 if o == nil || marked[o] {
 return
 }
 marked[o] = true
 o.traceChildren(mark)
	}
	for _, r := range roots {
 mark(r)
	}

	live := a.objects[:0]
	for _, o := range a.objects {
 if marked[o] {
 live = append(live, o)
 } else {
 a.freed++
 }
	}
	a.objects = live
	a.epoch.Add(1)
}

// Strong is an owning reference: it keeps the target object reachable as
// long as it is itself reachable (mirroring gc_arena::Gc in the original
// Rust runtime).
type Strong struct{ obj *Object }

// Get dereferences the handle. A zero-value Strong returns nil.
func (s Strong) Get() *Object { return s.obj }

// IsNil reports whether the handle holds no object.
func (s Strong) IsNil() bool { return s.obj == nil }

// Downgrade produces a Weak handle that does not keep obj alive by itself.
// Object.SetPrototype uses it for the prototype link; display parents and
// the timeline orphan list use weak.Pointer directly.
func (s Strong) Downgrade() Weak {
	if s.obj == nil {
 return Weak{}
	}
	return Weak{ptr: weak.Make(s.obj)}
}

// Weak does not keep its target alive; Upgrade resolves to (nil, false)
// once the target has been collected.
type Weak struct{ ptr weak.Pointer[Object] }

// Upgrade attempts to produce a Strong handle from a Weak one.
func (w Weak) Upgrade() (Strong, bool) {
	var zero weak.Pointer[Object]
	if w.ptr == zero {
 return Strong{}, false
	}
	obj := w.ptr.Value()
	if obj == nil {
 return Strong{}, false
	}
	return Strong{obj: obj}, true
}

// IsZero reports whether the weak handle was never set.
func (w Weak) IsZero() bool {
	var zero weak.Pointer[Object]
	return w.ptr == zero
}
