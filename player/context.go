// context.go - The single struct threaded through every tick, grounded in
// Ruffle's core/src/context.rs UpdateContext: carries the action queue,
// library, background color and backend handles so no package needs an
// ambient singleton.
package player

import (
	"math/rand"

	"flashcore/avm1"
	"flashcore/backend"
	"flashcore/display"
	"flashcore/library"
	"flashcore/timeline"
	"flashcore/value"
)

// QueuedAction is a deferred AVM1 action/init action.
type QueuedAction struct {
	Target *timeline.Clip
	Code *avm1.Chunk
	IsInit bool
}

// ActionQueue is a FIFO queue of deferred actions, drained at phase
// boundaries.
type ActionQueue struct {
	pending []QueuedAction
}

// Push enqueues an action to run at the next drain point.
func (q *ActionQueue) Push(a QueuedAction) { q.pending = append(q.pending, a) }

// Drain removes and returns every queued action, FIFO order preserved.
func (q *ActionQueue) Drain() []QueuedAction {
	out := q.pending
	q.pending = nil
	return out
}

// Context is threaded through every tick and every native method call
// that needs engine-wide state: the GC arena, the per-movie library, the
// deferred action queue, RNG, the active/root/target clip bookkeeping AS
// code observes via `_root`/`_target`, and the backend handles.
type Context struct {
	Arena *value.Arena
	Library *library.Registry
	Actions ActionQueue
	Rng *rand.Rand

	Root *timeline.Root
	Stage *display.Node
	Active *timeline.Clip // clip whose script is currently executing
	Target *timeline.Clip // AVM1 `_target` / `tellTarget` override

	BackgroundColor [4]float64

	Renderer backend.Renderer
	Audio backend.Audio
	Log backend.Log
	Storage backend.Storage
	Nav backend.Navigator
	UI backend.UI
	Locale backend.Locale

	Aborted bool
}

// NewContext builds a Context sharing arena/library/root with the owning
// Player and wiring the supplied backend handles.
func NewContext(arena *value.Arena, lib *library.Registry, root *timeline.Root, stage *display.Node, seed int64) *Context {
	return &Context{
 Arena: arena,
 Library: lib,
 Root: root,
 Stage: stage,
 Rng: rand.New(rand.NewSource(seed)),
	}
}

// Abort sets the abort flag the next tick observes and unwinds cleanly
//.
func (c *Context) Abort() { c.Aborted = true }
