// tick.go - The five-phase frame tick and end-of-frame
// orphan cleanup, grounded in Ruffle's core/src/context.rs UpdateContext
// and core/src/player.rs run_actions/update_drag ordering.
package timeline

import (
	"weak"

	"flashcore/avm1"
	"flashcore/avm2"
	"flashcore/display"
	"flashcore/events"
	"flashcore/value"
)

// Root owns every live Clip plus the broadcast/orphan bookkeeping a tick
// needs: the clip list, the event registry and broadcaster, and the orphan
// list. The deferred action queue is not here; it is player.Context.Actions.
type Root struct {
	Stage *display.Node

	clips []*Clip
	broadcast *events.Broadcaster
	registry *events.Registry

	orphans []weak.Pointer[display.Node]

	Arena *value.Arena
	Strings *value.StringTable

	// Avm2Domain is the application domain AVM2-linked characters resolve
	// class references against; nil for a
	// movie with no AVM2 content.
	Avm2Domain *avm2.Domain
}

// NewRoot creates a timeline rooted at stage, sharing arena for all
// activation allocation.
func NewRoot(stage *display.Node, arena *value.Arena) *Root {
	reg := events.NewRegistry()
	return &Root{
 Stage: stage,
 broadcast: events.NewBroadcaster(reg),
 registry: reg,
 Arena: arena,
 Strings: arena.Strings(),
 Avm2Domain: avm2.NewDomain(nil),
	}
}

// AddClip registers clip for frame ticking and whitelisted broadcasts.
func (r *Root) AddClip(c *Clip) {
	r.clips = append(r.clips, c)
	r.broadcast.Register("enterFrame", c.Node)
	r.broadcast.Register("exitFrame", c.Node)
	r.broadcast.Register("frameConstructed", c.Node)
	r.broadcast.Register("render", c.Node)
}

// Events exposes the dispatch registry so host code (button rollovers,
// key events) can attach target/bubble listeners.
func (r *Root) Events() *events.Registry { return r.registry }

// Tick runs exactly one frame through the five ordered phases. Scripts
// raised during construct-frame are queued, not run immediately, so that
// every clip finishes construction before any of them observes another
// clip's post-construction state.
func (r *Root) Tick() error {
	r.broadcast.Broadcast("enterFrame")

	var queue []QueuedScript
	for _, c := range r.clips {
 if !c.Playing || c.TotalFrames() == 0 {
 continue
 }
 next := c.CurrentIdx + 1
 if next >= c.TotalFrames() {
 next = 0
 }
 c.CurrentIdx = next
 queue = append(queue, r.constructFrame(c)...)
	}

	r.broadcast.Broadcast("frameConstructed")

	for _, q := range queue {
 if q.Code == nil {
 continue
 }
 if err := r.runScript(q); err != nil {
 return err
 }
	}

	r.broadcast.Broadcast("exitFrame")
	r.collectOrphans()
	r.broadcast.Broadcast("render")
	return nil
}

// constructFrame replays the placement/removal tags for c's current
// frame, returning any DoAction tags as scripts to run later.
func (r *Root) constructFrame(c *Clip) []QueuedScript {
	if c.CurrentIdx >= len(c.Frames) {
 return nil
	}
	var queued []QueuedScript
	for _, tag := range c.Frames[c.CurrentIdx] {
 switch {
 case tag.PlaceCharacter != nil:
 r.placeCharacter(c, tag.PlaceCharacter)
 case tag.RemoveAtDepth != nil:
 if removed, ok := c.Node.Orphan(*tag.RemoveAtDepth); ok {
 r.Orphan(removed)
 }
 case tag.DoAction != nil:
 queued = append(queued, QueuedScript{Target: c, Code: tag.DoAction})
 }
	}
	c.Initialized = true
	return queued
}

func (r *Root) placeCharacter(c *Clip, p *PlaceCharacter) {
	if p.Move {
 if existing, ok := c.Node.Children().At(p.Depth); ok {
 existing.Matrix = p.Matrix
 return
 }
	}
	child := display.NewNode(display.KindMovieClip)
	child.Matrix = p.Matrix
	child.Name = p.Name
	child.CharacterID = p.CharacterID
	c.Node.Adopt(child, p.Depth)

	if p.Avm2Class != nil {
 tok := r.Arena.Begin()
 obj := value.NewObject(true)
 obj.SetClass(p.Avm2Class)
 child.Avm2Object = obj
 if p.Avm2Ctor != nil {
 if _, err := r.RunAvm2Method(tok, obj, p.Avm2Ctor, nil); err != nil {
 // A throwing constructor leaves the node placed but
 // unconstructed. The error is discarded: nothing is
 // logged or dispatched, and the tick carries on.
 _ = err
 }
 }
	}
}

// RunAvm2Method runs m against this with args, starting from an empty
// outer scope and the root's Avm2Domain. It is the single entry point
// every AVM2 call site in this module funnels through (class construction
// during placement, above). It runs m as given: it calls neither
// avm2.Verify nor avm2.Optimize first.
func (r *Root) RunAvm2Method(tok value.MutationToken, this *value.Object, m *avm2.Method, args []value.Value) (value.Value, error) {
	act, err := avm2.NewActivation(r.Arena, tok, m, this, avm2.ScopeChain{}, r.Avm2Domain, args)
	if err != nil {
 return value.Undefined, err
	}
	return avm2.Run(act, m)
}

// runScript executes one queued DoAction chunk against its target clip's
// own scripting object as `this`.
func (r *Root) runScript(q QueuedScript) error {
	return r.RunAction(q.Target, q.Code)
}

// RunAction executes code against target's own scripting object as
// `this`, the same path Root.Tick uses for authored frame scripts. It is
// exported so a host-level Context's deferred action queue can replay actions outside of the
// regular construct-frame/frame-scripts phases.
func (r *Root) RunAction(target *Clip, code *avm1.Chunk) error {
	tok := r.Arena.Begin()
	scope := avm1.NewScopeChain(r.Stage.Avm1Object)
	this := value.Undefined
	if obj := target.Node.Avm1Object; obj != nil {
 this = value.Obj(obj)
	}
	act := avm1.NewActivation(r.Arena, tok, scope, this, target, 6)
	_, err := avm1.Run(act, code, avm1.NewBudget(avm1.DefaultScriptBudget))
	return err
}

// collectOrphans prunes weak handles whose nodes have already been
// reclaimed and keeps still-live orphans on the list. The list only
// records orphans: Tick sends no frame ticks or broadcasts to a node
// because it is on the list, and dropping an entry removes no listeners.
func (r *Root) collectOrphans() {
	live := r.orphans[:0]
	for _, w := range r.orphans {
 n := w.Value()
 if n == nil {
 continue
 }
 live = append(live, w)
	}
	r.orphans = live
}

// Orphan records node as removed-but-possibly-still-referenced by adding
// a weak handle to the orphan list; listeners registered for node stay in
// the event registry.
func (r *Root) Orphan(node *display.Node) {
	r.orphans = append(r.orphans, weak.Make(node))
}
