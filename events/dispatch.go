// dispatch.go - Capture/target/bubble event dispatch over the display
// tree, and the broadcast-whitelist fan-out, grounded in
// Ruffle's core/src/events.rs dispatch-chain construction re-expressed
// against this module's own display.Node type.
package events

import (
	"flashcore/display"
)

// Phase identifies which leg of the dispatch chain a Handler is running
// in, mirroring the DOM3-style event model specifies.
type Phase uint8

const (
	PhaseCapture Phase = iota
	PhaseTarget
	PhaseBubble
)

// Event carries a name plus a flag a handler can raise to halt dispatch.
type Event struct {
	Name string
	Target *display.Node

	stoppedImmediate bool
	stopped bool
}

// StopPropagation halts the chain after the current phase's remaining
// listeners at this node finish, but does not cancel listeners already
// registered at the SAME node for this dispatch.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation halts dispatch immediately, including any
// remaining listeners at the current node.
func (e *Event) StopImmediatePropagation() {
	e.stoppedImmediate = true
	e.stopped = true
}

// Handler receives a dispatched event at a given phase.
type Handler func(ev *Event, phase Phase)

// listener is one registered handler plus whether it was registered for
// the capture phase (addEventListener's useCapture flag).
type listener struct {
	handler Handler
	useCapture bool
}

// Registry holds the listeners attached to display nodes, keyed by node
// identity. It does not itself live on display.Node so the display
// package stays free of an events dependency (the same inversion avm1
// uses for ClipController).
type Registry struct {
	listeners map[*display.Node]map[string][]listener
}

// NewRegistry creates an empty listener table.
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[*display.Node]map[string][]listener)}
}

// AddEventListener registers fn for name events at node. Registration is
// not idempotent: Go cannot compare func values, so every call appends a
// listener, and registering the same handler twice makes it fire twice.
func (r *Registry) AddEventListener(node *display.Node, name string, useCapture bool, fn Handler) {
	byName, ok := r.listeners[node]
	if !ok {
 byName = make(map[string][]listener)
 r.listeners[node] = byName
	}
	byName[name] = append(byName[name], listener{handler: fn, useCapture: useCapture})
}

// RemoveEventListeners drops all listeners registered at node, used when
// a node is orphaned from the display tree.
func (r *Registry) RemoveEventListeners(node *display.Node) {
	delete(r.listeners, node)
}

// chain returns target's ancestors from the root down to (but excluding)
// target itself, for the capture phase; the bubble phase walks it in
// reverse.
func chain(target *display.Node) []*display.Node {
	var ancestors []*display.Node
	for n := target.Parent(); n != nil; n = n.Parent() {
 ancestors = append(ancestors, n)
	}
	// ancestors is currently target-to-root; reverse to root-to-target.
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
 ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return ancestors
}

// Dispatch runs ev through the capture, target and bubble phases in
// order, honoring StopPropagation/StopImmediatePropagation at every node.
func (r *Registry) Dispatch(ev *Event) {
	target := ev.Target
	ancestors := chain(target)

	for _, node := range ancestors {
 if !r.fireAt(ev, node, PhaseCapture, true) {
 return
 }
 if ev.stopped {
 return
 }
	}

	if !r.fireAt(ev, target, PhaseTarget, false) && ev.stoppedImmediate {
 return
	}
	if ev.stopped {
 return
	}

	for i := len(ancestors) - 1; i >= 0; i-- {
 if !r.fireAt(ev, ancestors[i], PhaseBubble, false) {
 return
 }
 if ev.stopped {
 return
 }
	}
}

// fireAt runs every listener registered at node matching wantCapture
// (PhaseTarget runs both capture- and bubble-registered listeners, per
// the DOM3 model). Returns false if StopImmediatePropagation fired.
func (r *Registry) fireAt(ev *Event, node *display.Node, phase Phase, wantCapture bool) bool {
	byName, ok := r.listeners[node]
	if !ok {
 return true
	}
	for _, l := range byName[ev.Name] {
 if phase != PhaseTarget && l.useCapture != wantCapture {
 continue
 }
 l.handler(ev, phase)
 if ev.stoppedImmediate {
 return false
 }
	}
	return true
}

// BroadcastWhitelist is the set of event names that bypass the display
// hierarchy entirely and fan out to every listening clip regardless of
// tree membership.
var BroadcastWhitelist = map[string]bool{
	"enterFrame": true,
	"exitFrame": true,
	"frameConstructed": true,
	"render": true,
}

// Broadcaster fans a whitelisted event out to every registered listener,
// independent of display-tree position or visibility.
type Broadcaster struct {
	registry *Registry
	listeners map[string][]*display.Node
}

// NewBroadcaster creates an empty broadcaster bound to registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry, listeners: make(map[string][]*display.Node)}
}

// Register adds node to the fan-out list for a whitelisted event name.
// Registering the same node twice for the same name is a no-op, matching
// the documented "idempotent registration".
func (b *Broadcaster) Register(name string, node *display.Node) {
	if !BroadcastWhitelist[name] {
 return
	}
	for _, n := range b.listeners[name] {
 if n == node {
 return
 }
	}
	b.listeners[name] = append(b.listeners[name], node)
}

// Unregister drops node from name's fan-out list.
func (b *Broadcaster) Unregister(name string, node *display.Node) {
	list := b.listeners[name]
	for i, n := range list {
 if n == node {
 b.listeners[name] = append(list[:i], list[i+1:]...)
 return
 }
	}
}

// Broadcast fires name at every registered node in registration order.
// Broadcast events do not support StopPropagation, but an individual
// listener can still call StopImmediatePropagation to skip its own
// remaining listeners at that single node.
func (b *Broadcaster) Broadcast(name string) {
	for _, node := range b.listeners[name] {
 ev := &Event{Name: name, Target: node}
 b.registry.fireAt(ev, node, PhaseTarget, false)
	}
}
