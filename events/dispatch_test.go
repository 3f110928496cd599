package events

import (
	"testing"

	"flashcore/display"
)

func buildTree() (root, mid, leaf *display.Node) {
	root = display.NewNode(display.KindMovieClip)
	mid = display.NewNode(display.KindMovieClip)
	leaf = display.NewNode(display.KindMovieClip)
	root.Adopt(mid, 0)
	mid.Adopt(leaf, 0)
	return
}

func TestDispatchOrderIsCaptureTargetBubble(t *testing.T) {
	root, mid, leaf := buildTree()
	reg := NewRegistry()

	var order []string
	record := func(label string) Handler {
		return func(ev *Event, phase Phase) { order = append(order, label) }
	}
	reg.AddEventListener(root, "click", true, record("root-capture"))
	reg.AddEventListener(mid, "click", true, record("mid-capture"))
	reg.AddEventListener(leaf, "click", false, record("leaf-target"))
	reg.AddEventListener(mid, "click", false, record("mid-bubble"))
	reg.AddEventListener(root, "click", false, record("root-bubble"))

	reg.Dispatch(&Event{Name: "click", Target: leaf})

	want := []string{"root-capture", "mid-capture", "leaf-target", "mid-bubble", "root-bubble"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestStopImmediatePropagationHaltsRemainingListenersAtSameNode(t *testing.T) {
	_, _, leaf := buildTree()
	reg := NewRegistry()

	var fired []string
	reg.AddEventListener(leaf, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "first")
		ev.StopImmediatePropagation()
	})
	reg.AddEventListener(leaf, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "second")
	})

	reg.Dispatch(&Event{Name: "click", Target: leaf})

	if len(fired) != 1 || fired[0] != "first" {
		t.Fatalf("expected only the first listener to fire, got %v", fired)
	}
}

func TestStopPropagationAllowsSameNodeListenersButHaltsBubble(t *testing.T) {
	root, mid, leaf := buildTree()
	reg := NewRegistry()

	var fired []string
	reg.AddEventListener(leaf, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "leaf-1")
		ev.StopPropagation()
	})
	reg.AddEventListener(leaf, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "leaf-2")
	})
	reg.AddEventListener(mid, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "mid-bubble")
	})
	reg.AddEventListener(root, "click", false, func(ev *Event, phase Phase) {
		fired = append(fired, "root-bubble")
	})

	reg.Dispatch(&Event{Name: "click", Target: leaf})

	if len(fired) != 2 || fired[0] != "leaf-1" || fired[1] != "leaf-2" {
		t.Fatalf("expected both leaf listeners then a halt, got %v", fired)
	}
}

func TestRemoveEventListenersDropsAllForNode(t *testing.T) {
	_, _, leaf := buildTree()
	reg := NewRegistry()

	fired := false
	reg.AddEventListener(leaf, "click", false, func(ev *Event, phase Phase) { fired = true })
	reg.RemoveEventListeners(leaf)
	reg.Dispatch(&Event{Name: "click", Target: leaf})

	if fired {
		t.Fatalf("expected no listener to fire after RemoveEventListeners")
	}
}

func TestBroadcastFansOutInRegistrationOrderIgnoringTreePosition(t *testing.T) {
	a := display.NewNode(display.KindMovieClip)
	b := display.NewNode(display.KindMovieClip)
	reg := NewRegistry()
	bc := NewBroadcaster(reg)

	var order []string
	reg.AddEventListener(a, "enterFrame", false, func(ev *Event, phase Phase) { order = append(order, "a") })
	reg.AddEventListener(b, "enterFrame", false, func(ev *Event, phase Phase) { order = append(order, "b") })
	bc.Register("enterFrame", a)
	bc.Register("enterFrame", b)

	bc.Broadcast("enterFrame")

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected [a b], got %v", order)
	}
}

func TestBroadcastRejectsNonWhitelistedNames(t *testing.T) {
	a := display.NewNode(display.KindMovieClip)
	reg := NewRegistry()
	bc := NewBroadcaster(reg)

	bc.Register("click", a) // not in BroadcastWhitelist

	fired := false
	reg.AddEventListener(a, "click", false, func(ev *Event, phase Phase) { fired = true })
	bc.Broadcast("click")

	if fired {
		t.Fatalf("expected Register to reject a non-whitelisted event name")
	}
}

func TestBroadcastRegisterIsIdempotent(t *testing.T) {
	a := display.NewNode(display.KindMovieClip)
	reg := NewRegistry()
	bc := NewBroadcaster(reg)

	bc.Register("render", a)
	bc.Register("render", a)

	count := 0
	reg.AddEventListener(a, "render", false, func(ev *Event, phase Phase) { count++ })
	bc.Broadcast("render")

	if count != 1 {
		t.Fatalf("expected exactly one fire from idempotent registration, got %d", count)
	}
}
