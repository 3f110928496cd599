package timeline

import (
	"testing"
	"weak"

	"flashcore/avm1"
	"flashcore/avm2"
	"flashcore/display"
	"flashcore/events"
	"flashcore/value"
)

func newTestRoot() *Root {
	arena := value.NewArena()
	stage := display.NewNode(display.KindMovieClip)
	return NewRoot(stage, arena)
}

// TestTickRunsPhasesInOrder exercises the enter-frame / construct-frame /
// frame-scripts / exit-frame / render ordering as a registered clip sees
// it: over a frame carrying a DoAction tag, the enterFrame,
// frameConstructed, exitFrame and render broadcasts must fire in that
// order, and construct-frame must mark the clip initialized.
func TestTickRunsPhasesInOrder(t *testing.T) {
	r := newTestRoot()

	node := display.NewNode(display.KindMovieClip)
	r.Stage.Adopt(node, 0)
	clip := NewClip(node, [][]FrameTag{
		{{DoAction: &avm1.Chunk{Actions: []avm1.Action{{Op: avm1.ActionReturn}}}}},
	}, nil)
	r.AddClip(clip)

	want := []string{"enterFrame", "frameConstructed", "exitFrame", "render"}
	var got []string
	for _, name := range want {
		r.Events().AddEventListener(node, name, false, func(ev *events.Event, phase events.Phase) {
			got = append(got, ev.Name)
		})
	}

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !clip.Initialized {
		t.Fatalf("expected construct-frame to mark the clip initialized")
	}
	if len(got) != len(want) {
		t.Fatalf("expected broadcasts %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected broadcasts %v, got %v", want, got)
		}
	}
}

// TestTickAdvancesFrameBeforeConstructing matches the documented "current frame
// advances, then construction replays the NEW frame's tags" ordering: a
// two-frame clip's second frame's placement tag should be visible by the
// time Tick returns.
func TestTickAdvancesFrameBeforeConstructing(t *testing.T) {
	r := newTestRoot()

	node := display.NewNode(display.KindMovieClip)
	r.Stage.Adopt(node, 0)
	clip := NewClip(node, [][]FrameTag{
		{},
		{{PlaceCharacter: &PlaceCharacter{CharacterID: 7, Depth: 0}}},
	}, nil)
	r.AddClip(clip)

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if clip.CurrentFrame() != 2 {
		t.Fatalf("expected to have advanced to frame 2, got %d", clip.CurrentFrame())
	}
	if _, ok := node.Children().At(0); !ok {
		t.Fatalf("expected frame 2's placement tag to have run")
	}
}

// TestGotoFrameSkipsInterveningFrameScripts matches the documented "goto skips
// frame scripts for frames it passes over": GotoFrame alone must not run
// any DoAction or construct-frame; it only moves the cursor.
func TestGotoFrameSkipsInterveningFrameScripts(t *testing.T) {
	node := display.NewNode(display.KindMovieClip)
	clip := NewClip(node, [][]FrameTag{
		{{DoAction: &avm1.Chunk{Actions: []avm1.Action{{Op: avm1.ActionReturn}}}}},
		{{DoAction: &avm1.Chunk{Actions: []avm1.Action{{Op: avm1.ActionReturn}}}}},
		{{DoAction: &avm1.Chunk{Actions: []avm1.Action{{Op: avm1.ActionReturn}}}}},
	}, nil)
	clip.GotoFrame(2)

	if clip.CurrentFrame() != 3 {
		t.Fatalf("expected GotoFrame(2) to set the 1-based frame to 3, got %d", clip.CurrentFrame())
	}
	if clip.Initialized {
		t.Fatalf("expected GotoFrame alone not to run construct-frame")
	}
}

// TestOrphanCleanupKeepsLiveEntries matches spec.md §4.6: a script-orphaned
// node "remains on an orphan list and continues to receive frame ticks
// until garbage-collected". This test covers the bookkeeping only: as long
// as node is still reachable (held here by our local var), collectOrphans
// (run by Tick, at the end of exit-frame) must keep its weak handle on the
// list.
func TestOrphanCleanupKeepsLiveEntries(t *testing.T) {
	r := newTestRoot()
	node := display.NewNode(display.KindMovieClip)

	r.Events().AddEventListener(node, "click", false, func(ev *events.Event, phase events.Phase) {})
	r.Orphan(node)

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(r.orphans) != 1 {
		t.Fatalf("expected the still-live orphan to remain on the list, got %d entries", len(r.orphans))
	}
	if r.orphans[0].Value() == nil {
		t.Fatalf("expected the still-reachable node's weak handle to still resolve")
	}
}

// TestOrphanCleanupDropsReclaimedEntries matches the documented "a cleanup
// pass at end-of-frame drops expired entries". Relying on Go's GC to have
// actually reclaimed a node by the time a test observes it is flaky (see
// TestCollectUntracksObjectDespiteWeakHandle's reasoning in value/gc_test.go), so
// this exercises the same expired-handle shape directly via a zero-value
// weak.Pointer, which resolves like any handle whose target the collector
// has already reclaimed.
func TestOrphanCleanupDropsReclaimedEntries(t *testing.T) {
	r := newTestRoot()
	live := display.NewNode(display.KindMovieClip)
	r.Orphan(live)
	r.orphans = append(r.orphans, weak.Pointer[display.Node]{})

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(r.orphans) != 1 {
		t.Fatalf("expected the expired handle to be dropped and the live one kept, got %d entries", len(r.orphans))
	}
	if r.orphans[0].Value() != live {
		t.Fatalf("expected the remaining entry to be the still-live node")
	}
}

// TestPlaceCharacterConstructsLinkedAvm2Class exercises the AVM2
// construction-on-placement path: a PlaceCharacter tag naming an Avm2Class
// and Avm2Ctor should produce a placed node whose Avm2Object carries that
// class. The constructor used here has no observable effect, so the test
// does not check that it ran.
func TestPlaceCharacterConstructsLinkedAvm2Class(t *testing.T) {
	r := newTestRoot()
	node := display.NewNode(display.KindMovieClip)
	r.Stage.Adopt(node, 0)

	class := &value.Class{Name: "LinkedClip"}
	ctor := &avm2.Method{
		Body: []avm2.Op{
			{Code: avm2.OpGetLocal0},
			{Code: avm2.OpPushScope},
			{Code: avm2.OpReturnVoid},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}
	clip := NewClip(node, [][]FrameTag{
		{{PlaceCharacter: &PlaceCharacter{CharacterID: 1, Depth: 0, Avm2Class: class, Avm2Ctor: ctor}}},
	}, nil)
	r.AddClip(clip)

	if err := r.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	placed, ok := node.Children().At(0)
	if !ok {
		t.Fatalf("expected the character to be placed at depth 0")
	}
	if placed.Avm2Object == nil {
		t.Fatalf("expected an Avm2Object to be attached to the placed node")
	}
	if placed.Avm2Object.Class() != class {
		t.Fatalf("expected the placed node's Avm2Object to carry the linked class")
	}
}

// TestRunAvm2MethodReturnsInterpreterResult exercises Root.RunAvm2Method
// directly as the shared entry point every AVM2 call site funnels
// through.
func TestRunAvm2MethodReturnsInterpreterResult(t *testing.T) {
	r := newTestRoot()
	this := value.NewObject(true)

	m := &avm2.Method{
		Body: []avm2.Op{
			{Code: avm2.OpPushByte, Value: value.Int(4)},
			{Code: avm2.OpReturnValue},
		},
		MaxStack: 4, MaxLocals: 1, MaxScope: 4,
	}

	tok := r.Arena.Begin()
	ret, err := r.RunAvm2Method(tok, this, m, nil)
	if err != nil {
		t.Fatalf("RunAvm2Method: %v", err)
	}
	if ret.ToNumber() != 4 {
		t.Fatalf("expected 4, got %v", ret.ToNumber())
	}
}
