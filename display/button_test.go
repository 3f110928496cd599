package display

import "testing"

func TestButtonControllerStateSwitchVisibility(t *testing.T) {
	root := NewNode(KindButton)
	records := []ButtonRecord{
		{CharacterID: 1, Depth: 1, States: []ButtonState{ButtonUp}},
		{CharacterID: 2, Depth: 1, States: []ButtonState{ButtonOver}},
		{CharacterID: 3, Depth: 1, States: []ButtonState{ButtonHitTest}},
	}
	made := map[int]*Node{}
	ctrl := NewButtonController(root, records, func(id int) *Node {
		n := NewNode(KindShape)
		made[id] = n
		return n
	})

	ctrl.SetState(ButtonUp)
	if !made[1].Visible {
		t.Fatalf("expected Up character visible in Up state")
	}
	if made[3].Visible {
		t.Fatalf("HitTest character must never be visible")
	}

	ctrl.SetState(ButtonOver)
	if made[1].Visible {
		t.Fatalf("expected Up character hidden after transition to Over")
	}
	if !made[2].Visible {
		t.Fatalf("expected Over character visible in Over state")
	}

	hits := ctrl.HitTestShapes()
	if len(hits) != 1 || hits[0] != made[3] {
		t.Fatalf("expected exactly the HitTest character from HitTestShapes")
	}
}

func TestButtonControllerLazyPlacement(t *testing.T) {
	root := NewNode(KindButton)
	calls := 0
	ctrl := NewButtonController(root, []ButtonRecord{
		{CharacterID: 1, Depth: 1, States: []ButtonState{ButtonDown}},
	}, func(id int) *Node {
		calls++
		return NewNode(KindShape)
	})

	ctrl.SetState(ButtonUp)
	if calls != 0 {
		t.Fatalf("expected no instantiation until Down state is entered, got %d calls", calls)
	}
	ctrl.SetState(ButtonDown)
	if calls != 1 {
		t.Fatalf("expected exactly one instantiation on first entry to Down, got %d", calls)
	}
	ctrl.SetState(ButtonUp)
	ctrl.SetState(ButtonDown)
	if calls != 1 {
		t.Fatalf("expected no re-instantiation on re-entry to Down, got %d calls", calls)
	}
}
