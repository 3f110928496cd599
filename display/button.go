// button.go - Button state machine, grounded in the same depth-indexed
// DepthList structure a MovieClip uses for its own children, since a
// Button's character set is really four named depth-states rendered
// through the same tree-walking code path.
package display

// ButtonState is one of the four SWF button states. Characters placed
// under HitTest never render; they only define the click-sensitive area.
type ButtonState uint8

const (
	ButtonUp ButtonState = iota
	ButtonOver
	ButtonDown
	ButtonHitTest
)

// ButtonRecord places one character under one (or more) button states at
// a given depth, mirroring the SWF DefineButton2 character record.
type ButtonRecord struct {
	CharacterID int
	Depth int
	Matrix Matrix
	States []ButtonState
}

// ButtonController tracks a Button node's current visual state and swaps
// its visible children accordingly. It does not itself decide state
// transitions (that is driven by mouse hit-testing and focus events at
// the player level); it only applies a requested transition to the
// display tree.
type ButtonController struct {
	Node *Node
	Records []ButtonRecord

	current ButtonState
	// built records which states have had their children instantiated;
	// each state is built lazily the first time it is entered so button
	// characters are not all constructed up front.
	built map[ButtonState]bool

	instantiate func(characterID int) *Node
}

// NewButtonController wires a fresh controller. instantiate constructs a
// detached Node for a character id, the same factory shape the timeline
// package's constructFrame uses when replaying PlaceCharacter tags.
func NewButtonController(node *Node, records []ButtonRecord, instantiate func(characterID int) *Node) *ButtonController {
	return &ButtonController{
 Node: node,
 Records: records,
 built: make(map[ButtonState]bool),
 instantiate: instantiate,
 current: ButtonUp,
	}
}

// State reports the controller's current visual state.
func (b *ButtonController) State() ButtonState { return b.current }

// SetState transitions to state, lazily placing that state's characters
// and hiding every other state's children. HitTest-state children are
// never made visible; they exist only for HitTestShapes to consult. The
// first call also places the HitTest-state characters, whatever state is
// requested, so HitTestShapes has them from then on.
func (b *ButtonController) SetState(state ButtonState) {
	if !b.built[ButtonHitTest] {
 b.place(ButtonHitTest)
 b.built[ButtonHitTest] = true
	}
	if state == b.current && b.built[state] {
 return
	}
	if !b.built[state] {
 b.place(state)
 b.built[state] = true
	}
	b.current = state
	b.applyVisibility()
}

func (b *ButtonController) place(state ButtonState) {
	for _, rec := range b.Records {
 if !hasState(rec.States, state) {
 continue
 }
 child := b.instantiate(rec.CharacterID)
 if child == nil {
 continue
 }
 child.Matrix = rec.Matrix
 child.stateTag = state
 b.Node.Adopt(child, stateDepthOffset(state)+rec.Depth)
	}
}

func (b *ButtonController) applyVisibility() {
	b.Node.Children().InOrder(func(_ int, child *Node) {
 child.Visible = child.stateTag == b.current && child.stateTag != ButtonHitTest
	})
}

// HitTestShapes returns every HitTest-state child's hit shape, in its own
// local space, for the player's mouse-hit-testing pass to consult
// regardless of which visual state is currently showing.
func (b *ButtonController) HitTestShapes() []*Node {
	var out []*Node
	b.Node.Children().InOrder(func(_ int, child *Node) {
 if child.stateTag == ButtonHitTest {
 out = append(out, child)
 }
	})
	return out
}

func hasState(states []ButtonState, want ButtonState) bool {
	for _, s := range states {
 if s == want {
 return true
 }
	}
	return false
}

// stateDepthOffset keeps each state's placed children in a disjoint depth
// band so swapping states never collides with another state's depth
// slots in the shared DepthList.
func stateDepthOffset(s ButtonState) int {
	return int(s) * 1_000_000
}
