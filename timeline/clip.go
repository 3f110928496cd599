// clip.go - Per-MovieClip timeline state: frame cursor, play/stop flag,
// depth->character placement, and queued frame scripts.
package timeline

import (
	"flashcore/avm1"
	"flashcore/avm2"
	"flashcore/display"
	"flashcore/value"
)

// FrameTag is one decoded timeline instruction for a single frame. The
// SWF tag parser that produces these is an external collaborator; this package only replays already-decoded tags.
type FrameTag struct {
	PlaceCharacter *PlaceCharacter
	RemoveAtDepth *int
	DoAction *avm1.Chunk
	FrameLabel string
}

// PlaceCharacter instructs the clip to adopt (or move) a character at a
// given depth on the current frame.
type PlaceCharacter struct {
	CharacterID int
	Depth int
	Matrix display.Matrix
	Name string
	Move bool // true = modify-in-place, false = fresh placement

	// Avm2Class, when non-nil, is the linked class whose constructor runs
	// once against the newly placed node's Avm2Object during the same
	// construct-frame phase an AVM1 PlaceObject's init actions run in
	//.
	Avm2Class *value.Class
	Avm2Ctor *avm2.Method
}

// Clip is the timeline-bearing wrapper around a display.Node of kind
// MovieClip. It implements avm1.ClipController so AVM1 activations can
// drive playback without this package's callers importing avm1.
type Clip struct {
	Node *display.Node

	Frames [][]FrameTag
	CurrentIdx int // 0-based; the documented "current frame" is CurrentIdx+1
	Playing bool
	Initialized bool

	labels map[string]int

	queued []QueuedScript
}

// QueuedScript is a DoAction tag replay deferred to the frame-scripts
// phase of the tick.
type QueuedScript struct {
	Target *Clip
	Code *avm1.Chunk
}

// NewClip wraps node as a playing timeline over frames, with the cursor on
// the first frame.
func NewClip(node *display.Node, frames [][]FrameTag, labels map[string]int) *Clip {
	return &Clip{Node: node, Frames: frames, labels: labels, Playing: true}
}

// TotalFrames reports the frame count (the documented MovieClip.totalFrames).
func (c *Clip) TotalFrames() int { return len(c.Frames) }

// CurrentFrame reports the 1-based frame number, matching the AVM-visible
// _currentframe property.
func (c *Clip) CurrentFrame() int { return c.CurrentIdx + 1 }

// GotoFrame implements avm1.ClipController: it moves the cursor to the
// 0-based frame index n, clamped to the clip's frames, and runs nothing.
// No placement or removal tags are replayed, neither for the frames
// skipped over nor for frame n itself; the next Tick advances a playing
// clip past n and constructs only the frame after it.
func (c *Clip) GotoFrame(n int) {
	if n < 0 {
 n = 0
	}
	if n >= len(c.Frames) {
 n = len(c.Frames) - 1
	}
	c.CurrentIdx = n
}

// Play implements avm1.ClipController.
func (c *Clip) Play() { c.Playing = true }

// Stop implements avm1.ClipController.
func (c *Clip) Stop() { c.Playing = false }

// CurrentTarget implements avm1.ClipController: it returns this clip's
// AVM1 scripting object, the target `this` for actions running on it.
func (c *Clip) CurrentTarget() *value.Object { return c.Node.Avm1Object }

// Resolve implements avm1.ClipController by walking named children, the
// same slash/dot path resolution AVM1's targetPath op relies on.
func (c *Clip) Resolve(path string) (*value.Object, bool) {
	if path == "" {
 return c.Node.Avm1Object, true
	}
	cur := c.Node
	start := 0
	for start < len(path) {
 end := start
 for end < len(path) && path[end] != '/' && path[end] != '.' {
 end++
 }
 name := path[start:end]
 var next *display.Node
 cur.Children().InOrder(func(_ int, child *display.Node) {
 if next == nil && child.Name == name {
 next = child
 }
 })
 if next == nil {
 return nil, false
 }
 cur = next
 start = end + 1
	}
	return cur.Avm1Object, true
}

// GotoLabel resolves a frame label into an index, per the %FrameLabel%
// tag stream emitted alongside PlaceCharacter tags.
func (c *Clip) GotoLabel(label string) (int, bool) {
	idx, ok := c.labels[label]
	return idx, ok
}
