// player.go - Player::load/tick/input/run_frame_command,
// tying the value/avm1/avm2/display/timeline/events/library packages
// together per the §2 tick data flow, grounded in Ruffle's
// core/src/player.rs Player::run_frame / preload / handle_event, and in
// a prior main.go top-level tick loop shape (poll input, advance
// engine state by one step, hand a frame to the video backend).
package player

import (
	"fmt"
	"time"

	"flashcore/backend"
	"flashcore/display"
	"flashcore/events"
	"flashcore/library"
	"flashcore/timeline"
	"flashcore/value"
)

// MovieHeader is the minimal decoded-header information Player needs;
// the full tag stream itself stays behind the SWF parser collaborator
//.
type MovieHeader struct {
	FrameRate float64
	FrameCount int
	Width int
	Height int
	SwfVersion uint8
}

// Player is the top-level engine instance. One Player owns one Arena, one
// root timeline, and the backend handles a host wires in; nothing here
// is process-global.
type Player struct {
	cfg Config
	ctx *Context

	header MovieHeader

	frameAccumulator time.Duration
	frameInterval time.Duration

	stopped bool
	pendingIn []backend.InputEvent

	// focusTarget is the node keyboard/paste events dispatch to: the node
	// hit-tested under the most recent mouse event, approximating Flash's
	// click-to-focus behavior absent an explicit focus-manager model.
	focusTarget *display.Node
}

// NewPlayer creates an unloaded Player wired to the given backend
// handles; Load must be called before Tick does anything.
func NewPlayer(cfg Config, renderer backend.Renderer, audio backend.Audio, log backend.Log, storage backend.Storage, nav backend.Navigator, ui backend.UI, locale backend.Locale) *Player {
	arena := value.NewArena()
	lib := library.New()
	stage := display.NewNode(display.KindMovieClip)
	root := timeline.NewRoot(stage, arena)

	ctx := NewContext(arena, lib, root, stage, 1)
	ctx.Renderer = renderer
	ctx.Audio = audio
	ctx.Log = log
	ctx.Storage = storage
	ctx.Nav = nav
	ctx.UI = ui
	ctx.Locale = locale

	return &Player{cfg: cfg, ctx: ctx}
}

// Load parses header and registers the root movie; it does not run any
// code yet.
func (p *Player) Load(header MovieHeader, rootClip *timeline.Clip) {
	p.header = header
	if header.FrameRate <= 0 {
 header.FrameRate = 12
	}
	rate := header.FrameRate
	if p.cfg.FrameRateOverride > 0 {
 rate = p.cfg.FrameRateOverride
	}
	p.frameInterval = time.Duration(float64(time.Second) / rate)
	p.ctx.Root.AddClip(rootClip)
	p.ctx.Active = rootClip
}

// Input delivers a host input event (keyboard, mouse, focus), queued for
// dispatch before the next frame tick.
func (p *Player) Input(ev backend.InputEvent) {
	if ev.Kind == backend.InputPaste && ev.PasteUTF == "" {
 ev.PasteUTF = backend.ReadClipboardText()
	}
	p.pendingIn = append(p.pendingIn, ev)
}

// Tick advances time by elapsed and runs zero or more frames based on the
// frame-rate accumulator, matching "runs zero or more frames
// per tick based on frame rate accumulator".
func (p *Player) Tick(elapsed time.Duration) error {
	if p.ctx.Aborted {
 return nil
	}
	p.drainInput()

	p.frameAccumulator += elapsed
	ran := 0
	for p.frameAccumulator >= p.frameInterval {
 p.frameAccumulator -= p.frameInterval
 if p.stopped {
 break
 }
 if err := p.ctx.Root.Tick(); err != nil {
 return fmt.Errorf("player tick: %w", err)
 }
 if err := p.drainActions(); err != nil {
 return fmt.Errorf("player tick: %w", err)
 }
 ran++
 if ran > 1000 {
 // Runaway accumulator (e.g. host paused for a long time);
 // avoid an unbounded catch-up burst.
 p.frameAccumulator = 0
 break
 }
	}
	return p.render()
}

// drainInput dispatches every queued input event through the event
// registry before frame advance, matching the documented "delivered to
// dispatch before the next frame tick". Mouse-kind events re-resolve
// p.focusTarget via hit-testing the stage at the event's coordinates;
// keyboard and paste events, which carry no coordinates, dispatch to
// whatever mouse-kind event last set focusTarget (the stage itself until
// the first click).
func (p *Player) drainInput() {
	for _, ev := range p.pendingIn {
 p.dispatchInput(ev)
	}
	p.pendingIn = p.pendingIn[:0]
}

// dispatchInput resolves ev's target node and fires it through the root
// event registry under the real Flash/AS3 event name.
func (p *Player) dispatchInput(ev backend.InputEvent) {
	name, ok := inputEventName(ev.Kind)
	if !ok {
 return
	}

	target := p.focusTarget
	switch ev.Kind {
	case backend.InputMouseMove, backend.InputMouseDown, backend.InputMouseUp, backend.InputMouseWheel:
 hit := display.HitTest(p.ctx.Stage, ev.X, ev.Y)
 if hit == nil {
 hit = p.ctx.Stage
 }
 target = hit
 p.focusTarget = hit
	}
	if target == nil {
 target = p.ctx.Stage
	}

	p.ctx.Root.Events().Dispatch(&events.Event{Name: name, Target: target})
}

// inputEventName maps a backend.InputKind to the AS3-facing event name
// Dispatch fires, mirroring flash.events.KeyboardEvent/MouseEvent/
// FocusEvent/TextEvent's type strings.
func inputEventName(kind backend.InputKind) (string, bool) {
	switch kind {
	case backend.InputKeyDown:
 return "keyDown", true
	case backend.InputKeyUp:
 return "keyUp", true
	case backend.InputMouseMove:
 return "mouseMove", true
	case backend.InputMouseDown:
 return "mouseDown", true
	case backend.InputMouseUp:
 return "mouseUp", true
	case backend.InputMouseWheel:
 return "mouseWheel", true
	case backend.InputFocusIn:
 return "focusIn", true
	case backend.InputFocusOut:
 return "focusOut", true
	case backend.InputPaste:
 return "paste", true
	default:
 return "", false
	}
}

// drainActions runs every action a native method (e.g. `call`, the
// setTimeout-equivalent) enqueued mid-script during the just-completed
// frame, FIFO order. The timeline package's own Root.Tick
// already runs each clip's regular DoAction chunks; this drains
// Context.Actions, the queue those secondary entry points feed.
func (p *Player) drainActions() error {
	for _, a := range p.ctx.Actions.Drain() {
 if a.Code == nil || a.Target == nil {
 continue
 }
 p.ctx.Active = a.Target
 if err := p.ctx.Root.RunAction(a.Target, a.Code); err != nil {
 return err
 }
	}
	return nil
}

// render emits the end-of-tick command list to the renderer backend
//; the display package does not know
// about backend.Command, so this is where display state is flattened
// into the wire format the renderer consumes.
func (p *Player) render() error {
	if p.ctx.Renderer == nil {
 return nil
	}
	vp := backend.Viewport{Width: p.header.Width, Height: p.header.Height, Scale: 1}
	if err := p.ctx.Renderer.BeginFrame(p.ctx.BackgroundColor, vp); err != nil {
 return err
	}
	cmds := flattenTree(p.ctx.Stage, display.Identity)
	if err := p.ctx.Renderer.Submit(cmds); err != nil {
 return err
	}
	return p.ctx.Renderer.EndFrame()
}

// flattenTree walks the display tree depth-first in depth order, emitting
// one Command per visible, renderable node.
// parent is accumulated in display.Matrix space throughout the walk and
// only converted to backend.Matrix at the point a Command is emitted.
func flattenTree(n *display.Node, parent display.Matrix) []backend.Command {
	var cmds []backend.Command
	n.Children().InOrder(func(_ int, child *display.Node) {
 if !child.Visible {
 return
 }
 local := parent.Concat(child.Matrix)
 m := toBackendMatrix(local)
 switch child.Kind {
 case display.KindBitmap:
 cmds = append(cmds, backend.Command{
 Kind: backend.CmdRenderBitmap,
 Transform: m,
 BitmapHandle: child.CharacterID,
 })
 case display.KindShape:
 cmds = append(cmds, backend.Command{
 Kind: backend.CmdRenderShape,
 Transform: m,
 ShapeHandle: child.CharacterID,
 })
 }
 if child.ClipDepth != 0 {
 cmds = append(cmds, backend.Command{Kind: backend.CmdPushMask, Transform: m})
 cmds = append(cmds, flattenTree(child, local)...)
 cmds = append(cmds, backend.Command{Kind: backend.CmdPopMask})
 return
 }
 cmds = append(cmds, flattenTree(child, local)...)
	})
	return cmds
}

func toBackendMatrix(m display.Matrix) backend.Matrix {
	return backend.Matrix{A: m.A, B: m.B, C: m.C, D: m.D, Tx: m.Tx, Ty: m.Ty}
}

// Stop halts frame advancement without aborting the movie; matches
// debug.Target's "stop" inspector command.
func (p *Player) Stop() { p.stopped = true }

// Step advances exactly one frame regardless of the frame-rate
// accumulator, the debug.Target "step" command.
func (p *Player) Step() error {
	if err := p.ctx.Root.Tick(); err != nil {
 return err
	}
	if err := p.drainActions(); err != nil {
 return err
	}
	return p.render()
}

// InspectCharacter implements debug.Target: returns a human-readable
// description of a library character for the inspector's "inspect"
// command.
func (p *Player) InspectCharacter(id int) (string, bool) {
	c, ok := p.ctx.Library.Character(id)
	if !ok {
 return "", false
	}
	instances := p.ctx.Library.Instances(id)
	return fmt.Sprintf("character %d kind=%d instances=%d", c.ID, c.Kind, len(instances)), true
}

// ArenaStats implements debug.Target.
func (p *Player) ArenaStats() (allocated, freed, live uint64) {
	return p.ctx.Arena.Stats()
}

// RunFrameCommand implements debug/inspect command surface,
// dispatching to the corresponding Player method.
func (p *Player) RunFrameCommand(verb string, args []string) string {
	switch verb {
	case "stop":
 p.Stop()
 return "stopped"
	case "step":
 if err := p.Step(); err != nil {
 return "error: " + err.Error()
 }
 return "stepped"
	case "inspect":
 if len(args) < 1 {
 return "usage: inspect <character-id>"
 }
 var id int
 fmt.Sscanf(args[0], "%d", &id)
 desc, ok := p.InspectCharacter(id)
 if !ok {
 return fmt.Sprintf("no character %d", id)
 }
 return desc
	default:
 return "unknown command: " + verb
	}
}
