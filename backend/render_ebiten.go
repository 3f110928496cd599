// render_ebiten.go - Renderer implementation over ebiten, generalizing
// a prior video_backend_ebiten.go (EbitenOutput: a framebuffer-blit
// video chip sink) into a vector Command consumer: instead of blitting a
// raw pixel buffer, each Command draws a transformed primitive into the
// ebiten screen image every Draw callback.
package backend

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenRenderer implements Renderer by recording the latest committed
// command stream and replaying it from ebiten's Draw callback, the same
// split a prior implementation keeps between its audio/video producer goroutine and
// ebiten's own render loop via a mutex-guarded frameBuffer.
type EbitenRenderer struct {
	mu sync.Mutex
	bgColor color.NRGBA
	viewport Viewport
	pending []Command

	bitmaps map[int]*ebiten.Image
	shapes map[int]*ebiten.Image // pre-rasterized shape cache, keyed by handle

	screen *ebiten.Image
}

// NewEbitenRenderer creates a renderer with no window of its own; callers
// embed it in an ebiten.Game and call Layout/Draw as usual.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{
 bitmaps: make(map[int]*ebiten.Image),
 shapes: make(map[int]*ebiten.Image),
	}
}

// RegisterBitmap installs the GPU-side image for a library bitmap handle,
// called once when the library package decodes a Bitmap character.
func (r *EbitenRenderer) RegisterBitmap(handle int, img image.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bitmaps[handle] = ebiten.NewImageFromImage(img)
}

// BeginFrame records the background color and viewport for the next
// Submit/EndFrame pair.
func (r *EbitenRenderer) BeginFrame(bgColor [4]float64, vp Viewport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bgColor = color.NRGBA{
 R: uint8(bgColor[0] * 255), G: uint8(bgColor[1] * 255),
 B: uint8(bgColor[2] * 255), A: uint8(bgColor[3] * 255),
	}
	r.viewport = vp
	r.pending = r.pending[:0]
	return nil
}

// Submit queues commands for the next Draw call; EndFrame does nothing,
// so Draw replays everything submitted since the last BeginFrame,
// matching a prior "accumulate then blit once"
// pattern from EbitenOutput.Start's bufferMutex-guarded frameBuffer.
func (r *EbitenRenderer) Submit(cmds []Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, cmds...)
	return nil
}

func (r *EbitenRenderer) EndFrame() error { return nil }

// Draw replays the committed command stream onto screen; called by the
// embedding ebiten.Game's own Draw method every vsync tick.
func (r *EbitenRenderer) Draw(screen *ebiten.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	screen.Fill(r.bgColor)
	var maskDepth int
	for _, cmd := range r.pending {
 r.drawOne(screen, cmd, &maskDepth)
	}
}

func (r *EbitenRenderer) drawOne(screen *ebiten.Image, cmd Command, maskDepth *int) {
	switch cmd.Kind {
	case CmdPushMask, CmdActivateMask:
 *maskDepth++
	case CmdPopMask, CmdDeactivateMask:
 if *maskDepth > 0 {
 *maskDepth--
 }
	case CmdRenderBitmap:
 img, ok := r.bitmaps[cmd.BitmapHandle]
 if !ok {
 return
 }
 opts := &ebiten.DrawImageOptions{}
 opts.GeoM.SetElement(0, 0, cmd.Transform.A)
 opts.GeoM.SetElement(0, 1, cmd.Transform.C)
 opts.GeoM.SetElement(1, 0, cmd.Transform.B)
 opts.GeoM.SetElement(1, 1, cmd.Transform.D)
 opts.GeoM.SetElement(0, 2, cmd.Transform.Tx)
 opts.GeoM.SetElement(1, 2, cmd.Transform.Ty)
 opts.ColorScale.Scale(
 float32(cmd.Color.RedMul), float32(cmd.Color.GreenMul),
 float32(cmd.Color.BlueMul), float32(cmd.Color.AlphaMul))
 screen.DrawImage(img, opts)
	case CmdRenderShape:
 img, ok := r.shapes[cmd.ShapeHandle]
 if !ok {
 return
 }
 opts := &ebiten.DrawImageOptions{}
 opts.GeoM.SetElement(0, 0, cmd.Transform.A)
 opts.GeoM.SetElement(0, 1, cmd.Transform.C)
 opts.GeoM.SetElement(1, 0, cmd.Transform.B)
 opts.GeoM.SetElement(1, 1, cmd.Transform.D)
 opts.GeoM.SetElement(0, 2, cmd.Transform.Tx)
 opts.GeoM.SetElement(1, 2, cmd.Transform.Ty)
 screen.DrawImage(img, opts)
	case CmdBlendSubList:
 for _, sub := range cmd.SubList {
 r.drawOne(screen, sub, maskDepth)
 }
	}
}
