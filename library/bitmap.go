// bitmap.go - BitmapData pixel operations, implementing the
// NativeBitmapData discriminant of value.Object using
// golang.org/x/image/draw for scaled/composited blits, the same library
// a prior implementation pulls in transitively through ebiten but never imports
// directly — this is its first direct use in the module (see
// SPEC_FULL.md's DOMAIN STACK table).
package library

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// BitmapHandle is the engine-side pixel buffer a NativeBitmapData object
// wraps. Disposed records whether this bitmap has been disposed;
// CopyPixels checks it on the bitmap passed as its alpha source.
type BitmapHandle struct {
	Img *image.NRGBA
	Disposed bool
}

// NewBitmapHandle allocates a width x height bitmap filled with fill.
// leaves open whether the documented default fill
// (0xFFFFFFFF) should read as opaque white or a transparency-masked
// value; this implementation preserves Ruffle's resolution: the raw
// 0xFFFFFFFF is interpreted as straight ARGB (opaque white), not
// alpha-zeroed, since that is the behavior callers have shipped against.
func NewBitmapHandle(width, height int, fill uint32) *BitmapHandle {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	a := uint8(fill >> 24)
	r := uint8(fill >> 16)
	g := uint8(fill >> 8)
	b := uint8(fill)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{R: r, G: g, B: b, A: a}}, image.Point{}, draw.Src)
	return &BitmapHandle{Img: img}
}

// FillRect sets every pixel in rect to fill (BitmapData.fillRect).
func (h *BitmapHandle) FillRect(rect image.Rectangle, fill uint32) {
	r := rect.Intersect(h.Img.Bounds())
	if r.Empty() {
 return
	}
	a := uint8(fill >> 24)
	rr := uint8(fill >> 16)
	g := uint8(fill >> 8)
	b := uint8(fill)
	draw.Draw(h.Img, r, &image.Uniform{C: color.NRGBA{R: rr, G: g, B: b, A: a}}, image.Point{}, draw.Src)
}

// CopyPixels copies srcRect from src into this bitmap at destPoint,
// optionally compositing alphaSource's channel as a merge alpha
// (BitmapData.copyPixels' alphaBitmap/alphaPoint overload).
//
// Per open question, if alphaSource is disposed this method
// silently skips the alpha-source application rather than erroring, and
// otherwise proceeds with the plain copy — preserving the documented "it
// doesn't error out but also doesn't take the regular path" behavior.
func (h *BitmapHandle) CopyPixels(src *BitmapHandle, srcRect image.Rectangle, destPoint image.Point, alphaSource *BitmapHandle, alphaPoint image.Point, mergeAlpha bool) {
	srcRect = srcRect.Intersect(src.Img.Bounds())
	if srcRect.Empty() {
 return
	}
	dstRect := image.Rectangle{Min: destPoint, Max: destPoint.Add(srcRect.Size())}

	if mergeAlpha && alphaSource != nil && !alphaSource.Disposed {
 composed := image.NewNRGBA(srcRect.Size())
 xdraw.Draw(composed, composed.Bounds(), src.Img, srcRect.Min, xdraw.Src)
 applyAlphaChannel(composed, alphaSource.Img, alphaPoint)
 xdraw.Draw(h.Img, dstRect, composed, image.Point{}, xdraw.Over)
 return
	}

	// alphaSource nil or disposed: skip alpha application, take the plain
	// copy path (the documented ambiguous behavior).
	xdraw.Draw(h.Img, dstRect, src.Img, srcRect.Min, xdraw.Src)
}

func applyAlphaChannel(dst *image.NRGBA, alphaSrc *image.NRGBA, alphaPoint image.Point) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
 for x := b.Min.X; x < b.Max.X; x++ {
 ap := alphaPoint.Add(image.Pt(x-b.Min.X, y-b.Min.Y))
 if !ap.In(alphaSrc.Bounds()) {
 continue
 }
 _, _, _, a := alphaSrc.At(ap.X, ap.Y).RGBA()
 off := dst.PixOffset(x, y)
 dst.Pix[off+3] = uint8(a >> 8)
 }
	}
}

// Dispose marks the handle disposed; future CopyPixels calls referencing
// it as an alpha source take the skip-alpha path.
func (h *BitmapHandle) Dispose() { h.Disposed = true }

// ScaleTo returns a new handle containing src resized to width x height
// with the Catmull-Rom resampler. Nothing else in the module calls it.
func ScaleTo(src *BitmapHandle, width, height int) *BitmapHandle {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src.Img, src.Img.Bounds(), xdraw.Over, nil)
	return &BitmapHandle{Img: dst}
}
