package library

import (
	"image"
	"testing"
)

func TestNewBitmapHandleFill(t *testing.T) {
	h := NewBitmapHandle(4, 4, 0xFFFF0000) // opaque red
	r, g, b, a := h.Img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 || a>>8 != 255 {
		t.Fatalf("expected opaque red pixel, got r=%d g=%d b=%d a=%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestBitmapHandleFillRect(t *testing.T) {
	h := NewBitmapHandle(4, 4, 0x00000000)
	h.FillRect(image.Rect(1, 1, 3, 3), 0xFF00FF00) // opaque green
	r, g, _, a := h.Img.At(1, 1).RGBA()
	if r>>8 != 0 || g>>8 != 255 || a>>8 != 255 {
		t.Fatalf("expected opaque green at (1,1), got r=%d g=%d a=%d", r>>8, g>>8, a>>8)
	}
	r, _, _, a = h.Img.At(0, 0).RGBA()
	if a>>8 != 0 {
		t.Fatalf("expected untouched transparent pixel outside rect")
	}
}

func TestBitmapHandleCopyPixelsDisposedAlphaSkipsAlphaPath(t *testing.T) {
	src := NewBitmapHandle(2, 2, 0xFF0000FF) // opaque blue
	dst := NewBitmapHandle(2, 2, 0x00000000)
	alpha := NewBitmapHandle(2, 2, 0xFFFFFFFF)
	alpha.Dispose()

	dst.CopyPixels(src, src.Img.Bounds(), image.Point{}, alpha, image.Point{}, true)

	_, _, b, a := dst.Img.At(0, 0).RGBA()
	if b>>8 != 255 || a>>8 != 255 {
		t.Fatalf("expected plain copy path applied despite disposed alpha source, got b=%d a=%d", b>>8, a>>8)
	}
}
