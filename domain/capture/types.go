package capture

import (
	"image"
	"time"

	"github.com/disintegration/gift"
)

// Frame is an 8-bit grayscale capture. Pix is row-major with stride Width.
// Frames are never mutated after construction; share them by pointer.
type Frame struct {
	Pix        []uint8
	Width      int
	Height     int
	Seq        uint64
	CapturedAt time.Time
	// Origin is the screen coordinate of the top-left pixel.
	Origin image.Point
}

// NewFrame allocates a zeroed frame.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Frame{Pix: make([]uint8, w*h), Width: w, Height: h}
}

// FrameFromGray copies a grayscale image into a new frame.
func FrameFromGray(img *image.Gray) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(f.Pix[y*f.Width:(y+1)*f.Width], img.Pix[off:off+f.Width])
	}
	return f
}

// FrameFromImage converts any image to a grayscale frame (BT.601 luma).
func FrameFromImage(img image.Image) *Frame {
	if g, ok := img.(*image.Gray); ok {
		return FrameFromGray(g)
	}
	g := gift.New(gift.Grayscale())
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return FrameFromGray(dst)
}

// At returns the sample at (x, y). No bounds check beyond the slice's own.
func (f *Frame) At(x, y int) uint8 { return f.Pix[y*f.Width+x] }

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool { return f == nil || f.Width <= 0 || f.Height <= 0 }

// Gray returns an image.Gray view sharing the frame's pixels. Callers must not write to it.
func (f *Frame) Gray() *image.Gray {
	return &image.Gray{Pix: f.Pix, Stride: f.Width, Rect: image.Rect(0, 0, f.Width, f.Height)}
}

// Region is an axis-aligned rectangle in frame coordinates.
type Region struct {
	X, Y, W, H int
}

// Center returns the integer center point of the region.
func (r Region) Center() image.Point { return image.Pt(r.X+r.W/2, r.Y+r.H/2) }

// In reports whether r is non-empty and fully inside a w x h frame.
func (r Region) In(w, h int) bool {
	return r.W > 0 && r.H > 0 && r.X >= 0 && r.Y >= 0 && r.X+r.W <= w && r.Y+r.H <= h
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle { return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H) }

// Template is a preprocessed edge map loaded once at startup.
type Template struct {
	Name  string
	Edges *Frame
}

// MatchResult is the best template position found in a frame.
type MatchResult struct {
	Region   Region
	Score    float64 // normalized correlation in [-1, 1]
	Template string
}
