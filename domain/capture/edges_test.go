package capture

import (
	"bytes"
	"testing"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// synthGray builds a w x h frame and fills it with fn(x, y).
func synthGray(w, h int, fn func(x, y int) uint8) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Pix[y*w+x] = fn(x, y)
		}
	}
	return f
}

func stepEdge(x, _ int) uint8 {
	if x < 10 {
		return 0
	}
	return 200
}

func TestEdgeFilter_UniformHasNoEdges(t *testing.T) {
	f := synthGray(32, 24, func(int, int) uint8 { return 117 })
	out, err := EdgeFilter(f, DefaultEdgeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out.Pix {
		if v != 0 {
			t.Fatalf("expected no edges, got %d at index %d", v, i)
		}
	}
}

func TestEdgeFilter_StepEdgeSingleColumn(t *testing.T) {
	f := synthGray(20, 20, stepEdge)
	for _, ap := range []int{3, 5, 7} {
		out, err := EdgeFilter(f, EdgeOptions{Low: 50, High: 100, Aperture: ap})
		if err != nil {
			t.Fatalf("aperture %d: unexpected error: %v", ap, err)
		}
		if out.Width != f.Width || out.Height != f.Height {
			t.Fatalf("aperture %d: size changed to %dx%d", ap, out.Width, out.Height)
		}
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				want := uint8(0)
				if x == 9 {
					want = 255
				}
				if got := out.At(x, y); got != want {
					t.Fatalf("aperture %d: pixel (%d,%d)=%d want %d", ap, x, y, got, want)
				}
			}
		}
	}
}

func TestEdgeFilter_Deterministic(t *testing.T) {
	f := synthGray(64, 48, func(x, y int) uint8 { return uint8((x*37 + y*91 + x*y*13) % 251) })
	a, err := EdgeFilter(f, DefaultEdgeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := EdgeFilter(f, DefaultEdgeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("edge output differs between runs")
	}
	for _, v := range a.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("edge map must be binary, got %d", v)
		}
	}
}

func TestEdgeFilter_KeepsFrameMetadata(t *testing.T) {
	f := synthGray(20, 20, stepEdge)
	f.Seq = 42
	f.Origin.X, f.Origin.Y = 100, 200
	out, err := EdgeFilter(f, DefaultEdgeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Seq != 42 || out.Origin != f.Origin {
		t.Fatalf("metadata lost: seq=%d origin=%v", out.Seq, out.Origin)
	}
}

func TestEdgeFilter_SwapsInvertedThresholds(t *testing.T) {
	f := synthGray(20, 20, stepEdge)
	a, _ := EdgeFilter(f, EdgeOptions{Low: 50, High: 100, Aperture: 3})
	b, err := EdgeFilter(f, EdgeOptions{Low: 100, High: 50, Aperture: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("inverted thresholds should behave like swapped ones")
	}
}

func TestEdgeFilter_RejectsBadInput(t *testing.T) {
	f := synthGray(8, 8, stepEdge)
	if _, err := EdgeFilter(f, EdgeOptions{Low: 50, High: 100, Aperture: 4}); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error for aperture 4, got %v", err)
	}
	if _, err := EdgeFilter(NewFrame(0, 0), DefaultEdgeOptions()); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error for empty frame, got %v", err)
	}
}
