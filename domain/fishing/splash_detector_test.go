package fishing

import (
	"testing"

	"github.com/soocke/splash-bot-go/config"
	"github.com/soocke/splash-bot-go/domain/capture"
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// synthFrame creates a uniform frame and applies an optional mutate func.
func synthFrame(w, h int, base uint8, mutate func(f *capture.Frame)) *capture.Frame {
	f := capture.NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = base
	}
	if mutate != nil {
		mutate(f)
	}
	return f
}

// setPixels overwrites the first n pixels of r (row-major) with v.
func setPixels(f *capture.Frame, r capture.Region, n int, v uint8) {
	for y := r.Y; y < r.Y+r.H && n > 0; y++ {
		for x := r.X; x < r.X+r.W && n > 0; x++ {
			f.Pix[y*f.Width+x] = v
			n--
		}
	}
}

func TestSplashDetector_IdenticalFrames(t *testing.T) {
	d := NewSplashDetector(nil)
	f := synthFrame(40, 40, 90, nil)
	ev, err := d.Detect(f, f, capture.Region{X: 5, Y: 5, W: 30, H: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Changed != 0 || ev.Splash {
		t.Fatalf("expected no change, got %+v", ev)
	}
}

func TestSplashDetector_FlippedRegion(t *testing.T) {
	d := NewSplashDetector(nil)
	r := capture.Region{X: 2, Y: 3, W: 20, H: 20}
	prev := synthFrame(40, 40, 0, nil)
	cur := synthFrame(40, 40, 0, func(f *capture.Frame) { setPixels(f, r, r.W*r.H, 255) })
	ev, err := d.Detect(prev, cur, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Changed < r.W*r.H || !ev.Splash {
		t.Fatalf("expected full region change and splash, got %+v", ev)
	}
}

func TestSplashDetector_CountBoundary(t *testing.T) {
	d := NewSplashDetector(nil)
	r := capture.Region{X: 0, Y: 0, W: 30, H: 30}
	prev := synthFrame(30, 30, 100, nil)

	cur := synthFrame(30, 30, 100, func(f *capture.Frame) { setPixels(f, r, 250, 200) })
	ev, err := d.Detect(prev, cur, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Changed != 250 || ev.Splash {
		t.Fatalf("250 changed pixels must not be a splash, got %+v", ev)
	}

	cur = synthFrame(30, 30, 100, func(f *capture.Frame) { setPixels(f, r, 251, 200) })
	ev, err = d.Detect(prev, cur, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Changed != 251 || !ev.Splash {
		t.Fatalf("251 changed pixels must be a splash, got %+v", ev)
	}
}

func TestSplashDetector_DiffThresholdInclusive(t *testing.T) {
	d := NewSplashDetector(nil)
	r := capture.Region{X: 0, Y: 0, W: 10, H: 10}
	prev := synthFrame(10, 10, 100, nil)
	at := synthFrame(10, 10, 100+config.DefaultSplashDiffThreshold, nil)
	below := synthFrame(10, 10, 100-config.DefaultSplashDiffThreshold+1, nil)

	ev, _ := d.Detect(prev, at, r)
	if ev.Changed != 100 {
		t.Fatalf("difference equal to threshold must count, got %d", ev.Changed)
	}
	ev, _ = d.Detect(prev, below, r)
	if ev.Changed != 0 {
		t.Fatalf("difference below threshold must not count, got %d", ev.Changed)
	}
}

func TestSplashDetector_OnlyCountsInsideRegion(t *testing.T) {
	d := NewSplashDetector(nil)
	prev := synthFrame(40, 40, 0, nil)
	cur := synthFrame(40, 40, 255, nil)
	ev, err := d.Detect(prev, cur, capture.Region{X: 10, Y: 10, W: 5, H: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Changed != 20 {
		t.Fatalf("expected 20 changed pixels, got %d", ev.Changed)
	}
}

func TestSplashDetector_Preconditions(t *testing.T) {
	d := NewSplashDetector(nil)
	a := synthFrame(40, 40, 0, nil)
	b := synthFrame(40, 30, 0, nil)
	if _, err := d.Detect(a, b, capture.Region{W: 10, H: 10}); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error for mismatched dims, got %v", err)
	}
	if _, err := d.Detect(a, a, capture.Region{X: 35, Y: 0, W: 10, H: 10}); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error for region outside frame, got %v", err)
	}
	if _, err := d.Detect(nil, a, capture.Region{W: 1, H: 1}); !boterrors.IsKind(err, boterrors.KindDetection) {
		t.Fatalf("expected detection error for nil frame, got %v", err)
	}
}
