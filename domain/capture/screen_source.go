package capture

import (
	"context"
	"image"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	kscreenshot "github.com/kbinani/screenshot"
	"github.com/vova616/screenshot"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

const captureStatsLogInterval = 5 * time.Second

// BoundsFunc reports the screen rectangle to capture. It is called on every
// capture so a moved window is followed.
type BoundsFunc func() (image.Rectangle, error)

// GrabFunc reads the pixels inside a screen rectangle.
type GrabFunc func(image.Rectangle) (*image.RGBA, error)

// ScreenSource captures grayscale frames of a screen rectangle.
type ScreenSource struct {
	bounds BoundsFunc
	grab   GrabFunc
	logger *slog.Logger

	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	lastCapture  atomic.Int64
	lastLog      atomic.Int64
}

// NewScreenSource constructs a source grabbing bounds() with vova616/screenshot.
func NewScreenSource(logger *slog.Logger, bounds BoundsFunc) *ScreenSource {
	return &ScreenSource{bounds: bounds, grab: screenshot.CaptureRect, logger: logger}
}

// WithGrabber replaces the pixel reader; used by tests and alternative backends.
func (s *ScreenSource) WithGrabber(g GrabFunc) *ScreenSource {
	s.grab = g
	return s
}

// DisplayBounds returns the bounds of display index i.
func DisplayBounds(i int) (image.Rectangle, error) {
	n := kscreenshot.NumActiveDisplays()
	if i < 0 || i >= n {
		return image.Rectangle{}, boterrors.Newf(boterrors.KindCapture, "display", "display %d not available", i).
			WithMetadata("displays", strconv.Itoa(n))
	}
	return kscreenshot.GetDisplayBounds(i), nil
}

// Capture grabs the current bounds and returns them as a grayscale frame
// whose Origin is the rectangle's top-left corner.
func (s *ScreenSource) Capture(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	r, err := s.bounds()
	if err != nil {
		s.failures.Add(1)
		return nil, boterrors.Wrap(err, boterrors.KindCapture, "capture", "resolve capture bounds")
	}
	if r.Empty() {
		s.failures.Add(1)
		return nil, boterrors.New(boterrors.KindCapture, "capture", "empty capture bounds").
			WithDims("bounds", r.Dx(), r.Dy())
	}
	img, err := s.grab(r)
	if err != nil {
		s.failures.Add(1)
		return nil, boterrors.Wrap(err, boterrors.KindCapture, "capture", "grab screen").
			WithDims("bounds", r.Dx(), r.Dy())
	}
	if img == nil {
		s.failures.Add(1)
		return nil, boterrors.New(boterrors.KindCapture, "capture", "grab returned no image")
	}

	f := FrameFromImage(img)
	now := time.Now()
	f.Seq = s.sequence.Add(1)
	f.CapturedAt = now
	f.Origin = r.Min

	s.captureNanos.Add(uint64(now.Sub(start).Nanoseconds()))
	s.captures.Add(1)
	s.lastCapture.Store(now.UnixNano())
	s.maybeLogStats(now)
	return f, nil
}

// Stats returns a snapshot of the capture counters.
func (s *ScreenSource) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(total / captures)
	}
	var last time.Time
	if ns := s.lastCapture.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return CaptureStats{
		Captures:    captures,
		Failures:    s.failures.Load(),
		AvgCapture:  avg,
		LastCapture: last,
		Sequence:    s.sequence.Load(),
	}
}

func (s *ScreenSource) maybeLogStats(now time.Time) {
	if s.logger == nil {
		return
	}
	prev := s.lastLog.Load()
	if now.UnixNano()-prev < int64(captureStatsLogInterval) || !s.lastLog.CompareAndSwap(prev, now.UnixNano()) {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture stats",
		"captures", stats.Captures,
		"failures", stats.Failures,
		"avg_capture", stats.AvgCapture,
	)
}
