package fishing

import (
	"github.com/soocke/splash-bot-go/config"
	"github.com/soocke/splash-bot-go/domain/capture"
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// SplashEvidence reports how many pixels changed between two frames.
type SplashEvidence struct {
	Changed   int
	Threshold int
	Splash    bool
}

// SplashDetector counts pixels inside a region whose absolute difference
// between consecutive frames reaches DiffThreshold. A splash is a count
// strictly greater than CountThreshold. Stateless; safe for concurrent use.
type SplashDetector struct {
	DiffThreshold  int
	CountThreshold int
}

// NewSplashDetector returns a detector using the configured thresholds.
// A nil cfg uses the defaults.
func NewSplashDetector(cfg *config.Config) *SplashDetector {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := &SplashDetector{DiffThreshold: cfg.SplashDiffThreshold, CountThreshold: cfg.SplashPixelThreshold}
	if d.DiffThreshold <= 0 {
		d.DiffThreshold = config.DefaultSplashDiffThreshold
	}
	if d.CountThreshold < 0 {
		d.CountThreshold = config.DefaultSplashPixelThreshold
	}
	return d
}

// Detect compares prev and cur within r.
func (d *SplashDetector) Detect(prev, cur *capture.Frame, r capture.Region) (SplashEvidence, error) {
	if prev.Empty() || cur.Empty() {
		return SplashEvidence{}, boterrors.New(boterrors.KindDetection, "splash", "empty frame")
	}
	if prev.Width != cur.Width || prev.Height != cur.Height {
		return SplashEvidence{}, boterrors.New(boterrors.KindDetection, "splash", "frame dimensions differ").
			WithDims("prev", prev.Width, prev.Height).
			WithDims("cur", cur.Width, cur.Height)
	}
	if !r.In(cur.Width, cur.Height) {
		return SplashEvidence{}, boterrors.New(boterrors.KindDetection, "splash", "region outside frame").
			WithDims("frame", cur.Width, cur.Height).
			WithMetadata("region", r.Rect().String())
	}

	diff := d.DiffThreshold
	changed := 0
	w := cur.Width
	for y := r.Y; y < r.Y+r.H; y++ {
		p := prev.Pix[y*w+r.X : y*w+r.X+r.W]
		c := cur.Pix[y*w+r.X : y*w+r.X+r.W]
		for i := range c {
			delta := int(c[i]) - int(p[i])
			if delta < 0 {
				delta = -delta
			}
			if delta >= diff {
				changed++
			}
		}
	}
	return SplashEvidence{Changed: changed, Threshold: d.CountThreshold, Splash: changed > d.CountThreshold}, nil
}

var _ SplashDetectorContract = (*SplashDetector)(nil)
