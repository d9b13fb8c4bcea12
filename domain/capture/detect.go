package capture

import (
	"log/slog"
	"strconv"
	"time"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// Detector finds the bobber in a raw grayscale frame: edge filtering followed
// by template localization.
type Detector struct {
	Templates []*Template
	Edges     EdgeOptions
	// Index selects the designated template when MatchAll is false.
	Index    int
	MatchAll bool

	locator *Locator
	logger  *slog.Logger
}

// NewDetector constructs a detector over a loaded template set.
func NewDetector(logger *slog.Logger, templates []*Template, edges EdgeOptions, index int, matchAll bool) *Detector {
	return &Detector{
		Templates: templates,
		Edges:     edges,
		Index:     index,
		MatchAll:  matchAll,
		locator:   NewLocator(len(templates)),
		logger:    logger,
	}
}

// Detect edge-filters frame and locates the template in it. The returned
// region is in frame coordinates.
func (d *Detector) Detect(frame *Frame) (MatchResult, error) {
	if len(d.Templates) == 0 {
		return MatchResult{}, boterrors.New(boterrors.KindDetection, "detect", "empty template set")
	}
	start := time.Now()
	edges, err := EdgeFilter(frame, d.Edges)
	if err != nil {
		return MatchResult{}, err
	}
	if d.locator == nil {
		d.locator = NewLocator(len(d.Templates))
	}

	var res MatchResult
	if d.MatchAll {
		res, err = d.locator.LocateBest(edges, d.Templates)
	} else {
		idx := d.Index
		if idx < 0 || idx >= len(d.Templates) {
			return MatchResult{}, boterrors.Newf(boterrors.KindDetection, "detect", "template index %d out of range", idx).
				WithMetadata("templates", strconv.Itoa(len(d.Templates)))
		}
		res, err = d.locator.Locate(edges, d.Templates[idx])
	}
	if err != nil {
		return MatchResult{}, err
	}
	if d.logger != nil {
		d.logger.Debug("bobber located",
			"template", res.Template,
			"x", res.Region.X, "y", res.Region.Y,
			"score", res.Score,
			"seq", frame.Seq,
			"elapsed", time.Since(start),
		)
	}
	return res, nil
}
