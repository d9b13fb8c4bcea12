package app

import (
	"image"
	"log/slog"

	"github.com/soocke/splash-bot-go/config"
	"github.com/soocke/splash-bot-go/domain/action"
	"github.com/soocke/splash-bot-go/domain/capture"
	"github.com/soocke/splash-bot-go/domain/fishing"
)

// AppContainer assembles the long-lived services a bot session works with.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger

	Templates []*capture.Template
	Detector  *capture.Detector
	Source    *capture.ScreenSource
	Sink      *action.Sink
	Windows   *action.WindowManager
	// Window is the zero value when capturing a whole display.
	Window action.Window
	Cycle  *fishing.Cycle
}

// BuildContainer loads templates, resolves the capture target and constructs
// the cycle. Any failure here is a configuration or startup error.
func BuildContainer(cfg *config.Config, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}

	edges := capture.EdgeOptions{Low: cfg.EdgeLow, High: cfg.EdgeHigh, Aperture: cfg.EdgeAperture}
	templates, err := capture.LoadTemplates(cfg.TemplateDir, capture.TemplateOptions{
		Edges:  edges,
		Dedupe: cfg.DedupeTemplates,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	c.Templates = templates
	c.Detector = capture.NewDetector(logger, templates, edges, cfg.TemplateIndex, cfg.MatchAllTemplates)
	logger.Info("templates loaded", "count", len(templates), "dir", cfg.TemplateDir, "match_all", cfg.MatchAllTemplates)

	bounds, err := c.resolveBounds()
	if err != nil {
		return nil, err
	}
	c.Source = capture.NewScreenSource(logger, bounds)
	c.Sink = action.NewSink(logger, image.Pt(cfg.CursorOffsetX, cfg.CursorOffsetY))

	c.Cycle = fishing.NewCycle(logger, cfg, fishing.Env{
		Source:  c.Source,
		Actions: c.Sink,
		Locator: c.Detector,
	})
	return c, nil
}

func (c *AppContainer) resolveBounds() (capture.BoundsFunc, error) {
	c.Windows = action.NewWindowManager(c.Logger)
	if c.Config.WindowTitle == "" {
		r, err := capture.DisplayBounds(c.Config.Display)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("capturing display", "display", c.Config.Display, "bounds", r.String())
		return func() (image.Rectangle, error) { return r, nil }, nil
	}
	w, err := c.Windows.FindWindow(c.Config.WindowTitle)
	if err != nil {
		return nil, err
	}
	c.Window = w
	c.Logger.Info("capturing window", "title", w.Title, "pid", w.PID)
	return c.Windows.BoundsFunc(w), nil
}
