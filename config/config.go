package config

import (
	"encoding/json"
	"os"
	"time"
)

// DelayRange is an inclusive millisecond range for a randomized wait.
type DelayRange struct {
	MinMs int `json:"min_ms"`
	MaxMs int `json:"max_ms"`
}

// Bounds returns the range as durations.
func (r DelayRange) Bounds() (time.Duration, time.Duration) {
	return time.Duration(r.MinMs) * time.Millisecond, time.Duration(r.MaxMs) * time.Millisecond
}

// normalize clamps negatives and swaps inverted bounds.
func (r DelayRange) normalize(def DelayRange) DelayRange {
	if r.MinMs < 0 || r.MaxMs < 0 || (r.MinMs == 0 && r.MaxMs == 0) {
		return def
	}
	if r.MaxMs < r.MinMs {
		r.MinMs, r.MaxMs = r.MaxMs, r.MinMs
	}
	return r
}

// Config holds runtime configuration for detection, timing and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`
	UI    bool `json:"ui"`

	// Target window. An empty title captures Display instead.
	WindowTitle    string `json:"window_title"`
	Display        int    `json:"display"`
	ActivateWindow bool   `json:"activate_window"`
	FocusTimeoutMs int    `json:"focus_timeout_ms"`
	StartupDelayMs int    `json:"startup_delay_ms"`

	// Templates
	TemplateDir       string `json:"template_dir"`
	TemplateIndex     int    `json:"template_index"`
	MatchAllTemplates bool   `json:"match_all_templates"`
	DedupeTemplates   bool   `json:"dedupe_templates"`

	// Edge extraction
	EdgeLow      float64 `json:"edge_low"`
	EdgeHigh     float64 `json:"edge_high"`
	EdgeAperture int     `json:"edge_aperture"`

	// Splash detection
	SplashDiffThreshold  int `json:"splash_diff_threshold"`
	SplashPixelThreshold int `json:"splash_pixel_threshold"`

	// Input
	CursorOffsetX int    `json:"cursor_offset_x"`
	CursorOffsetY int    `json:"cursor_offset_y"`
	CastKey       string `json:"cast_key"`
	ReactButton   string `json:"react_button"`

	// Randomized waits
	CastHold   DelayRange `json:"cast_hold"`
	Settle     DelayRange `json:"settle"`
	AimSettle  DelayRange `json:"aim_settle"`
	ReactDelay DelayRange `json:"react_delay"`
	ReactHold  DelayRange `json:"react_hold"`
	Rest       DelayRange `json:"rest"`

	// Fixed timing
	PollIntervalMs  int `json:"poll_interval_ms"`
	SplashTimeoutMs int `json:"splash_timeout_ms"`
	StepTimeoutMs   int `json:"step_timeout_ms"`

	// Capture retry
	CaptureRetries     int `json:"capture_retries"`
	CaptureRetryBaseMs int `json:"capture_retry_base_ms"`
	CaptureRetryMaxMs  int `json:"capture_retry_max_ms"`

	// MaxCycles stops the bot after that many cycles; 0 runs until cancelled.
	MaxCycles int `json:"max_cycles"`
}

// Defaults mirrored by DefaultConfig and used by Validate when clamping.
var (
	DefaultCastHold   = DelayRange{MinMs: 150, MaxMs: 350}
	DefaultSettle     = DelayRange{MinMs: 1800, MaxMs: 2200}
	DefaultAimSettle  = DelayRange{MinMs: 400, MaxMs: 600}
	DefaultReactDelay = DelayRange{MinMs: 50, MaxMs: 189}
	DefaultReactHold  = DelayRange{MinMs: 184, MaxMs: 483}
	DefaultRest       = DelayRange{MinMs: 684, MaxMs: 4833}
)

const (
	DefaultWindowTitle          = "World of Warcraft"
	DefaultTemplateDir          = "./template"
	DefaultEdgeLow              = 50
	DefaultEdgeHigh             = 100
	DefaultEdgeAperture         = 3
	DefaultSplashDiffThreshold  = 50
	DefaultSplashPixelThreshold = 250
	DefaultCursorOffsetY        = 69 // window decoration height on GNOME
	DefaultCastKey              = "f4"
	DefaultReactButton          = "right"
	DefaultPollIntervalMs       = 50
	DefaultSplashTimeoutMs      = 29000
	DefaultStepTimeoutMs        = 5000
	DefaultFocusTimeoutMs       = 10000
	DefaultStartupDelayMs       = 1000
	DefaultCaptureRetries       = 3
	DefaultCaptureRetryBaseMs   = 100
	DefaultCaptureRetryMaxMs    = 2000
)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                false,
		WindowTitle:          DefaultWindowTitle,
		Display:              0,
		ActivateWindow:       true,
		FocusTimeoutMs:       DefaultFocusTimeoutMs,
		StartupDelayMs:       DefaultStartupDelayMs,
		TemplateDir:          DefaultTemplateDir,
		TemplateIndex:        0,
		MatchAllTemplates:    false,
		DedupeTemplates:      false,
		EdgeLow:              DefaultEdgeLow,
		EdgeHigh:             DefaultEdgeHigh,
		EdgeAperture:         DefaultEdgeAperture,
		SplashDiffThreshold:  DefaultSplashDiffThreshold,
		SplashPixelThreshold: DefaultSplashPixelThreshold,
		CursorOffsetX:        0,
		CursorOffsetY:        DefaultCursorOffsetY,
		CastKey:              DefaultCastKey,
		ReactButton:          DefaultReactButton,
		CastHold:             DefaultCastHold,
		Settle:               DefaultSettle,
		AimSettle:            DefaultAimSettle,
		ReactDelay:           DefaultReactDelay,
		ReactHold:            DefaultReactHold,
		Rest:                 DefaultRest,
		PollIntervalMs:       DefaultPollIntervalMs,
		SplashTimeoutMs:      DefaultSplashTimeoutMs,
		StepTimeoutMs:        DefaultStepTimeoutMs,
		CaptureRetries:       DefaultCaptureRetries,
		CaptureRetryBaseMs:   DefaultCaptureRetryBaseMs,
		CaptureRetryMaxMs:    DefaultCaptureRetryMaxMs,
		MaxCycles:            0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.Display < 0 {
		c.Display = 0
	}
	if c.FocusTimeoutMs < 0 {
		c.FocusTimeoutMs = DefaultFocusTimeoutMs
	}
	if c.StartupDelayMs < 0 {
		c.StartupDelayMs = 0
	}
	if c.TemplateDir == "" {
		c.TemplateDir = DefaultTemplateDir
	}
	if c.TemplateIndex < 0 {
		c.TemplateIndex = 0
	}
	if c.EdgeLow <= 0 {
		c.EdgeLow = DefaultEdgeLow
	}
	if c.EdgeHigh <= 0 {
		c.EdgeHigh = DefaultEdgeHigh
	}
	if c.EdgeLow > c.EdgeHigh {
		c.EdgeLow, c.EdgeHigh = c.EdgeHigh, c.EdgeLow
	}
	switch c.EdgeAperture {
	case 3, 5, 7:
	default:
		c.EdgeAperture = DefaultEdgeAperture
	}
	if c.SplashDiffThreshold <= 0 || c.SplashDiffThreshold > 255 {
		c.SplashDiffThreshold = DefaultSplashDiffThreshold
	}
	if c.SplashPixelThreshold < 0 {
		c.SplashPixelThreshold = DefaultSplashPixelThreshold
	}
	if c.CastKey == "" {
		c.CastKey = DefaultCastKey
	}
	if c.ReactButton == "" {
		c.ReactButton = DefaultReactButton
	}
	c.CastHold = c.CastHold.normalize(DefaultCastHold)
	c.Settle = c.Settle.normalize(DefaultSettle)
	c.AimSettle = c.AimSettle.normalize(DefaultAimSettle)
	c.ReactDelay = c.ReactDelay.normalize(DefaultReactDelay)
	c.ReactHold = c.ReactHold.normalize(DefaultReactHold)
	c.Rest = c.Rest.normalize(DefaultRest)
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = DefaultPollIntervalMs
	}
	if c.SplashTimeoutMs <= 0 {
		c.SplashTimeoutMs = DefaultSplashTimeoutMs
	}
	if c.StepTimeoutMs <= 0 {
		c.StepTimeoutMs = DefaultStepTimeoutMs
	}
	if c.CaptureRetries < 0 {
		c.CaptureRetries = 0
	}
	if c.CaptureRetryBaseMs <= 0 {
		c.CaptureRetryBaseMs = DefaultCaptureRetryBaseMs
	}
	if c.CaptureRetryMaxMs < c.CaptureRetryBaseMs {
		c.CaptureRetryMaxMs = c.CaptureRetryBaseMs
	}
	if c.MaxCycles < 0 {
		c.MaxCycles = 0
	}
	return nil
}

// PollInterval returns the splash sampling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// SplashTimeout returns the maximum wait for a splash after aiming.
func (c *Config) SplashTimeout() time.Duration {
	return time.Duration(c.SplashTimeoutMs) * time.Millisecond
}

// StepTimeout bounds a single capture or input call.
func (c *Config) StepTimeout() time.Duration {
	return time.Duration(c.StepTimeoutMs) * time.Millisecond
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
