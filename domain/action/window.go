package action

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/soocke/splash-bot-go/domain/capture"
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// ErrWindowNotFound is returned when no window carries the requested title.
var ErrWindowNotFound = errors.New("window not found")

// Window identifies a top-level window by its owning process.
type Window struct {
	PID   int
	Title string
}

type windowBackend interface {
	Pids() ([]int, error)
	Title(pid int) string
	Activate(pid int) error
	Bounds(pid int) (x, y, w, h int)
}

type robotgoWindows struct{}

func (robotgoWindows) Pids() ([]int, error)   { return robotgo.Pids() }
func (robotgoWindows) Title(pid int) string   { return robotgo.GetTitle(pid) }
func (robotgoWindows) Activate(pid int) error { return robotgo.ActivePid(pid) }
func (robotgoWindows) Bounds(pid int) (int, int, int, int) {
	return robotgo.GetBounds(pid)
}

// WindowManager finds, focuses and measures the game window.
type WindowManager struct {
	logger  *slog.Logger
	backend windowBackend
}

// NewWindowManager returns a robotgo-backed window manager.
func NewWindowManager(logger *slog.Logger) *WindowManager {
	return &WindowManager{logger: logger, backend: robotgoWindows{}}
}

func normalizeTitle(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// FindWindow returns the first window whose title equals title, ignoring
// case and surrounding space.
func (m *WindowManager) FindWindow(title string) (Window, error) {
	want := normalizeTitle(title)
	if want == "" {
		return Window{}, fmt.Errorf("find window: empty title")
	}
	pids, err := m.backend.Pids()
	if err != nil {
		return Window{}, fmt.Errorf("find window: list processes: %w", err)
	}
	for _, pid := range pids {
		t := m.backend.Title(pid)
		if normalizeTitle(t) == want {
			if m.logger != nil {
				m.logger.Info("window found", "title", t, "pid", pid)
			}
			return Window{PID: pid, Title: strings.TrimSpace(t)}, nil
		}
	}
	return Window{}, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
}

// Activate brings w to the foreground.
func (m *WindowManager) Activate(w Window) error {
	if err := m.backend.Activate(w.PID); err != nil {
		return fmt.Errorf("activate window %q: %w", w.Title, err)
	}
	return nil
}

// Bounds returns the current screen rectangle of w.
func (m *WindowManager) Bounds(w Window) (image.Rectangle, error) {
	x, y, width, height := m.backend.Bounds(w.PID)
	r := image.Rect(x, y, x+width, y+height)
	if r.Empty() {
		return r, boterrors.New(boterrors.KindCapture, "window", "window has no visible area").
			WithMetadata("title", w.Title).
			WithDims("bounds", width, height)
	}
	return r, nil
}

// BoundsFunc adapts Bounds for a capture.ScreenSource so a moved window is
// followed on every capture.
func (m *WindowManager) BoundsFunc(w Window) capture.BoundsFunc {
	return func() (image.Rectangle, error) { return m.Bounds(w) }
}
