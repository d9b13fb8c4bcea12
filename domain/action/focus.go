package action

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrFocusTimeout is returned when the target window never reached the foreground.
var ErrFocusTimeout = errors.New("timed out waiting for window focus")

// FocusWatcher polls the foreground window until it is the target window.
type FocusWatcher struct {
	Logger     *slog.Logger
	Foreground func() (string, error)
	Target     string
	// Timeout bounds Wait; zero waits until ctx is done.
	Timeout  time.Duration
	interval time.Duration
}

// NewFocusWatcher constructs a watcher for target. A nil fg uses ForegroundWindowTitle.
func NewFocusWatcher(logger *slog.Logger, target string, timeout time.Duration, fg func() (string, error)) *FocusWatcher {
	if fg == nil {
		fg = ForegroundWindowTitle
	}
	return &FocusWatcher{Logger: logger, Foreground: fg, Target: target, Timeout: timeout, interval: 250 * time.Millisecond}
}

// Wait returns nil once the foreground title equals Target (case-insensitive,
// trimmed), ErrFocusTimeout after Timeout, or ctx's error on cancellation.
func (w *FocusWatcher) Wait(ctx context.Context) error {
	want := normalizeTitle(w.Target)
	if want == "" {
		return nil
	}
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}
	interval := w.interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastTitle := ""
	for {
		title, err := w.Foreground()
		if err != nil {
			if w.Logger != nil {
				w.Logger.Error("foreground title error", "error", err)
			}
		} else if current := normalizeTitle(title); current != lastTitle {
			lastTitle = current
			if current == want {
				if w.Logger != nil {
					w.Logger.Debug("focus acquired", "window", title)
				}
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && w.Timeout > 0 {
				return ErrFocusTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
