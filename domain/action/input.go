package action

import (
	"image"
	"log/slog"

	"github.com/go-vgo/robotgo"
)

// inputBackend is the subset of robotgo the sink drives.
type inputBackend interface {
	Move(x, y int)
	KeyToggle(key, dir string) error
	MouseToggle(button, dir string) error
}

type robotgoInput struct{}

func (robotgoInput) Move(x, y int) { robotgo.Move(x, y) }

func (robotgoInput) KeyToggle(key, dir string) error { return robotgo.KeyToggle(key, dir) }

func (robotgoInput) MouseToggle(button, dir string) error { return robotgo.Toggle(button, dir) }

// Sink injects keyboard and mouse input. Pointer moves are shifted by a
// static offset to compensate for window decorations.
type Sink struct {
	Offset  image.Point
	logger  *slog.Logger
	backend inputBackend
}

// NewSink returns a robotgo-backed sink.
func NewSink(logger *slog.Logger, offset image.Point) *Sink {
	return &Sink{Offset: offset, logger: logger, backend: robotgoInput{}}
}

func (s *Sink) MoveTo(x, y int) error {
	p := image.Pt(x, y).Add(s.Offset)
	s.backend.Move(p.X, p.Y)
	if s.logger != nil {
		s.logger.Debug("pointer moved", "x", p.X, "y", p.Y)
	}
	return nil
}

func (s *Sink) KeyDown(key string) error { return s.key(key, "down") }
func (s *Sink) KeyUp(key string) error   { return s.key(key, "up") }

func (s *Sink) ButtonDown(button string) error { return s.button(button, "down") }
func (s *Sink) ButtonUp(button string) error   { return s.button(button, "up") }

func (s *Sink) key(key, dir string) error {
	k, err := ParseKey(key)
	if err != nil {
		return err
	}
	return s.backend.KeyToggle(k, dir)
}

func (s *Sink) button(button, dir string) error {
	b, err := ParseButton(button)
	if err != nil {
		return err
	}
	return s.backend.MouseToggle(b, dir)
}
