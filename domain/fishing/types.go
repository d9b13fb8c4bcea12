package fishing

import (
	"context"

	"github.com/soocke/splash-bot-go/domain/capture"
)

// CycleState enumerates the states of one fishing cycle.
type CycleState int32

const (
	StateIdle CycleState = iota
	StateCasting
	StateSettling
	StateLocating
	StateAiming
	StateWaitingForSplash
	StateReacting
	StateResting
)

func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCasting:
		return "casting"
	case StateSettling:
		return "settling"
	case StateLocating:
		return "locating"
	case StateAiming:
		return "aiming"
	case StateWaitingForSplash:
		return "waiting_for_splash"
	case StateReacting:
		return "reacting"
	case StateResting:
		return "resting"
	default:
		return "unknown"
	}
}

// Outcome is the result of one completed cycle.
type Outcome int32

const (
	OutcomeNone Outcome = iota
	OutcomeCaught
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaught:
		return "caught"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// FrameSource supplies grayscale frames of the game viewport.
type FrameSource interface {
	Capture(ctx context.Context) (*capture.Frame, error)
}

// ActionSink injects input. Coordinates are screen coordinates; any static
// offset is the sink's concern.
type ActionSink interface {
	MoveTo(x, y int) error
	KeyDown(key string) error
	KeyUp(key string) error
	ButtonDown(button string) error
	ButtonUp(button string) error
}

// BobberLocator finds the bobber in a raw frame.
type BobberLocator interface {
	Detect(frame *capture.Frame) (capture.MatchResult, error)
}

// SplashDetectorContract minimal detector contract used by the cycle.
type SplashDetectorContract interface {
	Detect(prev, cur *capture.Frame, r capture.Region) (SplashEvidence, error)
}

// StateListener is called on each state transition.
type StateListener func(prev, next CycleState)

// Interface slices for consumers (presenters).
type CycleStateSource interface{ Current() CycleState }
type CycleStatsSource interface{ Stats() CycleStats }

// Env carries the long-lived handles a cycle works with.
// Source, Actions and Locator are required; the rest default from config.
type Env struct {
	Source  FrameSource
	Actions ActionSink
	Locator BobberLocator
	Splash  SplashDetectorContract
	Delay   DelayPolicy
	Clock   Clock
}

// CycleStats counts cycle activity since construction.
type CycleStats struct {
	Casts       uint64
	Catches     uint64
	Timeouts    uint64
	Cycles      uint64
	LastOutcome Outcome
	LastScore   float64
}
