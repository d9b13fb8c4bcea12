package fishing

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/splash-bot-go/config"
	"github.com/soocke/splash-bot-go/domain/capture"
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
	"github.com/soocke/splash-bot-go/domain/resilience"
)

// Cycle drives the cast, locate, wait and react sequence. Step, RunOnce and
// Run must be called from a single goroutine; Current, Stats and AddListener
// are safe from any goroutine.
type Cycle struct {
	logger *slog.Logger
	cfg    *config.Config
	env    Env
	retry  resilience.RetryConfig

	state     atomic.Int32
	mu        sync.Mutex
	listeners []StateListener

	// per-cycle scratch, owned by the cycle goroutine
	match   capture.MatchResult
	origin  image.Point
	outcome Outcome

	casts       atomic.Uint64
	catches     atomic.Uint64
	timeouts    atomic.Uint64
	cycles      atomic.Uint64
	lastOutcome atomic.Int32
	lastScore   atomic.Uint64
}

// NewCycle constructs a cycle in StateIdle. Missing optional handles in env
// are filled from cfg.
func NewCycle(logger *slog.Logger, cfg *config.Config, env Env) *Cycle {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if env.Splash == nil {
		env.Splash = NewSplashDetector(cfg)
	}
	if env.Delay == nil {
		env.Delay = NewUniformDelay(cfg, nil)
	}
	if env.Clock == nil {
		env.Clock = RealClock()
	}
	c := &Cycle{logger: logger, cfg: cfg, env: env}
	c.retry = resilience.RetryConfig{
		MaxRetries:  cfg.CaptureRetries,
		BaseDelay:   time.Duration(cfg.CaptureRetryBaseMs) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.CaptureRetryMaxMs) * time.Millisecond,
		IsRetryable: boterrors.IsRetryable,
		Logger:      logger,
		Sleep:       env.Clock.Sleep,
	}
	return c
}

// Current returns the current state.
func (c *Cycle) Current() CycleState { return CycleState(c.state.Load()) }

// AddListener registers l for every subsequent transition. Listeners run
// synchronously on the cycle goroutine and must not block.
func (c *Cycle) AddListener(l StateListener) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Stats returns a snapshot of the cycle counters.
func (c *Cycle) Stats() CycleStats {
	return CycleStats{
		Casts:       c.casts.Load(),
		Catches:     c.catches.Load(),
		Timeouts:    c.timeouts.Load(),
		Cycles:      c.cycles.Load(),
		LastOutcome: Outcome(c.lastOutcome.Load()),
		LastScore:   math.Float64frombits(c.lastScore.Load()),
	}
}

// Reset returns the cycle to StateIdle, abandoning the cycle in progress.
// Call it only while Run is not active.
func (c *Cycle) Reset() { c.transition(StateIdle) }

// Run executes cycles until ctx is cancelled, MaxCycles cycles have
// completed, or a fatal error occurs. Cancellation is not an error.
func (c *Cycle) Run(ctx context.Context) (runErr error) {
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("cycle panic", "error", r, "stack", string(debug.Stack()))
			}
			runErr = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	for {
		if ctx.Err() != nil {
			return nil
		}
		out, err := c.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				if c.logger != nil {
					c.logger.Info("cycle cancelled", "state", c.Current().String())
				}
				return nil
			}
			return err
		}
		n := c.cycles.Load()
		if c.logger != nil {
			c.logger.Info("cycle complete", "outcome", out.String(), "cycles", n)
		}
		if c.cfg.MaxCycles > 0 && n >= uint64(c.cfg.MaxCycles) {
			return nil
		}
	}
}

// RunOnce steps until the cycle returns to StateIdle and reports its outcome.
func (c *Cycle) RunOnce(ctx context.Context) (Outcome, error) {
	for {
		if err := c.Step(ctx); err != nil {
			return OutcomeNone, err
		}
		if c.Current() == StateIdle {
			return c.outcome, nil
		}
	}
}

// Step performs exactly one transition. On error the state is unchanged.
func (c *Cycle) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch c.Current() {
	case StateIdle:
		c.outcome = OutcomeNone
		if err := c.cast(ctx); err != nil {
			return err
		}
		c.casts.Add(1)
		c.transition(StateCasting)
	case StateCasting:
		if err := c.wait(ctx, DelaySettle); err != nil {
			return err
		}
		c.transition(StateSettling)
	case StateSettling:
		if err := c.locate(ctx); err != nil {
			return err
		}
		c.transition(StateLocating)
	case StateLocating:
		p := c.origin.Add(c.match.Region.Center())
		if err := c.act(ctx, "move", func() error { return c.env.Actions.MoveTo(p.X, p.Y) }); err != nil {
			return err
		}
		if c.logger != nil {
			c.logger.Info("pointer moved to bobber", "x", p.X, "y", p.Y)
		}
		c.transition(StateAiming)
	case StateAiming:
		if err := c.wait(ctx, DelayAimSettle); err != nil {
			return err
		}
		c.transition(StateWaitingForSplash)
	case StateWaitingForSplash:
		splash, err := c.waitForSplash(ctx)
		if err != nil {
			return err
		}
		if splash {
			c.transition(StateReacting)
			return nil
		}
		c.finish(OutcomeTimeout)
		c.timeouts.Add(1)
		c.transition(StateResting)
	case StateReacting:
		if err := c.react(ctx); err != nil {
			return err
		}
		c.finish(OutcomeCaught)
		c.catches.Add(1)
		c.transition(StateResting)
	case StateResting:
		if err := c.wait(ctx, DelayRest); err != nil {
			return err
		}
		c.cycles.Add(1)
		c.transition(StateIdle)
	}
	return nil
}

func (c *Cycle) finish(o Outcome) {
	c.outcome = o
	c.lastOutcome.Store(int32(o))
}

func (c *Cycle) transition(next CycleState) {
	prev := CycleState(c.state.Swap(int32(next)))
	if prev == next {
		return
	}
	if c.logger != nil {
		c.logger.Debug("cycle state transition", "from", prev.String(), "to", next.String())
	}
	c.mu.Lock()
	ls := append([]StateListener(nil), c.listeners...)
	c.mu.Unlock()
	for _, l := range ls {
		l(prev, next)
	}
}

func (c *Cycle) wait(ctx context.Context, cat DelayCategory) error {
	d := c.env.Delay.Delay(cat)
	if c.logger != nil {
		c.logger.Debug("randomized wait", "category", cat.String(), "delay", d)
	}
	return c.env.Clock.Sleep(ctx, d)
}

// cast presses and releases the cast key. The key is released even when the
// hold is interrupted.
func (c *Cycle) cast(ctx context.Context) error {
	key := c.cfg.CastKey
	if err := c.act(ctx, "key_down", func() error { return c.env.Actions.KeyDown(key) }); err != nil {
		return err
	}
	holdErr := c.wait(ctx, DelayCastHold)
	if err := c.act(context.WithoutCancel(ctx), "key_up", func() error { return c.env.Actions.KeyUp(key) }); err != nil {
		return err
	}
	if holdErr != nil {
		return holdErr
	}
	if c.logger != nil {
		c.logger.Info("cast", "key", key)
	}
	return nil
}

func (c *Cycle) react(ctx context.Context) error {
	if err := c.wait(ctx, DelayReactDelay); err != nil {
		return err
	}
	btn := c.cfg.ReactButton
	if err := c.act(ctx, "button_down", func() error { return c.env.Actions.ButtonDown(btn) }); err != nil {
		return err
	}
	holdErr := c.wait(ctx, DelayReactHold)
	if err := c.act(context.WithoutCancel(ctx), "button_up", func() error { return c.env.Actions.ButtonUp(btn) }); err != nil {
		return err
	}
	if holdErr != nil {
		return holdErr
	}
	if c.logger != nil {
		c.logger.Info("reacted to splash", "button", btn)
	}
	return nil
}

func (c *Cycle) locate(ctx context.Context) error {
	frame, err := c.captureFrame(ctx)
	if err != nil {
		return err
	}
	res, err := c.env.Locator.Detect(frame)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("bobber detection failed", "error", err, "frame_w", frame.Width, "frame_h", frame.Height)
		}
		return err
	}
	c.match = res
	c.origin = frame.Origin
	c.lastScore.Store(math.Float64bits(res.Score))
	if c.logger != nil {
		c.logger.Info("bobber located",
			"template", res.Template,
			"x", res.Region.X, "y", res.Region.Y,
			"w", res.Region.W, "h", res.Region.H,
			"score", res.Score,
		)
	}
	return nil
}

// waitForSplash polls consecutive frame pairs in the located region until a
// splash is seen or the splash timeout elapses.
func (c *Cycle) waitForSplash(ctx context.Context) (bool, error) {
	deadline := c.env.Clock.Now().Add(c.cfg.SplashTimeout())
	poll := c.cfg.PollInterval()
	prev, err := c.captureFrame(ctx)
	if err != nil {
		return false, err
	}
	polls := 0
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if !c.env.Clock.Now().Before(deadline) {
			if c.logger != nil {
				c.logger.Info("splash wait timed out", "timeout", c.cfg.SplashTimeout(), "polls", polls)
			}
			return false, nil
		}
		cur, err := c.captureFrame(ctx)
		if err != nil {
			return false, err
		}
		polls++
		ev, err := c.env.Splash.Detect(prev, cur, c.match.Region)
		if err != nil {
			if c.logger != nil {
				c.logger.Error("splash detection failed", "error", err, "polls", polls)
			}
			return false, err
		}
		if ev.Splash {
			if c.logger != nil {
				c.logger.Info("splash detected", "changed", ev.Changed, "threshold", ev.Threshold, "polls", polls)
			}
			return true, nil
		}
		prev = cur
		if err := c.env.Clock.Sleep(ctx, poll); err != nil {
			return false, err
		}
	}
}

func (c *Cycle) captureFrame(ctx context.Context) (*capture.Frame, error) {
	var frame *capture.Frame
	err := resilience.Retry(ctx, c.retry, func() error {
		f, err := bounded(ctx, c.cfg.StepTimeout(), func(ctx context.Context) (*capture.Frame, error) {
			return c.env.Source.Capture(ctx)
		})
		if err != nil {
			if ctx.Err() == nil && !boterrors.IsKind(err, boterrors.KindCapture) {
				err = boterrors.Wrap(err, boterrors.KindCapture, "capture", "capture failed")
			}
			return err
		}
		if f.Empty() {
			return boterrors.New(boterrors.KindCapture, "capture", "empty frame")
		}
		frame = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// act runs one input call bounded by the step timeout. Failures are fatal.
func (c *Cycle) act(ctx context.Context, name string, fn func() error) error {
	_, err := bounded(ctx, c.cfg.StepTimeout(), func(context.Context) (struct{}, error) {
		return struct{}{}, fn()
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("action %s: %w", name, err)
	}
	return nil
}

// bounded runs fn on its own goroutine and gives up after timeout. An
// abandoned call keeps running; its result is dropped.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result{v: v, err: err}
	}()
	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
