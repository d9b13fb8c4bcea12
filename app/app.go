package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/splash-bot-go/debug"
	"github.com/soocke/splash-bot-go/domain/action"
	"github.com/soocke/splash-bot-go/ui/model"
	"github.com/soocke/splash-bot-go/ui/presenter"
	"github.com/soocke/splash-bot-go/ui/view"
)

const (
	tick             = 100 * time.Millisecond
	runtimeLogPeriod = 5 * time.Second
)

// App runs a bot session either headless or behind a small Tk status window.
type App struct {
	c *AppContainer

	// Tk mode
	run      *model.RunModel
	session  *model.SessionModel
	root     *view.RootView
	loop     *presenter.Loop
	afterID  string
	ctx      context.Context
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	fatalErr error
}

func NewApp(c *AppContainer) *App {
	return &App{c: c}
}

// Run prepares the game window and runs cycles until ctx is cancelled,
// MaxCycles is reached, or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.c.Config.Debug {
		debug.StartRuntimeLogger(ctx, runtimeLogPeriod, a.c.Logger)
	}
	if err := a.prepare(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return a.c.Cycle.Run(ctx)
}

// prepare focuses the target window and honours the startup delay.
func (a *App) prepare(ctx context.Context) error {
	cfg := a.c.Config
	if a.c.Window.Title != "" {
		if cfg.ActivateWindow {
			if err := a.c.Windows.Activate(a.c.Window); err != nil {
				a.c.Logger.Warn("window activation failed", "error", err)
			}
		}
		fw := action.NewFocusWatcher(a.c.Logger, a.c.Window.Title,
			time.Duration(cfg.FocusTimeoutMs)*time.Millisecond, nil)
		if err := fw.Wait(ctx); err != nil {
			return fmt.Errorf("wait for %q focus: %w", a.c.Window.Title, err)
		}
	}
	if cfg.StartupDelayMs > 0 {
		t := time.NewTimer(time.Duration(cfg.StartupDelayMs) * time.Millisecond)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// RunUI shows the status window and blocks until it is closed or ctx is
// cancelled. The returned error is the last fatal cycle error, if any.
func (a *App) RunUI(ctx context.Context) error {
	a.ctx = ctx
	a.run = &model.RunModel{}
	a.session = model.NewSessionModel()
	a.root = view.NewRootView(a.c.Logger)

	target := a.c.Config.WindowTitle
	if target == "" {
		target = fmt.Sprintf("display %d", a.c.Config.Display)
	}
	App.WmTitle("Splash Bot")
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, "360x140+100+100")
	a.root.Build(target, a.toggle, a.exitHandler)

	cp := presenter.NewCyclePresenter(a.root)
	a.c.Cycle.AddListener(cp.OnState)
	a.loop = presenter.NewLoop(
		presenter.NewSessionPresenter(a.session, a.run, a.root),
		cp,
		presenter.NewStatsPresenter(a.c.Cycle, a.root),
		a.scheduleUpdate,
	)

	if a.c.Config.Debug {
		debug.StartRuntimeLogger(ctx, runtimeLogPeriod, a.c.Logger)
	}
	a.scheduleUpdate()
	App.Wait()

	a.stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fatalErr
}

func (a *App) update() {
	if a.ctx.Err() != nil {
		a.exitHandler()
		return
	}
	a.root.SetRunning(a.run.Running())
	a.loop.Tick()
}

func (a *App) scheduleUpdate() {
	// TclAfter keeps updates on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.update() })
}

func (a *App) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	Destroy(App)
}

func (a *App) toggle() {
	if a.run.Running() {
		a.stop()
		return
	}
	a.start()
}

// start launches the cycle in its own goroutine.
func (a *App) start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done
	a.fatalErr = nil
	a.c.Cycle.Reset()
	a.run.SetRunning(true)
	a.c.Logger.Info("bot started")

	go func() {
		defer close(done)
		err := a.prepare(ctx)
		if err == nil {
			err = a.c.Cycle.Run(ctx)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			a.c.Logger.Error("bot stopped on error", "error", err)
			a.mu.Lock()
			a.fatalErr = err
			a.mu.Unlock()
		}
		a.run.SetRunning(false)
		a.mu.Lock()
		if a.done == done {
			a.cancel, a.done = nil, nil
		}
		a.mu.Unlock()
		cancel()
	}()
}

// stop cancels a running cycle and waits for it to release its inputs.
func (a *App) stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	a.c.Logger.Info("bot stopped")
}
