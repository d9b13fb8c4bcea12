package view

import (
	"log/slog"
	"time"

	"github.com/soocke/splash-bot-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the status window layout and wires UI callbacks.
type RootView struct {
	logger *slog.Logger

	Session    SessionStats
	StateLabel *TLabelWidget
	toggleBtn  *TButtonWidget
}

// UI abstracts the subset of view operations needed by presenters.
type UI interface {
	SetStateLabel(text string)
	SetSession(session, total time.Duration)
	SetCounters(casts, catches, timeouts uint64)
	SetRunning(running bool)
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(target string, onToggle func(), onExit func()) {
	if rv == nil {
		return
	}
	theme.InitStyles()
	Grid(Label(Txt("Target: "+target)), Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	rv.Session = NewSessionStats(nil, 1, 0)

	btnFrame := Frame()
	Grid(btnFrame, Row(1), Column(2), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.toggleBtn = TButton(Txt("Start"), Style(theme.StylePrimaryButton), Command(onToggle))
	Grid(rv.toggleBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(onExit))
	Grid(exitBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetSession updates both session and total durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetCounters(casts, catches, timeouts uint64) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetCounters(casts, catches, timeouts)
	}
}

// SetRunning flips the toggle button caption.
func (rv *RootView) SetRunning(running bool) {
	if rv == nil || rv.toggleBtn == nil {
		return
	}
	if running {
		rv.toggleBtn.Configure(Txt("Stop"))
		return
	}
	rv.toggleBtn.Configure(Txt("Start"))
}

var _ UI = (*RootView)(nil)
