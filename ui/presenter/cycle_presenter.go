package presenter

import (
	"sync"
	"time"

	"github.com/soocke/splash-bot-go/domain/fishing"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// CyclePresenter receives cycle state changes and reflects the latest one in
// the view. OnState runs on the cycle goroutine, Tick on the UI goroutine.
type CyclePresenter struct {
	view    StateView
	mu      sync.Mutex
	latest  fishing.CycleState
	pending []fishing.CycleState
	shown   bool
}

func NewCyclePresenter(view StateView) *CyclePresenter {
	return &CyclePresenter{view: view}
}

// OnState is a fishing.StateListener.
func (p *CyclePresenter) OnState(_, next fishing.CycleState) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick flushes queued states and updates the view with the most recent one.
func (p *CyclePresenter) Tick(time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()
	if !p.shown || last != p.latest {
		p.latest = last
		p.shown = true
		p.view.SetStateLabel("State: " + last.String())
	}
}
