package presenter

import (
	"github.com/soocke/splash-bot-go/domain/fishing"
)

// StatsView displays cycle counters.
type StatsView interface {
	SetCounters(casts, catches, timeouts uint64)
}

// StatsPresenter copies cycle counters to the view when they change.
type StatsPresenter struct {
	src  fishing.CycleStatsSource
	view StatsView
	last fishing.CycleStats
	init bool
}

func NewStatsPresenter(src fishing.CycleStatsSource, view StatsView) *StatsPresenter {
	return &StatsPresenter{src: src, view: view}
}

func (p *StatsPresenter) Tick() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	s := p.src.Stats()
	if p.init && s.Casts == p.last.Casts && s.Catches == p.last.Catches && s.Timeouts == p.last.Timeouts {
		return
	}
	p.last, p.init = s, true
	p.view.SetCounters(s.Casts, s.Catches, s.Timeouts)
}
