package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	Cycle    *CyclePresenter
	Stats    *StatsPresenter
	Schedule func()
}

func NewLoop(sess *SessionPresenter, cycle *CyclePresenter, stats *StatsPresenter, schedule func()) *Loop {
	return &Loop{Session: sess, Cycle: cycle, Stats: stats, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Cycle != nil {
		l.Cycle.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Stats != nil {
		l.Stats.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
