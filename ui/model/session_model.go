package model

import (
	"time"
)

// SessionModel tracks the current run duration and the accumulated running time.
// It is decoupled from the UI; presenters poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active      bool
	runStart    time.Time
	lastRun     time.Duration
	accumulated time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the model from the running flag at now.
func (m *SessionModel) OnTick(running bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case running && !m.active:
		m.active = true
		m.runStart = now
		m.lastRun = 0
	case running:
		m.lastRun = now.Sub(m.runStart)
	case m.active:
		m.lastRun = now.Sub(m.runStart)
		m.accumulated += m.lastRun
		m.active = false
	}
}

// Values returns the current run duration and the total including it.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastRun
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}
