package model

import (
	"sync/atomic"
)

// RunModel tracks whether the bot is running. The zero value is stopped and usable.
// Concurrency-safe via atomic Bool because UI callbacks and the cycle goroutine may race.
type RunModel struct{ running atomic.Bool }

// Running reports whether the bot is currently running.
func (m *RunModel) Running() bool {
	if m == nil {
		return false
	}
	return m.running.Load()
}

// SetRunning stores the running flag and reports whether it changed.
func (m *RunModel) SetRunning(b bool) bool {
	if m == nil {
		return false
	}
	return m.running.Swap(b) != b
}
