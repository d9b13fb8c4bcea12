package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows run durations and cycle counters.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetCounters(casts, catches, timeouts uint64)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	countLbl   *LabelWidget
}

// NewSessionStats creates the duration labels at (row, startCol) and
// (row, startCol+1) and the counter label on the row below.
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14)), countLbl: Label(Width(40))}
	place := func(w Widget, r, c, span int) {
		if parent != nil {
			Grid(w, In(parent), Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
			return
		}
		Grid(w, Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
	}
	place(s.sessionLbl, row, startCol, 1)
	place(s.totalLbl, row, startCol+1, 1)
	place(s.countLbl, row+1, startCol, 2)
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.countLbl.Configure(Txt(formatCounters(0, 0, 0)))
	return s
}

func formatDuration(label string, d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%s: %02d:%02d", label, seconds/60, seconds%60)
}

func formatCounters(casts, catches, timeouts uint64) string {
	return fmt.Sprintf("Casts: %d  Catches: %d  Timeouts: %d", casts, catches, timeouts)
}

// SetSession updates the session duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt(formatDuration("Session", d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt(formatDuration("Total", d)))
}

func (s *sessionStats) SetCounters(casts, catches, timeouts uint64) {
	if s == nil || s.countLbl == nil {
		return
	}
	s.countLbl.Configure(Txt(formatCounters(casts, catches, timeouts)))
}
