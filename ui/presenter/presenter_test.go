package presenter

import (
	"testing"
	"time"

	"github.com/soocke/splash-bot-go/domain/fishing"
	"github.com/soocke/splash-bot-go/ui/model"
)

type fakeView struct {
	labels   []string
	session  time.Duration
	total    time.Duration
	counters [][3]uint64
}

func (v *fakeView) SetStateLabel(s string)        { v.labels = append(v.labels, s) }
func (v *fakeView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *fakeView) SetCounters(c, k, to uint64)   { v.counters = append(v.counters, [3]uint64{c, k, to}) }

type fakeStats struct{ s fishing.CycleStats }

func (f *fakeStats) Stats() fishing.CycleStats { return f.s }

func TestCyclePresenter_ShowsLatestQueuedState(t *testing.T) {
	v := &fakeView{}
	p := NewCyclePresenter(v)
	p.OnState(fishing.StateIdle, fishing.StateCasting)
	p.OnState(fishing.StateCasting, fishing.StateSettling)
	p.Tick(time.Now())
	p.Tick(time.Now())
	if len(v.labels) != 1 || v.labels[0] != "State: settling" {
		t.Fatalf("unexpected labels %v", v.labels)
	}
	p.OnState(fishing.StateResting, fishing.StateIdle)
	p.Tick(time.Now())
	if len(v.labels) != 2 || v.labels[1] != "State: idle" {
		t.Fatalf("unexpected labels %v", v.labels)
	}
}

func TestStatsPresenter_OnlyPushesChanges(t *testing.T) {
	v := &fakeView{}
	src := &fakeStats{}
	p := NewStatsPresenter(src, v)
	p.Tick()
	p.Tick()
	src.s.Casts, src.s.Timeouts = 1, 1
	p.Tick()
	if len(v.counters) != 2 || v.counters[1] != [3]uint64{1, 0, 1} {
		t.Fatalf("unexpected counters %v", v.counters)
	}
}

func TestLoop_TicksPresenters(t *testing.T) {
	v := &fakeView{}
	run := &model.RunModel{}
	run.SetRunning(true)
	sess := model.NewSessionModel()
	scheduled := 0
	l := NewLoop(NewSessionPresenter(sess, run, v), NewCyclePresenter(v), NewStatsPresenter(&fakeStats{}, v), func() { scheduled++ })
	l.Tick()
	if scheduled != 1 || len(v.counters) != 1 {
		t.Fatalf("expected one schedule and one counter push, got %d/%d", scheduled, len(v.counters))
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
