package fishing

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/soocke/splash-bot-go/config"
)

// DelayCategory names one of the randomized waits of a cycle.
type DelayCategory int

const (
	DelayCastHold DelayCategory = iota
	DelaySettle
	DelayAimSettle
	DelayReactDelay
	DelayReactHold
	DelayRest
)

func (c DelayCategory) String() string {
	switch c {
	case DelayCastHold:
		return "cast_hold"
	case DelaySettle:
		return "settle"
	case DelayAimSettle:
		return "aim_settle"
	case DelayReactDelay:
		return "react_delay"
	case DelayReactHold:
		return "react_hold"
	case DelayRest:
		return "rest"
	default:
		return "unknown"
	}
}

// DelayPolicy picks the duration of a randomized wait.
type DelayPolicy interface {
	Delay(DelayCategory) time.Duration
}

// UniformDelay draws whole milliseconds uniformly from inclusive ranges.
type UniformDelay struct {
	ranges map[DelayCategory]config.DelayRange
	mu     sync.Mutex
	rng    *rand.Rand
}

// NewUniformDelay builds a policy from the config's delay ranges. A nil rng
// uses the global generator.
func NewUniformDelay(cfg *config.Config, rng *rand.Rand) *UniformDelay {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &UniformDelay{
		ranges: map[DelayCategory]config.DelayRange{
			DelayCastHold:   cfg.CastHold,
			DelaySettle:     cfg.Settle,
			DelayAimSettle:  cfg.AimSettle,
			DelayReactDelay: cfg.ReactDelay,
			DelayReactHold:  cfg.ReactHold,
			DelayRest:       cfg.Rest,
		},
		rng: rng,
	}
}

// Delay returns a duration in [min, max] milliseconds for c.
func (u *UniformDelay) Delay(c DelayCategory) time.Duration {
	r, ok := u.ranges[c]
	if !ok {
		return 0
	}
	lo, hi := r.MinMs, r.MaxMs
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	var n int
	if u.rng != nil {
		u.mu.Lock()
		n = u.rng.IntN(hi - lo + 1)
		u.mu.Unlock()
	} else {
		n = rand.IntN(hi - lo + 1)
	}
	return time.Duration(lo+n) * time.Millisecond
}

// ZeroDelay never waits. Useful for tests and dry runs.
type ZeroDelay struct{}

func (ZeroDelay) Delay(DelayCategory) time.Duration { return 0 }
