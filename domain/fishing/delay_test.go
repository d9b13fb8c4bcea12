package fishing

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soocke/splash-bot-go/config"
)

func TestUniformDelay_WithinInclusiveBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	u := NewUniformDelay(cfg, nil)
	cases := map[DelayCategory]config.DelayRange{
		DelayCastHold:   cfg.CastHold,
		DelaySettle:     cfg.Settle,
		DelayAimSettle:  cfg.AimSettle,
		DelayReactDelay: cfg.ReactDelay,
		DelayReactHold:  cfg.ReactHold,
		DelayRest:       cfg.Rest,
	}
	for cat, r := range cases {
		lo, hi := r.Bounds()
		for i := 0; i < 10000; i++ {
			d := u.Delay(cat)
			require.GreaterOrEqual(t, d, lo, cat.String())
			require.LessOrEqual(t, d, hi, cat.String())
			require.Zero(t, d%time.Millisecond, "whole milliseconds")
		}
	}
}

func TestUniformDelay_ReachesBothEndpoints(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CastHold = config.DelayRange{MinMs: 1, MaxMs: 3}
	u := NewUniformDelay(cfg, rand.New(rand.NewPCG(1, 2)))
	seen := map[time.Duration]bool{}
	for i := 0; i < 1000; i++ {
		seen[u.Delay(DelayCastHold)] = true
	}
	require.True(t, seen[time.Millisecond])
	require.True(t, seen[3*time.Millisecond])
	require.Len(t, seen, 3)
}

func TestZeroDelay(t *testing.T) {
	for c := DelayCastHold; c <= DelayRest; c++ {
		require.Zero(t, ZeroDelay{}.Delay(c))
	}
}
