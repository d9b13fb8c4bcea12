package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestRetry_RecoversFromTransientCapture(t *testing.T) {
	calls := 0
	cfg := DefaultRetryConfig()
	cfg.Sleep = noSleep
	err := Retry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return boterrors.New(boterrors.KindCapture, "grab", "window busy")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 2
	cfg.Sleep = noSleep
	err := Retry(context.Background(), cfg, func() error {
		calls++
		return boterrors.New(boterrors.KindCapture, "grab", "gone")
	})
	require.True(t, boterrors.IsKind(err, boterrors.KindCapture))
	require.Equal(t, 3, calls)
}

func TestRetry_DoesNotRetryDetection(t *testing.T) {
	calls := 0
	cfg := DefaultRetryConfig()
	cfg.Sleep = noSleep
	err := Retry(context.Background(), cfg, func() error {
		calls++
		return boterrors.New(boterrors.KindDetection, "locate", "template larger than frame")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := DefaultRetryConfig()
	cfg.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}
	err := Retry(ctx, cfg, func() error {
		calls++
		return boterrors.New(boterrors.KindCapture, "grab", "busy")
	})
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 1, calls)
}

func TestBackoffDelay_Capped(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, JitterFactor: 0.2}.withDefaults()
	for attempt := 0; attempt < 10; attempt++ {
		d := backoffDelay(cfg, attempt)
		require.LessOrEqual(t, d, 330*time.Millisecond)
		require.GreaterOrEqual(t, d, 90*time.Millisecond)
	}
}
