package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBotError_FormatsContext(t *testing.T) {
	err := New(KindDetection, "locate", "template larger than frame").
		WithDims("frame", 10, 10).
		WithDims("template", 20, 5)
	msg := err.Error()
	require.True(t, strings.HasPrefix(msg, "[detection] locate: template larger than frame"))
	require.Contains(t, msg, "frame:10x10")
	require.Contains(t, msg, "template:20x5")
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	base := Wrap(context.DeadlineExceeded, KindCapture, "grab", "stalled")
	wrapped := fmt.Errorf("cycle: %w", base)
	require.Equal(t, KindCapture, KindOf(wrapped))
	require.True(t, IsRetryable(wrapped))
	require.True(t, stderrors.Is(wrapped, context.DeadlineExceeded))
}

func TestIsRetryable_OnlyCapture(t *testing.T) {
	require.False(t, IsRetryable(nil))
	require.False(t, IsRetryable(stderrors.New("plain")))
	require.False(t, IsRetryable(New(KindDetection, "splash", "x")))
	require.False(t, IsRetryable(New(KindTemplateLoad, "templates", "x")))
	require.True(t, IsRetryable(New(KindCapture, "grab", "x")))
}
