package debug

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartRuntimeLogger_LogsUntilCancelled(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	ctx, cancel := context.WithCancel(context.Background())
	StartRuntimeLogger(ctx, 5*time.Millisecond, logger)

	deadline := time.Now().Add(time.Second)
	for !strings.Contains(out.String(), "runtime stats") {
		if time.Now().After(deadline) {
			t.Fatalf("no runtime stats logged")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if !strings.Contains(out.String(), `"heap_alloc"`) {
		t.Fatalf("expected heap_alloc attribute, got %s", out.String())
	}
}
