package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
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

func TestSpinnerStatus(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, 3)

	tests := []struct {
		res  *pipeline.Result
		want string
	}{
		{nil, "Planning charts 1/3"},
		{&pipeline.Result{ID: "sales"}, "Planning charts 2/3 · sales"},
		{&pipeline.Result{Kind: pipeline.KindRadial, Stats: pipeline.Stats{Cached: true}}, "Planning charts 3/3 · radial (cached)"},
	}
	for _, tt := range tests {
		s.Advance(tt.res)
		if got := s.Status(); got != tt.want {
			t.Errorf("Status() = %q, want %q", got, tt.want)
		}
	}

	done, cached := s.Stop()
	if done != 3 || cached != 1 {
		t.Errorf("Stop() = %d, %d, want 3, 1", done, cached)
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, 2)
	s.Start()
	s.Advance(&pipeline.Result{ID: "sales"})
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Planning charts 1/2 · sales") {
		t.Errorf("output %q does not show progress", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q does not end by clearing the line", got)
	}
}

func TestSpinnerConcurrentAdvance(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, 50)
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Advance(&pipeline.Result{ID: "chart"})
		}()
	}
	wg.Wait()

	if done, _ := s.Stop(); done != 50 {
		t.Errorf("Stop() done = %d, want 50", done)
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, 1)
	s.Start()
	if s.Cancelled() {
		t.Error("Cancelled() = true before cancel")
	}
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, 1)
	s.Start()
	s.Stop()
	s.Stop()

	// Never started.
	newSpinner(context.Background(), &syncBuffer{}, 1).Stop()
}
