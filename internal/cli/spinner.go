package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates batch planning progress on one terminal line:
//
//	⠹ Planning charts 3/12 · market-share (cached)
//
// Advance may be called from the runner's worker goroutines.
type Spinner struct {
	w     io.Writer
	total int

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	stop    sync.Once
	started bool

	mu     sync.Mutex
	done   int
	cached int
	last   string
	drawn  int // width of the last line written
}

// newSpinner creates a spinner for total charts that stops when ctx is done.
func newSpinner(ctx context.Context, w io.Writer, total int) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		total:   total,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Advance records one finished chart.
func (s *Spinner) Advance(res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done++
	if res == nil {
		return
	}
	if res.Stats.Cached {
		s.cached++
	}
	s.last = res.ID
	if s.last == "" {
		s.last = res.Kind
	}
	if res.Stats.Cached {
		s.last += " (cached)"
	}
}

// Status returns the progress text without the animation frame.
func (s *Spinner) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Spinner) status() string {
	msg := fmt.Sprintf("Planning charts %d/%d", s.done, s.total)
	if s.last != "" {
		msg += " · " + s.last
	}
	return msg
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.status())
	pad := max(s.drawn-lipgloss.Width(line), 0)
	fmt.Fprintf(s.w, "\r%s%s", line, strings.Repeat(" ", pad))
	s.drawn = lipgloss.Width(line)
}

// Stop ends the animation, clears the line and returns how many charts
// finished and how many of them came from the cache. It is safe to call
// more than once.
func (s *Spinner) Stop() (done, cached int) {
	s.stop.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
		s.mu.Lock()
		if s.drawn > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
		}
		s.mu.Unlock()
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done, s.cached
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
