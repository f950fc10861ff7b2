package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/doeshing/shell-ai/internal/ports"
)

// Spinner displays an animated spinner with the elapsed time during long
// operations. A disabled spinner draws nothing.
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer
	enabled  bool

	mu       sync.Mutex
	label    string
	elapsed  time.Duration
	started  time.Time
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewSpinner creates a new spinner
func NewSpinner(w io.Writer, enabled bool) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 100 * time.Millisecond,
		writer:   w,
		enabled:  enabled,
	}
}

// Start begins the spinner animation
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	if s.running || !s.enabled {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.label = label
	s.elapsed = 0
	s.started = time.Now()
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for idx := 0; ; idx++ {
			s.draw(idx)
			select {
			case <-stop:
				// Clear the spinner line
				fmt.Fprint(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Tick records the elapsed time reported by the caller.
func (s *Spinner) Tick(elapsed time.Duration) {
	s.mu.Lock()
	s.elapsed = elapsed
	s.mu.Unlock()
}

func (s *Spinner) draw(idx int) {
	s.mu.Lock()
	label, elapsed := s.label, s.elapsed
	if elapsed == 0 {
		elapsed = time.Since(s.started)
	}
	s.mu.Unlock()
	fmt.Fprintf(s.writer, "\r\033[K%s %s (%.1fs)", s.frames[idx%len(s.frames)], label, elapsed.Seconds())
}

// Stop stops the spinner animation
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stopChan
	s.mu.Unlock()

	close(stop)
	s.wg.Wait()
}

var _ ports.ProgressReporter = (*Spinner)(nil)
