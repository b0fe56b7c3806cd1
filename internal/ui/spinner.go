package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message on stderr.
// Nothing is drawn when stderr is not a terminal.
type Spinner struct {
	message string
	frames  []string
	out     io.Writer
	tty     bool
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
	started bool
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		frames:  defaultFrames,
		out:     os.Stderr,
		tty:     stderrIsTerminal(),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.tty {
		return
	}
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				s.mu.Unlock()
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner.
func (s *Spinner) Stop() {
	if !s.started {
		return
	}
	s.started = false
	close(s.done)
	s.wg.Wait()
}

// Progress displays a counter for multi-file operations such as import.
type Progress struct {
	total   int
	current int
	message string
	out     io.Writer
	tty     bool
	mu      sync.Mutex
}

// NewProgress creates a new progress indicator.
func NewProgress(message string, total int) *Progress {
	return &Progress{
		message: message,
		total:   total,
		out:     os.Stderr,
		tty:     stderrIsTerminal(),
	}
}

// Increment increments the progress by one.
func (p *Progress) Increment() {
	p.mu.Lock()
	p.current++
	current := p.current
	p.mu.Unlock()
	if p.tty {
		fmt.Fprintf(p.out, "\r%s %s", p.message, Muted.Render(fmt.Sprintf("(%d/%d)", current, p.total)))
	}
}

// Done finishes the progress indicator.
func (p *Progress) Done() {
	if p.tty {
		fmt.Fprint(p.out, "\r\033[K") // Clear line
	}
}
