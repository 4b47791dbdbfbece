// internal/report/sink.go
package report

import (
	"bufio"
	"io"
	"sync"
)

// Sink serializes line writes from concurrent replicas onto one output
// stream. Every write goes through the mutex, so lines interleave whole,
// never mid-line. When a header is configured it is written once, before
// whichever line arrives first.
type Sink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	header string
	wrote  bool
}

// NewSink wraps w. header is written before the first line; pass "" to
// suppress it.
func NewSink(w io.Writer, header string) *Sink {
	return &Sink{w: bufio.NewWriter(w), header: header}
}

// WriteLine appends a newline and writes the whole line atomically with
// respect to other callers.
func (s *Sink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wrote {
		s.wrote = true
		if s.header != "" {
			if _, err := s.w.WriteString(s.header + "\n"); err != nil {
				return err
			}
		}
	}
	_, err := s.w.WriteString(line + "\n")
	return err
}

// Flush drains the buffer to the underlying writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
