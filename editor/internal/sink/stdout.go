package sink

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
)

// Stdout writes one JSON line per event. Safe for concurrent use.
type Stdout struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStdout creates a line-JSON sink writing to standard output.
func NewStdout() *Stdout {
	return &Stdout{out: os.Stdout}
}

// NewWriter creates a line-JSON sink writing to w.
func NewWriter(w io.Writer) *Stdout {
	return &Stdout{out: w}
}

func (s *Stdout) Send(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(append(data, '\n'))
	return err
}

func (s *Stdout) Close() error { return nil }
