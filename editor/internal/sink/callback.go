package sink

import "context"

// Callback delivers events to an in-process function. Used to mirror
// editor state into other components of the same binary.
type Callback struct {
	fn func(ctx context.Context, ev Event) error
}

// NewCallback wraps fn as a sink.
func NewCallback(fn func(ctx context.Context, ev Event) error) *Callback {
	return &Callback{fn: fn}
}

func (c *Callback) Send(ctx context.Context, ev Event) error {
	return c.fn(ctx, ev)
}

func (c *Callback) Close() error { return nil }
