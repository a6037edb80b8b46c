// Package observability persists an audit trail of editing and
// extraction activity to SQLite.
//
// Persistence is async and non-blocking: events are buffered and
// flushed in batches, and a full buffer falls back to a synchronous
// insert rather than dropping the record.
package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/domedit/dbopen"
	"github.com/hazyhaar/domedit/idgen"
)

// Event sources.
const (
	SourceEditor   = "editor"
	SourceStrategy = "strategy"
	SourceLayout   = "layout"
)

// Event is one audit record.
type Event struct {
	EventID    string    `json:"event_id"`
	At         time.Time `json:"at"`
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	PageURL    string    `json:"page_url,omitempty"`
	Descriptor string    `json:"descriptor,omitempty"`
	Detail     string    `json:"detail,omitempty"` // JSON payload
	ErrorMsg   string    `json:"error,omitempty"`
}

// Filter narrows Query results.
type Filter struct {
	Source string
	Kind   string
	Since  *time.Time
	Limit  int // default 100
}

// EventLogger records audit events with batched async persistence.
type EventLogger struct {
	db    *sql.DB
	newID idgen.Generator
	log   *slog.Logger
	ch    chan Event
	stop  chan struct{}
	done  chan struct{}
}

// Option configures an EventLogger.
type Option func(*EventLogger)

// WithIDGenerator overrides the event ID generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(l *EventLogger) { l.newID = gen }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *EventLogger) {
		if log != nil {
			l.log = log
		}
	}
}

// Open opens (creating if needed) the audit database at path and
// returns a running EventLogger over it.
func Open(path string, opts ...Option) (*EventLogger, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("observability: open %s: %w", path, err)
	}
	return New(db, opts...), nil
}

// New wraps an already-open database whose schema has been applied.
func New(db *sql.DB, opts ...Option) *EventLogger {
	l := &EventLogger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
		log:   slog.Default(),
		ch:    make(chan Event, 256),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	go l.flushLoop()
	return l
}

// Record queues an event. Non-blocking; a full buffer falls back to a
// synchronous insert.
func (l *EventLogger) Record(ev Event) {
	l.fillDefaults(&ev)
	select {
	case l.ch <- ev:
	default:
		l.log.Warn("audit buffer full, sync fallback", "kind", ev.Kind)
		if err := l.insert(context.Background(), ev); err != nil {
			l.log.Error("audit sync fallback failed", "error", err)
		}
	}
}

// RecordOp builds and queues an event from an operation outcome.
// Detail is marshalled to JSON; a marshal failure drops the detail,
// not the event.
func (l *EventLogger) RecordOp(source, kind, pageURL, descriptor string, detail any, opErr error) {
	ev := Event{
		Source:     source,
		Kind:       kind,
		PageURL:    pageURL,
		Descriptor: descriptor,
	}
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			ev.Detail = string(b)
		}
	}
	if opErr != nil {
		ev.ErrorMsg = opErr.Error()
	}
	l.Record(ev)
}

// Query returns events matching the filter, newest first.
func (l *EventLogger) Query(ctx context.Context, f Filter) ([]Event, error) {
	q := `SELECT event_id, at, source, kind, page_url, descriptor, detail, error_message
		FROM edit_events WHERE 1=1`
	var args []any

	if f.Source != "" {
		q += " AND source = ?"
		args = append(args, f.Source)
	}
	if f.Kind != "" {
		q += " AND kind = ?"
		args = append(args, f.Kind)
	}
	if f.Since != nil {
		q += " AND at >= ?"
		args = append(args, f.Since.UnixMilli())
	}

	limit := 100
	if f.Limit > 0 {
		limit = f.Limit
	}
	q += " ORDER BY at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("observability: query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var at int64
		var pageURL, descriptor, detail, errMsg sql.NullString
		if err := rows.Scan(&ev.EventID, &at, &ev.Source, &ev.Kind, &pageURL, &descriptor, &detail, &errMsg); err != nil {
			return nil, fmt.Errorf("observability: scan event: %w", err)
		}
		ev.At = time.UnixMilli(at)
		ev.PageURL = pageURL.String
		ev.Descriptor = descriptor.String
		ev.Detail = detail.String
		ev.ErrorMsg = errMsg.String
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Cleanup deletes events older than the retention window and returns
// how many were removed.
func (l *EventLogger) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	threshold := time.Now().Add(-retention).UnixMilli()
	res, err := l.db.ExecContext(ctx, "DELETE FROM edit_events WHERE at < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("observability: cleanup: %w", err)
	}
	return res.RowsAffected()
}

// Close drains the buffer, flushes and stops the background goroutine.
// The database handle stays open; it belongs to the caller.
func (l *EventLogger) Close() error {
	close(l.stop)
	<-l.done
	return nil
}

func (l *EventLogger) fillDefaults(ev *Event) {
	if ev.EventID == "" {
		ev.EventID = l.newID()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
}

func (l *EventLogger) flushLoop() {
	defer close(l.done)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	batch := make([]Event, 0, 64)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tx, err := l.db.BeginTx(ctx, nil)
		if err != nil {
			l.log.Error("audit flush: begin tx", "error", err)
			return
		}
		for _, ev := range batch {
			if err := insertTx(ctx, tx, ev); err != nil {
				l.log.Error("audit flush: insert", "error", err, "event_id", ev.EventID)
			}
		}
		if err := tx.Commit(); err != nil {
			l.log.Error("audit flush: commit", "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-l.stop:
			for {
				select {
				case ev := <-l.ch:
					batch = append(batch, ev)
				default:
					flush()
					return
				}
			}
		case ev := <-l.ch:
			batch = append(batch, ev)
			if len(batch) >= 64 {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

const insertSQL = `INSERT INTO edit_events
	(event_id, at, source, kind, page_url, descriptor, detail, error_message)
	VALUES (?,?,?,?,?,?,?,?)`

func (l *EventLogger) insert(ctx context.Context, ev Event) error {
	_, err := l.db.ExecContext(ctx, insertSQL,
		ev.EventID, ev.At.UnixMilli(), ev.Source, ev.Kind,
		ev.PageURL, ev.Descriptor, ev.Detail, ev.ErrorMsg)
	return err
}

func insertTx(ctx context.Context, tx *sql.Tx, ev Event) error {
	_, err := tx.ExecContext(ctx, insertSQL,
		ev.EventID, ev.At.UnixMilli(), ev.Source, ev.Kind,
		ev.PageURL, ev.Descriptor, ev.Detail, ev.ErrorMsg)
	return err
}
