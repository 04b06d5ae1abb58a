package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

// Writer persists one entry. *SQLiteRepository satisfies it.
type Writer interface {
	Create(ctx context.Context, entry *Entry) error
}

// Logger is the subset of logging.Logger the sink uses.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Sink is a fire-and-forget front for a Writer.
//
// Record stamps the entry with the current time and enqueues it without
// blocking. One goroutine drains the queue in order. Write failures and
// drops are logged and counted, never returned to the business path.
type Sink struct {
	writer Writer
	logger Logger
	queue  chan Entry
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped atomic.Uint64
	failed  atomic.Uint64
	written atomic.Uint64

	now func() time.Time
}

// NewSink starts the writer goroutine. queueSize <= 0 uses a default.
// A nil logger discards reports.
func NewSink(writer Writer, queueSize int, logger Logger) *Sink {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	s := &Sink{
		writer: writer,
		logger: logger,
		queue:  make(chan Entry, queueSize),
		done:   make(chan struct{}),
		now:    time.Now,
	}

	go s.run()

	return s
}

// Record enqueues an entry. It returns ErrQueueFull or ErrClosed when the
// entry is dropped; callers may ignore the error.
func (s *Sink) Record(topic, message string, kind Kind) error {
	entry := Entry{
		Timestamp: s.now(),
		Topic:     topic,
		Message:   message,
		Kind:      kind,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return ErrClosed
	}

	select {
	case s.queue <- entry:
		return nil
	default:
		s.dropped.Add(1)
		s.warn("audit queue full, entry dropped",
			"topic", topic,
			"event_type", string(kind),
			"dropped_total", s.dropped.Load(),
		)
		return ErrQueueFull
	}
}

func (s *Sink) run() {
	defer close(s.done)

	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := s.writer.Create(ctx, &entry)
		cancel()

		if err != nil {
			s.failed.Add(1)
			if s.logger != nil {
				s.logger.Error("audit write failed",
					"topic", entry.Topic,
					"event_type", string(entry.Kind),
					"error", err,
				)
			}
			continue
		}
		s.written.Add(1)
	}
}

// Close stops accepting entries and waits until the queue is drained or
// ctx ends. Safe to call more than once.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports how many entries were written, failed to write, and dropped.
func (s *Sink) Stats() (written, failed, dropped uint64) {
	return s.written.Load(), s.failed.Load(), s.dropped.Load()
}

func (s *Sink) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
