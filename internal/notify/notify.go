package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message shown to the user
type Notification struct {
	CartID    uuid.UUID
	Level     Level
	Title     string
	Message   string
	CreatedAt time.Time
}

// Sink receives user notifications
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// Multi fans a notification out to several sinks
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m {
		s.Notify(ctx, n)
	}
}

type logSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that writes notifications to the logger
func NewLogSink(logger *zap.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{
		zap.String("cart_id", n.CartID.String()),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
	}
	if n.Level == LevelError {
		s.logger.Warn("User notification", fields...)
		return
	}
	s.logger.Info("User notification", fields...)
}

// Feed keeps the most recent notifications of each cart until they are drained
type Feed struct {
	mu       sync.Mutex
	capacity int
	queues   map[uuid.UUID][]Notification
}

// NewFeed creates a feed holding up to capacity notifications per cart
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{
		capacity: capacity,
		queues:   make(map[uuid.UUID][]Notification),
	}
}

func (f *Feed) Notify(_ context.Context, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	q := append(f.queues[n.CartID], n)
	if len(q) > f.capacity {
		// Oldest entries are dropped first
		q = q[len(q)-f.capacity:]
	}
	f.queues[n.CartID] = q
}

// Drain returns and forgets the pending notifications of a cart, oldest first
func (f *Feed) Drain(cartID uuid.UUID) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.queues[cartID]
	delete(f.queues, cartID)
	if q == nil {
		return []Notification{}
	}
	return q
}

// Forget drops everything queued for a cart
func (f *Feed) Forget(cartID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.queues, cartID)
}
