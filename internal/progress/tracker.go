package progress

import (
	"context"
	"log"
	"sync"
	"time"
)

// Update is one reported page position.
type Update struct {
	UserID    string
	SessionID string
	TopicID   string
	Page      int
}

// Tracker buffers page updates and writes them out after a quiet period.
// Updates for the same (session, topic) pair coalesce to the latest page.
// Persistence calls for distinct pairs run concurrently; failures are
// logged and never retried.
type Tracker struct {
	mu      sync.Mutex
	pending []Update
	timer   *time.Timer
	delay   time.Duration
	persist func(ctx context.Context, u Update) error
	closed  bool
}

// NewTracker builds a tracker flushing through persist after delay of
// enqueue silence.
func NewTracker(delay time.Duration, persist func(ctx context.Context, u Update) error) *Tracker {
	return &Tracker{delay: delay, persist: persist}
}

// Enqueue records an update and restarts the quiet-period timer.
func (t *Tracker) Enqueue(u Update) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.pending = append(t.pending, u)
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.flush(context.Background())
	})
}

// Flush writes out everything buffered right now.
func (t *Tracker) Flush(ctx context.Context) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
	t.flush(ctx)
}

// Close flushes pending updates and rejects any further enqueues.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
	t.flush(context.Background())
}

func (t *Tracker) flush(ctx context.Context) {
	t.mu.Lock()
	batch := t.pending
	t.pending = nil
	t.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	// Last write wins per (session, topic).
	latest := make(map[string]Update, len(batch))
	order := make([]string, 0, len(batch))
	for _, u := range batch {
		key := u.SessionID + "|" + u.TopicID
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = u
	}

	var wg sync.WaitGroup
	for _, key := range order {
		u := latest[key]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.persist(ctx, u); err != nil {
				log.Printf("progress flush session=%s topic=%s: %v", u.SessionID, u.TopicID, err)
			}
		}()
	}
	wg.Wait()
}
