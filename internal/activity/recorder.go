// Package activity keeps a log of recent domain changes.
package activity

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kazz187/taskbot/internal/eventbus"
)

const DefaultCapacity = 100

// Recorder logs every bus event and keeps the most recent ones in memory.
type Recorder struct {
	bus      *eventbus.Bus
	capacity int

	mu     sync.RWMutex
	recent []eventbus.Event
}

func NewRecorder(bus *eventbus.Bus, capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{bus: bus, capacity: capacity}
}

// Start consumes events until ctx is done.
func (r *Recorder) Start(ctx context.Context) {
	subID, ch := r.bus.Subscribe(256)
	defer r.bus.Unsubscribe(subID)

	slog.Info("activity recorder started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("activity recorder stopped")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			r.record(ctx, ev)
		}
	}
}

func (r *Recorder) record(ctx context.Context, ev eventbus.Event) {
	attrs := []any{
		"type", ev.Type,
		"actor_id", ev.ActorID,
		"target_user_id", ev.UserID,
		"detail", ev.Detail,
	}
	if ev.TaskIndex != nil {
		attrs = append(attrs, "task_index", *ev.TaskIndex)
	}
	slog.InfoContext(ctx, "activity", attrs...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent = append(r.recent, ev)
	if over := len(r.recent) - r.capacity; over > 0 {
		r.recent = slices.Delete(r.recent, 0, over)
	}
}

// Recent returns the recorded events, oldest first.
func (r *Recorder) Recent() []eventbus.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.recent)
}
