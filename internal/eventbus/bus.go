// Package eventbus fans domain change events out to in-process subscribers.
package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	TypeRoleAssigned  Type = "role_assigned"
	TypeMemberAdded   Type = "member_added"
	TypeTaskCreated   Type = "task_created"
	TypeTaskCompleted Type = "task_completed"
	TypeTaskDeleted   Type = "task_deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	ActorID   int64     `json:"actor_id"`
	UserID    int64     `json:"user_id,omitempty"`
	TaskIndex *int      `json:"task_index,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Index is the TaskIndex of an event about a task. Position 0 is a real
// task, so events about roles leave TaskIndex nil instead.
func Index(i int) *int {
	return &i
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan Event) {
	id := ulid.Make().String()
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish never blocks: a subscriber whose buffer is full misses the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// PublishNew stamps event with a fresh ID and the current time, then publishes it.
func (b *Bus) PublishNew(event Event) {
	event.ID = ulid.Make().String()
	event.CreatedAt = time.Now()
	b.Publish(event)
}
