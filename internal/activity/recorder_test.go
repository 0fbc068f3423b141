package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/internal/eventbus"
)

func TestRecorder_KeepsMostRecent(t *testing.T) {
	r := NewRecorder(eventbus.New(), 2)
	ctx := context.Background()

	r.record(ctx, eventbus.Event{ID: "1"})
	r.record(ctx, eventbus.Event{ID: "2"})
	r.record(ctx, eventbus.Event{ID: "3"})

	recent := r.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "2", recent[0].ID)
	assert.Equal(t, "3", recent[1].ID)
}

func TestRecorder_Start(t *testing.T) {
	bus := eventbus.New()
	r := NewRecorder(bus, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	// Publish until the recorder has subscribed and picked an event up.
	require.Eventually(t, func() bool {
		bus.PublishNew(eventbus.Event{Type: eventbus.TypeTaskDeleted, TaskIndex: eventbus.Index(2)})
		return len(r.Recent()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not stop")
	}
	assert.Equal(t, eventbus.TypeTaskDeleted, r.Recent()[0].Type)
	require.NotNil(t, r.Recent()[0].TaskIndex)
	assert.Equal(t, 2, *r.Recent()[0].TaskIndex)
}
