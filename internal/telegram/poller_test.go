package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/internal/conversation"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []conversation.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev conversation.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return nil
}

func (d *recordingDispatcher) received() []conversation.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]conversation.Event(nil), d.events...)
}

func TestPoller_Run(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.reply("getUpdates", `{"ok":true,"result":[
		{"update_id":41,"message":{"message_id":1,"from":{"id":5},"chat":{"id":5},"text":"/start"}},
		{"update_id":42,"edited_message":{"message_id":1}},
		{"update_id":43,"message":{"message_id":2,"from":{"id":5},"chat":{"id":5},"text":"hello"}}
	]}`)

	d := &recordingDispatcher{}
	p := NewPoller(NewClient(srv.URL, "TOKEN"), d, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(api.recorded()) >= 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	events := d.received()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, "/start", events[0].Text)
	assert.Equal(t, "hello", events[1].Text)

	// the second poll acknowledges everything up to the last update
	calls := api.recorded()
	assert.Equal(t, "44", calls[1].Form.Get("offset"))
}

func TestPoller_RetriesAfterError(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.reply("getUpdates", `{"ok":false,"error_code":502,"description":"Bad Gateway"}`)

	p := NewPoller(NewClient(srv.URL, "TOKEN"), &recordingDispatcher{}, 0)
	p.retryInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(api.recorded()) >= 3
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
