package telegram

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kazz187/taskbot/internal/conversation"
)

const DefaultRetryInterval = 3 * time.Second

// Dispatcher consumes converted events. *conversation.Controller implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev conversation.Event) error
}

// Poller long-polls getUpdates and dispatches updates one at a time, in the
// order Telegram delivers them.
type Poller struct {
	client        *Client
	dispatcher    Dispatcher
	timeout       time.Duration
	retryInterval time.Duration
	offset        int
}

func NewPoller(client *Client, d Dispatcher, timeout time.Duration) *Poller {
	return &Poller{
		client:        client,
		dispatcher:    d,
		timeout:       timeout,
		retryInterval: DefaultRetryInterval,
	}
}

// Run polls until ctx is done. Poll failures are logged and retried after
// the retry interval; they never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "telegram poller started", "timeout", p.timeout)
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := p.client.GetUpdates(ctx, p.offset, int(p.timeout/time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.WarnContext(ctx, "failed to poll telegram updates", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.retryInterval):
			}
			continue
		}
		for _, u := range updates {
			p.offset = u.UpdateID + 1
			p.dispatch(ctx, u)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, u tgbotapi.Update) {
	ev, ok := eventOf(u)
	if !ok {
		slog.DebugContext(ctx, "skipping unsupported update", "update_id", u.UpdateID)
		return
	}
	// Dispatch logs its own failures.
	_ = p.dispatcher.Dispatch(ctx, ev)
}
