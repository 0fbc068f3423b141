package conversation

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskbot/pkg/cerr"
	"github.com/kazz187/taskbot/pkg/clog"
	"github.com/kazz187/taskbot/pkg/panicerr"
)

// Dispatch is the transport entry point. It runs Handle with per-event log
// attributes, turns a panic into an error and logs the outcome at the level
// of the error code.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	ctx = clog.ContextWithSlog(ctx)
	clog.AddAttributes(ctx, map[string]any{
		"event_id": ulid.Make().String(),
		"user_id":  ev.UserID,
		"kind":     string(Classify(ev).Kind),
	})

	err := panicerr.SafeContext(func(ctx context.Context) error {
		return c.Handle(ctx, ev)
	})(ctx)
	if err != nil {
		cerr.Record(ctx, err)
		clog.Log(ctx, clog.ConnectCodeToLevel(cerr.CodeOf(err).ConnectCode()), "event rejected")
		return err
	}
	slog.DebugContext(ctx, "event handled")
	return nil
}
