package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/kazz187/taskbot/internal/role"
)

const maxNotifyWorkers = 8

// notifyAdmins sends text to every admin. Deliveries are independent: one
// failure neither stops the others nor is retried.
func (c *Controller) notifyAdmins(ctx context.Context, text string) {
	admins := c.roles.ListByRole(ctx, role.Admin)
	if len(admins) == 0 {
		return
	}
	p := pool.New().WithMaxGoroutines(maxNotifyWorkers).WithErrors().WithContext(ctx)
	for _, id := range admins {
		p.Go(func(ctx context.Context) error {
			if err := c.messenger.SendText(ctx, id, text, nil); err != nil {
				return fmt.Errorf("notify admin %d: %w", id, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to notify some admins", "admins", len(admins), "error", err)
	}
}
