package role

import "context"

type Repository interface {
	SetRole(ctx context.Context, userID int64, r Role) error
	GetRole(ctx context.Context, userID int64) (Role, bool)
	// AddIfAbsent assigns r only when userID has no role yet. It reports
	// whether the role was assigned.
	AddIfAbsent(ctx context.Context, userID int64, r Role) (bool, error)
	// ListByRole returns the users holding r, in ascending order.
	ListByRole(ctx context.Context, r Role) []int64
	Reload(ctx context.Context) error
}
