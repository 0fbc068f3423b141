package task

import "context"

type Repository interface {
	// AddTask appends t and returns its index.
	AddTask(ctx context.Context, t Task) (int, error)
	// DeleteTask removes the task at index. It reports false, and changes
	// nothing, when index is out of range.
	DeleteTask(ctx context.Context, index int) (bool, error)
	// CompleteTask marks the task at index done and returns it. It reports
	// false when index is out of range.
	CompleteTask(ctx context.Context, index int) (Task, bool, error)
	// ListTasks returns a copy of all tasks in insertion order.
	ListTasks(ctx context.Context) ([]Task, error)
	// Reload replaces the in-memory list with the stored document.
	Reload(ctx context.Context) error
}
