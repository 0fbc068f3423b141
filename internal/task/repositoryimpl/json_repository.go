package repositoryimpl

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/kazz187/taskbot/internal/task"
	"github.com/kazz187/taskbot/pkg/cerr"
	"github.com/kazz187/taskbot/pkg/storage"
)

// DocumentPath is the storage path of the task list.
const DocumentPath = "tasks.json"

var _ task.Repository = (*JSONRepository)(nil)

// JSONRepository holds the task list in memory and rewrites the whole
// tasks.json document after every mutation.
type JSONRepository struct {
	doc *storage.Document

	mu    sync.Mutex
	tasks []task.Task
}

// NewJSONRepository loads the task document from s. A missing or corrupt
// document yields an empty list; corruption is logged, never returned.
func NewJSONRepository(ctx context.Context, s storage.Storage) (*JSONRepository, error) {
	r := &JSONRepository{
		doc:   storage.NewDocument(s, DocumentPath),
		tasks: []task.Task{},
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JSONRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded []task.Task
	changed, err := r.doc.Load(ctx, &loaded)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case errors.Is(err, storage.ErrCorrupt):
		slog.ErrorContext(ctx, "task document is corrupt, starting with an empty list", "path", r.doc.Path(), "error", err)
		r.tasks = []task.Task{}
		return nil
	case err != nil:
		return cerr.WrapStorageReadError("tasks", err)
	}
	if !changed {
		return nil
	}
	if loaded == nil {
		loaded = []task.Task{}
	}
	r.tasks = loaded
	slog.DebugContext(ctx, "task document loaded", "path", r.doc.Path(), "count", len(loaded))
	return nil
}

func (r *JSONRepository) AddTask(ctx context.Context, t task.Task) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.tasks
	r.tasks = append(slices.Clip(prev), t)
	if err := r.save(ctx); err != nil {
		r.tasks = prev
		return 0, err
	}
	return len(r.tasks) - 1, nil
}

func (r *JSONRepository) DeleteTask(ctx context.Context, index int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.tasks) {
		return false, nil
	}
	prev := r.tasks
	r.tasks = slices.Delete(slices.Clone(prev), index, index+1)
	if err := r.save(ctx); err != nil {
		r.tasks = prev
		return false, err
	}
	return true, nil
}

func (r *JSONRepository) CompleteTask(ctx context.Context, index int) (task.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.tasks) {
		return task.Task{}, false, nil
	}
	wasDone := r.tasks[index].Done
	r.tasks[index].Done = true
	if err := r.save(ctx); err != nil {
		r.tasks[index].Done = wasDone
		return task.Task{}, false, err
	}
	return r.tasks[index], true, nil
}

func (r *JSONRepository) ListTasks(_ context.Context) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tasks), nil
}

func (r *JSONRepository) save(ctx context.Context) error {
	if err := r.doc.Save(ctx, r.tasks); err != nil {
		return cerr.WrapStorageWriteError("tasks", err)
	}
	return nil
}
