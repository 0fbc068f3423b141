package repositoryimpl

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/kazz187/taskbot/internal/role"
	"github.com/kazz187/taskbot/pkg/cerr"
	"github.com/kazz187/taskbot/pkg/storage"
)

const DocumentPath = "roles.json"

var _ role.Repository = (*JSONRepository)(nil)

// JSONRepository keeps the user→role map in memory and rewrites roles.json
// after every change. Keys are the decimal user IDs.
type JSONRepository struct {
	doc *storage.Document

	mu    sync.Mutex
	roles map[string]role.Role
}

func NewJSONRepository(ctx context.Context, s storage.Storage) (*JSONRepository, error) {
	r := &JSONRepository{
		doc:   storage.NewDocument(s, DocumentPath),
		roles: map[string]role.Role{},
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (r *JSONRepository) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded map[string]role.Role
	changed, err := r.doc.Load(ctx, &loaded)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case errors.Is(err, storage.ErrCorrupt):
		slog.ErrorContext(ctx, "role document is corrupt, starting with no roles", "path", r.doc.Path(), "error", err)
		r.roles = map[string]role.Role{}
		return nil
	case err != nil:
		return cerr.WrapStorageReadError("roles", err)
	}
	if !changed {
		return nil
	}
	if loaded == nil {
		loaded = map[string]role.Role{}
	}
	r.roles = loaded
	slog.DebugContext(ctx, "role document loaded", "path", r.doc.Path(), "count", len(loaded))
	return nil
}

func (r *JSONRepository) SetRole(ctx context.Context, userID int64, ro role.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set(ctx, key(userID), ro)
}

func (r *JSONRepository) GetRole(_ context.Context, userID int64) (role.Role, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ro, ok := r.roles[key(userID)]
	return ro, ok
}

func (r *JSONRepository) AddIfAbsent(ctx context.Context, userID int64, ro role.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(userID)
	if _, ok := r.roles[k]; ok {
		return false, nil
	}
	if err := r.set(ctx, k, ro); err != nil {
		return false, err
	}
	return true, nil
}

func (r *JSONRepository) ListByRole(ctx context.Context, ro role.Role) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []int64
	for k, v := range r.roles {
		if v != ro {
			continue
		}
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			slog.WarnContext(ctx, "skipping non-numeric user id in role document", "key", k)
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// set must be called with mu held. The map is replaced, not mutated, so a
// failed save leaves the previous state in place.
func (r *JSONRepository) set(ctx context.Context, k string, ro role.Role) error {
	next := maps.Clone(r.roles)
	next[k] = ro
	if err := r.doc.Save(ctx, next); err != nil {
		return cerr.WrapStorageWriteError("roles", err)
	}
	r.roles = next
	return nil
}
