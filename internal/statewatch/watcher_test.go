package statewatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/internal/role"
	rolerepo "github.com/kazz187/taskbot/internal/role/repositoryimpl"
	taskrepo "github.com/kazz187/taskbot/internal/task/repositoryimpl"
	"github.com/kazz187/taskbot/pkg/storage"
)

func TestWatcher_ReloadsEditedDocuments(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	tasks, err := taskrepo.NewJSONRepository(ctx, s)
	require.NoError(t, err)
	roles, err := rolerepo.NewJSONRepository(ctx, s)
	require.NoError(t, err)

	w := New(s.BasePath(), map[string]Reloader{
		"tasks.json": tasks,
		"roles.json": roles,
	})
	w.debounce = 20 * time.Millisecond
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	<-w.started

	require.NoError(t, os.WriteFile(filepath.Join(s.BasePath(), "tasks.json"),
		[]byte(`[{"user_id": 987654321, "text": "edited by hand", "deadline": null, "done": false}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.BasePath(), "roles.json"),
		[]byte(`{"111111": "admin"}`), 0o644))

	require.Eventually(t, func() bool {
		list, err := tasks.ListTasks(ctx)
		return err == nil && len(list) == 1 && list[0].Text == "edited by hand"
	}, 3*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		r, ok := roles.GetRole(ctx, 111111)
		return ok && r == role.Admin
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, w.Run(context.Background()))
}
