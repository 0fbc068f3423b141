package repositoryimpl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskbot/internal/role"
	"github.com/kazz187/taskbot/pkg/storage"
)

func TestJSONRepository_SetAndGet(t *testing.T) {
	ctx := context.Background()
	r, err := NewJSONRepository(ctx, storage.NewMemoryStorage())
	require.NoError(t, err)

	_, ok := r.GetRole(ctx, 42)
	assert.False(t, ok)

	require.NoError(t, r.SetRole(ctx, 42, role.Member))
	require.NoError(t, r.SetRole(ctx, 42, role.Admin))
	got, ok := r.GetRole(ctx, 42)
	require.True(t, ok)
	assert.Equal(t, role.Admin, got)
}

func TestJSONRepository_AddIfAbsent(t *testing.T) {
	ctx := context.Background()
	r, err := NewJSONRepository(ctx, storage.NewMemoryStorage())
	require.NoError(t, err)
	require.NoError(t, r.SetRole(ctx, 1, role.Admin))

	added, err := r.AddIfAbsent(ctx, 1, role.Member)
	require.NoError(t, err)
	assert.False(t, added)
	got, _ := r.GetRole(ctx, 1)
	assert.Equal(t, role.Admin, got)

	added, err = r.AddIfAbsent(ctx, 2, role.Member)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestJSONRepository_ListByRole(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Write(ctx, DocumentPath, []byte(`{"300": "admin", "100": "admin", "200": "member", "bogus": "admin"}`)))

	r, err := NewJSONRepository(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 300}, r.ListByRole(ctx, role.Admin))
	assert.Equal(t, []int64{200}, r.ListByRole(ctx, role.Member))
}

func TestJSONRepository_Persists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	r, err := NewJSONRepository(ctx, s)
	require.NoError(t, err)
	require.NoError(t, r.SetRole(ctx, 987654321, role.Member))

	data, err := os.ReadFile(filepath.Join(dir, DocumentPath))
	require.NoError(t, err)
	assert.JSONEq(t, `{"987654321": "member"}`, string(data))

	reopened, err := NewJSONRepository(ctx, s)
	require.NoError(t, err)
	got, ok := reopened.GetRole(ctx, 987654321)
	require.True(t, ok)
	assert.Equal(t, role.Member, got)
}

func TestJSONRepository_CorruptDocumentLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Write(ctx, DocumentPath, []byte(`["not", "a", "map"]`)))

	r, err := NewJSONRepository(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, r.ListByRole(ctx, role.Admin))
}
