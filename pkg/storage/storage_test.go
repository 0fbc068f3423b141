package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	_, err = s.Read(ctx, "tasks.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "tasks.json", []byte("[]")))
	data, err := s.Read(ctx, "tasks.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = os.Stat(filepath.Join(dir, "nested", "tasks.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "base"))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.json", []byte("{}")))
	_, err = os.Stat(filepath.Join(dir, "escape.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "base", "escape.json"))
	assert.NoError(t, err)
}

func TestMemoryStorage_CopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	buf := []byte("abc")
	require.NoError(t, s.Write(ctx, "doc", buf))
	buf[0] = 'x'

	data, err := s.Read(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = s.Read(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	doc := NewDocument(s, "roles.json")

	var v map[string]string
	_, err := doc.Load(ctx, &v)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, doc.Save(ctx, map[string]string{"1": "admin & co"}))
	data, err := s.Read(ctx, "roles.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"1\": \"admin & co\"\n}\n", string(data))

	// our own write is already known
	changed, err := doc.Load(ctx, &v)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Nil(t, v)

	require.NoError(t, s.Write(ctx, "roles.json", []byte(`{"2": "member"}`)))
	changed, err = doc.Load(ctx, &v)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]string{"2": "member"}, v)

	require.NoError(t, s.Write(ctx, "roles.json", []byte(`{`)))
	_, err = doc.Load(ctx, &v)
	assert.ErrorIs(t, err, ErrCorrupt)
}
