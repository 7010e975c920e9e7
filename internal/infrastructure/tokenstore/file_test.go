package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "token")
	f, err := NewFile(path, []byte("device secret"))
	require.NoError(t, err)

	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)

	require.NoError(t, f.Save(ctx, "abc123"))
	token, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "abc123")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, f.Clear(ctx))
	require.NoError(t, f.Clear(ctx))
	_, err = f.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)
}

func TestFile_WrongKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")

	a, err := NewFile(path, []byte("one"))
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, "abc"))

	b, err := NewFile(path, []byte("two"))
	require.NoError(t, err)
	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFile_EmptyKey(t *testing.T) {
	_, err := NewFile("x", nil)
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	slots := Memories()
	a, b := slots("a"), slots("b")

	require.NoError(t, a.Save(ctx, "tok"))
	got, err := a.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoToken)
}
