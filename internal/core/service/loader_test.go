package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_CurrentLoadSucceeds(t *testing.T) {
	var l Loader
	boom := errors.New("boom")

	require.NoError(t, l.Run(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, l.Run(context.Background(), func(context.Context) error { return boom }), boom)
}

func TestLoader_NewerLoadSupersedesOlder(t *testing.T) {
	var l Loader
	started := make(chan struct{})
	older := make(chan error, 1)

	go func() {
		older <- l.Run(context.Background(), func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return nil
		})
	}()
	<-started

	require.NoError(t, l.Run(context.Background(), func(context.Context) error { return nil }))
	assert.ErrorIs(t, <-older, ErrStale)
}

func TestLoader_UnmountDiscardsResult(t *testing.T) {
	var l Loader
	var rendered []string

	err := l.Run(context.Background(), func(ctx context.Context) error {
		l.Unmount()
		rendered = append(rendered, "late result")
		return nil
	})

	assert.ErrorIs(t, err, ErrStale)
	assert.Len(t, rendered, 1, "fn ran but the caller must drop its output")
}
