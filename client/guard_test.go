package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/lending/common/lending"
)

func TestLocalGuard_AcquireRelease(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	require.NoError(t, g.Acquire(ctx, 1))

	// Second acquire for the same book is rejected locally
	err := g.Acquire(ctx, 1)
	require.Error(t, err)
	assert.True(t, lending.IsKind(err, lending.KindBusy))

	// Other books are unaffected
	require.NoError(t, g.Acquire(ctx, 2))

	// Release frees the book for the next operation
	g.Release(ctx, 1)
	require.NoError(t, g.Acquire(ctx, 1))
}

func TestLocalGuard_ReleaseUnknownIsHarmless(t *testing.T) {
	g := NewLocalGuard()
	g.Release(context.Background(), 99)
	require.NoError(t, g.Acquire(context.Background(), 99))
}
