package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "pharmacy:1:pref:time_range")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "pharmacy:1:pref:time_range", "week"))
	v, err := store.Get(ctx, "pharmacy:1:pref:time_range")
	require.NoError(t, err)
	assert.Equal(t, "week", v)

	// Overwrite wins.
	require.NoError(t, store.Set(ctx, "pharmacy:1:pref:time_range", "year"))
	v, _ = store.Get(ctx, "pharmacy:1:pref:time_range")
	assert.Equal(t, "year", v)
}
