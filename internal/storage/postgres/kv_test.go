package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenstone/murpg/internal/storage"
	"github.com/ravenstone/murpg/internal/storage/postgres"
	"github.com/ravenstone/murpg/internal/testutil"
)

func TestKV_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	kv := postgres.NewKV(pc.Pool)

	_, found, err := kv.Get(storage.KeyGameSave)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Put(storage.KeyGameSave, []byte(`{"version":"1.0"}`)))

	data, found, err := kv.Get(storage.KeyGameSave)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":"1.0"}`, string(data))

	// Overwrite replaces in place.
	require.NoError(t, kv.Put(storage.KeyGameSave, []byte(`{"version":"1.0","gameTime":42}`)))
	data, found, err = kv.Get(storage.KeyGameSave)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, string(data), "gameTime")

	require.NoError(t, kv.Delete(storage.KeyGameSave))
	_, found, err = kv.Get(storage.KeyGameSave)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is a no-op.
	require.NoError(t, kv.Delete(storage.KeyGameSave))
}

func TestKV_CategoryKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	kv := postgres.NewKV(pc.Pool)

	require.NoError(t, kv.Put(storage.CategoryKey("items"), []byte(`[{"id":1}]`)))
	require.NoError(t, kv.Put(storage.CategoryKey("monsters"), []byte(`[]`)))

	data, found, err := kv.Get(storage.CategoryKey("items"))
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":1}]`, string(data))
}
