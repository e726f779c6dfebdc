package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/oreplan/internal/adapters/storage"
	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/alejandrodnm/oreplan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(typeID int, age time.Duration, prices ...float64) ports.CachedOrders {
	e := ports.CachedOrders{
		TypeID:    typeID,
		FetchedAt: time.Now().UTC().Add(-age).Truncate(time.Millisecond),
	}
	for i, p := range prices {
		e.Orders = append(e.Orders, domain.Order{
			OrderID:      int64(typeID*100 + i),
			TypeID:       typeID,
			LocationID:   60003760,
			VolumeRemain: float64(10 * (i + 1)),
			Price:        p,
		})
	}
	return e
}

func TestSQLiteCache_PutAndGet(t *testing.T) {
	c, err := storage.NewSQLiteCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	want := makeEntry(62516, time.Minute, 1234.4, 1250)
	require.NoError(t, c.Put(ctx, want))

	got, found, err := c.Get(ctx, 62516)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want.TypeID, got.TypeID)
	assert.True(t, want.FetchedAt.Equal(got.FetchedAt))
	assert.Equal(t, want.Orders, got.Orders)
	assert.False(t, c.Expired(got))
}

func TestSQLiteCache_Missing(t *testing.T) {
	c, err := storage.NewSQLiteCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer c.Close()

	_, found, err := c.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteCache_PutReplaces(t *testing.T) {
	c, err := storage.NewSQLiteCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, makeEntry(7, 10*time.Minute, 1, 2, 3)))
	require.NoError(t, c.Put(ctx, makeEntry(7, 0, 9)))

	got, found, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, 9.0, got.Orders[0].Price)
}

func TestSQLiteCache_EmptyFetchIsCached(t *testing.T) {
	c, err := storage.NewSQLiteCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, makeEntry(7, 0)))

	got, found, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, found, "un type sin órdenes también es una respuesta válida")
	assert.Empty(t, got.Orders)
}

func TestSQLiteCache_ExpiredAndPrune(t *testing.T) {
	c, err := storage.NewSQLiteCache(":memory:", time.Hour)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, makeEntry(1, 2*time.Hour, 5)))
	require.NoError(t, c.Put(ctx, makeEntry(2, time.Minute, 5)))

	old, found, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, c.Expired(old))

	n, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, found, err = c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSQLiteCache_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")
	ctx := context.Background()

	c, err := storage.NewSQLiteCache(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, makeEntry(3, time.Minute, 4)))
	require.NoError(t, c.Put(ctx, makeEntry(4, 3*time.Hour, 4)))
	require.NoError(t, c.Put(ctx, makeEntry(5, 48*time.Hour, 4)))
	require.NoError(t, c.Close())

	c, err = storage.NewSQLiteCache(path, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	_, found, err := c.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)

	// caducada pero reciente: sigue ahí hasta un Prune explícito
	old, found, err := c.Get(ctx, 4)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, c.Expired(old))

	// el prune al abrir ya quitó la de hace dos días
	_, found, err = c.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, found)
}
