package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

func newTestCache(t *testing.T, ttl time.Duration) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCatalogCache(rdb, ttl), mr
}

func TestCatalogCache_Restaurants(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetRestaurants(ctx, false)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []restaurant.Restaurant{{
		ID:     uuid.New(),
		Name:   "Punjabi Dhaba",
		Status: restaurant.StatusActive,
		Rating: decimal.RequireFromString("4.5"),
	}}
	require.NoError(t, cache.SetRestaurants(ctx, false, want))

	got, ok, err := cache.GetRestaurants(ctx, false)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.True(t, want[0].Rating.Equal(got[0].Rating))

	_, ok, err = cache.GetRestaurants(ctx, true)
	require.NoError(t, err)
	assert.False(t, ok, "canteen listing is cached separately")
}

func TestCatalogCache_MenuExpires(t *testing.T) {
	cache, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	rest := restaurant.Restaurant{ID: uuid.New(), Name: "NSUT Canteen", IsCanteen: true}
	menu := menuitem.Menu{
		Restaurant: rest,
		MenuItems: []menuitem.MenuItem{{
			ID:           uuid.New(),
			RestaurantID: rest.ID,
			Name:         "Samosa",
			Price:        decimal.NewFromInt(15),
			IsAvailable:  true,
		}},
	}
	require.NoError(t, cache.SetMenu(ctx, menu))

	got, ok, err := cache.GetMenu(ctx, rest.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Samosa", got.MenuItems[0].Name)
	assert.True(t, mr.Exists(menuKey(rest.ID)))

	mr.FastForward(31 * time.Second)

	_, ok, err = cache.GetMenu(ctx, rest.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogCache_CorruptValue(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	id := uuid.New()
	require.NoError(t, mr.Set(menuKey(id), "not json"))

	_, ok, err := cache.GetMenu(context.Background(), id)
	assert.Error(t, err)
	assert.False(t, ok)
}
