package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

const keyPrefix = "swadseva:catalog:"

// CatalogCache stores catalog reads as JSON values with a TTL.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCatalogCache creates a new catalog cache.
func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func restaurantsKey(canteen bool) string {
	return keyPrefix + "restaurants:canteen=" + strconv.FormatBool(canteen)
}

func menuKey(restaurantID uuid.UUID) string {
	return keyPrefix + "menu:" + restaurantID.String()
}

// GetRestaurants returns the cached restaurant list.
func (c *CatalogCache) GetRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, bool, error) {
	var restaurants []restaurant.Restaurant
	ok, err := c.get(ctx, restaurantsKey(canteen), &restaurants)

	return restaurants, ok, err
}

// SetRestaurants caches a restaurant list.
func (c *CatalogCache) SetRestaurants(ctx context.Context, canteen bool, restaurants []restaurant.Restaurant) error {
	return c.set(ctx, restaurantsKey(canteen), restaurants)
}

// GetMenu returns the cached menu of a restaurant.
func (c *CatalogCache) GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, bool, error) {
	var menu menuitem.Menu
	ok, err := c.get(ctx, menuKey(restaurantID), &menu)

	return menu, ok, err
}

// SetMenu caches a menu under its restaurant id.
func (c *CatalogCache) SetMenu(ctx context.Context, menu menuitem.Menu) error {
	return c.set(ctx, menuKey(menu.Restaurant.ID), menu)
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return true, nil
}

func (c *CatalogCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
