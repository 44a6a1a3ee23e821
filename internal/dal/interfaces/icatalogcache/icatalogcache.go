package icatalogcache

import (
	"context"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

// ICatalogCache caches catalog reads. A miss is reported with ok == false and a nil error.
type ICatalogCache interface {
	GetRestaurants(ctx context.Context, canteen bool) (restaurants []restaurant.Restaurant, ok bool, err error)
	SetRestaurants(ctx context.Context, canteen bool, restaurants []restaurant.Restaurant) error
	GetMenu(ctx context.Context, restaurantID uuid.UUID) (menu menuitem.Menu, ok bool, err error)
	SetMenu(ctx context.Context, menu menuitem.Menu) error
}
