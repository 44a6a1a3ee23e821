package catalogsvc

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/dal/interfaces/icatalogcache"
	"github.com/swadseva/ordering/internal/dal/interfaces/imenuitemrepo"
	"github.com/swadseva/ordering/internal/dal/interfaces/irestaurantrepo"
	"github.com/swadseva/ordering/internal/service/errs"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("catalogsvc")

// CatalogService serves restaurants and menus, reading through an optional cache.
type CatalogService struct {
	restaurantRepo irestaurantrepo.IRestaurantRepository
	menuItemRepo   imenuitemrepo.IMenuItemRepository
	cache          icatalogcache.ICatalogCache
}

// Option configures the CatalogService.
type Option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...Option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.restaurantRepo == nil || s.menuItemRepo == nil {
		panic("catalogsvc: restaurant and menu item repositories are required")
	}

	return s
}

// WithRestaurantRepository sets the restaurant repository.
func WithRestaurantRepository(repo irestaurantrepo.IRestaurantRepository) Option {
	return func(s *CatalogService) {
		s.restaurantRepo = repo
	}
}

// WithMenuItemRepository sets the menu item repository.
func WithMenuItemRepository(repo imenuitemrepo.IMenuItemRepository) Option {
	return func(s *CatalogService) {
		s.menuItemRepo = repo
	}
}

// WithCache enables read-through caching.
func WithCache(cache icatalogcache.ICatalogCache) Option {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

// ListRestaurants returns active restaurants, best rated first.
// canteen selects the campus canteen listing instead of regular restaurants.
func (s *CatalogService) ListRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.ListRestaurants",
		trace.WithAttributes(attribute.Bool("canteen", canteen)),
	)
	defer span.End()

	if s.cache != nil {
		cached, ok, err := s.cache.GetRestaurants(ctx, canteen)
		if err != nil {
			slog.Warn("Error reading restaurants from cache", "error", err)
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))

			return cached, nil
		}
	}

	restaurants, err := s.restaurantRepo.Query(ctx, &restaurant.QueryRestaurantsModel{
		IsCanteen: &canteen,
		Status:    restaurant.StatusActive,
	})
	if err != nil {
		return nil, errs.Store("query restaurants", err)
	}
	if restaurants == nil {
		restaurants = []restaurant.Restaurant{}
	}

	if s.cache != nil {
		if err := s.cache.SetRestaurants(ctx, canteen, restaurants); err != nil {
			slog.Warn("Error caching restaurants", "error", err)
		}
	}

	return restaurants, nil
}

// GetMenu returns a restaurant with its menu items ordered by category.
func (s *CatalogService) GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.GetMenu",
		trace.WithAttributes(attribute.String("restaurant.id", restaurantID.String())),
	)
	defer span.End()

	if s.cache != nil {
		cached, ok, err := s.cache.GetMenu(ctx, restaurantID)
		if err != nil {
			slog.Warn("Error reading menu from cache", "restaurant_id", restaurantID, "error", err)
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))

			return cached, nil
		}
	}

	var (
		restaurants []restaurant.Restaurant
		items       []menuitem.MenuItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		restaurants, err = s.restaurantRepo.Query(gctx, &restaurant.QueryRestaurantsModel{
			Ids: []uuid.UUID{restaurantID},
		})
		if err != nil {
			return errs.Store("query restaurant", err)
		}

		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.menuItemRepo.Query(gctx, &menuitem.QueryMenuItemsModel{
			RestaurantIds: []uuid.UUID{restaurantID},
		})
		if err != nil {
			return errs.Store("query menu items", err)
		}

		return nil
	})
	if err := g.Wait(); err != nil {
		return menuitem.Menu{}, err
	}

	if len(restaurants) == 0 {
		return menuitem.Menu{}, errs.NotFound("restaurant", restaurantID)
	}
	if items == nil {
		items = []menuitem.MenuItem{}
	}

	menu := menuitem.Menu{
		Restaurant: restaurants[0],
		MenuItems:  items,
	}

	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, menu); err != nil {
			slog.Warn("Error caching menu", "restaurant_id", restaurantID, "error", err)
		}
	}

	return menu, nil
}
