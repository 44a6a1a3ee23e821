package irestaurantrepo

import (
	"context"

	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

// IRestaurantRepository is an interface for restaurant postgres repository.
type IRestaurantRepository interface {
	Query(ctx context.Context, filter *restaurant.QueryRestaurantsModel) ([]restaurant.Restaurant, error)
}
