package listrestaurants

import (
	"context"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

type service interface {
	ListRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, error)
}

type listRestaurantsRequest struct {
	Canteen bool `schema:"canteen"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListRestaurants handles GET /restaurants.
func ListRestaurants(w http.ResponseWriter, r *http.Request, service service) {
	query := &listRestaurantsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.Message(w, r, http.StatusBadRequest, "canteen must be true or false")

		return
	}

	restaurants, err := service.ListRestaurants(r.Context(), query.Canteen)
	if err != nil {
		response.Error(w, r, "Error listing restaurants", err)

		return
	}

	response.JSON(w, r, http.StatusOK, restaurants)
}
