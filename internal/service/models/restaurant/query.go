package restaurant

import "github.com/google/uuid"

// QueryRestaurantsModel represents filter parameters for querying restaurants.
type QueryRestaurantsModel struct {
	Ids       []uuid.UUID
	IsCanteen *bool
	Status    Status
}
