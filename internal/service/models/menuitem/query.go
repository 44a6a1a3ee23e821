package menuitem

import "github.com/google/uuid"

// QueryMenuItemsModel represents filter parameters for querying menu items.
type QueryMenuItemsModel struct {
	Ids           []uuid.UUID
	RestaurantIds []uuid.UUID
}
