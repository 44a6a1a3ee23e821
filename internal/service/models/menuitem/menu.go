package menuitem

import "github.com/swadseva/ordering/internal/service/models/restaurant"

// Menu is a restaurant together with its menu items.
type Menu struct {
	Restaurant restaurant.Restaurant `json:"restaurant"`
	MenuItems  []MenuItem            `json:"menuItems"`
}
