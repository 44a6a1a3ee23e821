package imenuitemrepo

import (
	"context"

	"github.com/swadseva/ordering/internal/service/models/menuitem"
)

// IMenuItemRepository is an interface for menu item postgres repository.
type IMenuItemRepository interface {
	Query(ctx context.Context, filter *menuitem.QueryMenuItemsModel) ([]menuitem.MenuItem, error)
}
