package getmenu

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

type service interface {
	GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, error)
}

// GetMenu handles GET /menu/{restaurantId}.
func GetMenu(w http.ResponseWriter, r *http.Request, service service) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "restaurantId"))
	if err != nil {
		response.Message(w, r, http.StatusBadRequest, "Invalid restaurant id")

		return
	}

	menu, err := service.GetMenu(r.Context(), restaurantID)
	if err != nil {
		response.Error(w, r, "Error getting menu", err)

		return
	}

	response.JSON(w, r, http.StatusOK, menu)
}
