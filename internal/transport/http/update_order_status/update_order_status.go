package updateorderstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

type service interface {
	UpdateOrderStatus(
		ctx context.Context,
		orderID uuid.UUID,
		status order.Status,
		deliveryStatus string,
	) (order.Order, error)
}

var validate = validator.New()

type updateStatusRequest struct {
	Status         string `json:"status"         validate:"required"`
	DeliveryStatus string `json:"deliveryStatus" validate:"max=50"`
}

type updateStatusResponse struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
}

// UpdateOrderStatus handles PATCH /orders/{id}/status.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, r, http.StatusBadRequest, "Invalid order id")

		return
	}

	req := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.InfoContext(r.Context(), "Error decoding request body for status update", "error", err)
		response.Message(w, r, http.StatusBadRequest, "Invalid request body")

		return
	}
	if err := validate.Struct(&req); err != nil {
		response.Message(w, r, http.StatusBadRequest, "Missing required field status")

		return
	}

	updated, err := service.UpdateOrderStatus(r.Context(), orderID, order.Status(req.Status), req.DeliveryStatus)
	if err != nil {
		response.Error(w, r, "Error updating order status", err)

		return
	}

	response.JSON(w, r, http.StatusOK, updateStatusResponse{Success: true, Order: updated})
}
