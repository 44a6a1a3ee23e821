package listorders

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

type service interface {
	GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error)
	ListOrders(ctx context.Context, limit int) ([]order.Order, error)
}

type queryOrdersRequest struct {
	OrderID string `schema:"orderId"`
	Limit   int    `schema:"limit"`
}

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// ListOrders handles GET /orders. With orderId it returns that order in full,
// otherwise the most recent orders.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		response.Message(w, r, http.StatusBadRequest, "Invalid query parameters")

		return
	}

	if query.OrderID != "" {
		id, err := uuid.Parse(query.OrderID)
		if err != nil {
			response.Message(w, r, http.StatusBadRequest, "Invalid order id")

			return
		}

		o, err := service.GetOrder(r.Context(), id)
		if err != nil {
			response.Error(w, r, "Error getting order", err)

			return
		}

		response.JSON(w, r, http.StatusOK, o)

		return
	}

	if query.Limit < 0 {
		response.Message(w, r, http.StatusBadRequest, "limit must not be negative")

		return
	}

	orders, err := service.ListOrders(r.Context(), query.Limit)
	if err != nil {
		response.Error(w, r, "Error getting orders", err)

		return
	}

	response.JSON(w, r, http.StatusOK, orders)
}
