package orderticket

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

type service interface {
	PickupTicket(ctx context.Context, orderID uuid.UUID) ([]byte, error)
}

// OrderTicket handles GET /orders/{id}/ticket.png.
func OrderTicket(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, r, http.StatusBadRequest, "Invalid order id")

		return
	}

	png, err := service.PickupTicket(r.Context(), orderID)
	if err != nil {
		response.Error(w, r, "Error rendering pickup ticket", err)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(png); err != nil {
		slog.ErrorContext(r.Context(), "Error sending pickup ticket", "error", err)
	}
}
