package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/transport/http/response"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, in order.CreateOrderInput) (order.Order, error)
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}()

// itemInCreateOrderRequest represents a cart line in a create order request.
type itemInCreateOrderRequest struct {
	ID           string          `json:"id"           validate:"required,uuid"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"     validate:"gte=1"`
	Instructions string          `json:"instructions" validate:"max=500"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	CustomerName    string                     `json:"customerName"    validate:"required,max=100"`
	CustomerPhone   string                     `json:"customerPhone"   validate:"required,max=20"`
	CustomerEmail   string                     `json:"customerEmail"   validate:"omitempty,email"`
	RestaurantID    string                     `json:"restaurantId"    validate:"required,uuid"`
	OrderType       string                     `json:"orderType"       validate:"required,oneof=delivery takeaway"`
	Items           []itemInCreateOrderRequest `json:"items"           validate:"required,min=1,dive"`
	DeliveryAddress string                     `json:"deliveryAddress" validate:"max=500"`
	Notes           string                     `json:"notes"           validate:"max=1000"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validate.Struct(r)
}

// toModel converts createOrderRequest to order.CreateOrderInput. Call after Validate.
func (r *createOrderRequest) toModel() order.CreateOrderInput {
	items := make([]order.LineInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = order.LineInput{
			MenuItemID:   uuid.MustParse(item.ID),
			Price:        item.Price,
			Quantity:     item.Quantity,
			Instructions: item.Instructions,
		}
	}

	return order.CreateOrderInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerEmail:   r.CustomerEmail,
		RestaurantID:    uuid.MustParse(r.RestaurantID),
		OrderType:       order.Type(r.OrderType),
		Items:           items,
		DeliveryAddress: r.DeliveryAddress,
		Notes:           r.Notes,
	}
}

type createOrderResponse struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
}

// CreateOrder handles POST /orders.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.InfoContext(r.Context(), "Error decoding request body for create order", "error", err)
		response.Message(w, r, http.StatusBadRequest, "Invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		slog.InfoContext(r.Context(), "Error validating request body for create order", "error", err)
		response.Message(w, r, http.StatusBadRequest, validationMessage(err))

		return
	}

	created, err := service.CreateOrder(r.Context(), req.toModel())
	if err != nil {
		response.Error(w, r, "Error creating order", err)

		return
	}

	response.JSON(w, r, http.StatusCreated, createOrderResponse{Success: true, Order: created})
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request"
	}

	fe := fieldErrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "createOrderRequest.")
	switch fe.Tag() {
	case "required":
		return "Missing required field " + field
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	default:
		return field + " is invalid"
	}
}
