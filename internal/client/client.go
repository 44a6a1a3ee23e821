// Package client talks to the SwadSeva HTTP API on behalf of the terminal shell.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/swadseva/ordering/internal/cart"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// CheckoutRequest is the body of POST /api/orders.
type CheckoutRequest struct {
	CustomerName    string              `json:"customerName"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerEmail   string              `json:"customerEmail,omitempty"`
	RestaurantID    uuid.UUID           `json:"restaurantId"`
	OrderType       order.Type          `json:"orderType"`
	Items           []cart.CheckoutLine `json:"items"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

type orderEnvelope struct {
	Success bool        `json:"success"`
	Order   order.Order `json:"order"`
}

// Client is a thin JSON client for the ordering API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewClientFromConfig creates a client for cli.api_url.
func NewClientFromConfig() *Client {
	return NewClient(viper.GetString("cli.api_url"))
}

// Health checks that the API is reachable.
func (c *Client) Health(ctx context.Context) error {
	var body map[string]string

	return c.do(ctx, http.MethodGet, "/health", nil, &body)
}

func (c *Client) ListRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, error) {
	q := url.Values{"canteen": {strconv.FormatBool(canteen)}}

	var restaurants []restaurant.Restaurant
	if err := c.do(ctx, http.MethodGet, "/api/restaurants?"+q.Encode(), nil, &restaurants); err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return restaurants, nil
}

func (c *Client) GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, error) {
	var menu menuitem.Menu
	if err := c.do(ctx, http.MethodGet, "/api/menu/"+restaurantID.String(), nil, &menu); err != nil {
		return menuitem.Menu{}, fmt.Errorf("failed to get menu: %w", err)
	}

	return menu, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CheckoutRequest) (order.Order, error) {
	var resp orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return order.Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	return resp.Order, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID uuid.UUID) (order.Order, error) {
	q := url.Values{"orderId": {orderID.String()}}

	var o order.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders?"+q.Encode(), nil, &o); err != nil {
		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

func (c *Client) UpdateOrderStatus(
	ctx context.Context,
	orderID uuid.UUID,
	status order.Status,
	deliveryStatus string,
) (order.Order, error) {
	body := map[string]string{"status": string(status)}
	if deliveryStatus != "" {
		body["deliveryStatus"] = deliveryStatus
	}

	var resp orderEnvelope
	path := "/api/orders/" + orderID.String() + "/status"
	if err := c.do(ctx, http.MethodPatch, path, body, &resp); err != nil {
		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	return resp.Order, nil
}

// PickupTicket downloads the QR PNG of a takeaway order.
func (c *Client) PickupTicket(ctx context.Context, orderID uuid.UUID) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/orders/"+orderID.String()+"/ticket.png", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get pickup ticket: %w", err)
	}
	defer resp.Body.Close()

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pickup ticket: %w", err)
	}

	return png, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// send performs the request and turns non-2xx answers into an APIError.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}

		return nil, &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	return resp, nil
}
