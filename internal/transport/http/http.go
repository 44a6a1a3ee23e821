package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/swadseva/ordering/internal/service/models/menuitem"
	"github.com/swadseva/ordering/internal/service/models/order"
	"github.com/swadseva/ordering/internal/service/models/restaurant"
	createorder "github.com/swadseva/ordering/internal/transport/http/create_order"
	getmenu "github.com/swadseva/ordering/internal/transport/http/get_menu"
	listorders "github.com/swadseva/ordering/internal/transport/http/list_orders"
	listrestaurants "github.com/swadseva/ordering/internal/transport/http/list_restaurants"
	orderticket "github.com/swadseva/ordering/internal/transport/http/order_ticket"
	"github.com/swadseva/ordering/internal/transport/http/response"
	updateorderstatus "github.com/swadseva/ordering/internal/transport/http/update_order_status"
	"github.com/swadseva/ordering/pkg/http/middleware/ratelimit"
	"github.com/swadseva/ordering/pkg/http/middleware/trace"
	"github.com/swadseva/ordering/pkg/logger"
)

type catalogService interface {
	ListRestaurants(ctx context.Context, canteen bool) ([]restaurant.Restaurant, error)
	GetMenu(ctx context.Context, restaurantID uuid.UUID) (menuitem.Menu, error)
}

type orderService interface {
	CreateOrder(ctx context.Context, in order.CreateOrderInput) (order.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (order.Order, error)
	ListOrders(ctx context.Context, limit int) ([]order.Order, error)
	UpdateOrderStatus(
		ctx context.Context,
		orderID uuid.UUID,
		status order.Status,
		deliveryStatus string,
	) (order.Order, error)
	PickupTicket(ctx context.Context, orderID uuid.UUID) ([]byte, error)
}

type HTTPTransport struct {
	server         *http.Server
	router         *chi.Mux
	catalogService catalogService
	orderService   orderService
	orderLimiter   *ratelimit.RateLimiter
}

func NewHTTPTransport(catalogService catalogService, orderService orderService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:         server,
		router:         router,
		catalogService: catalogService,
		orderService:   orderService,
		orderLimiter: ratelimit.NewRateLimiter(
			viper.GetFloat64("ratelimit.orders_per_minute"),
			viper.GetInt("ratelimit.burst"),
			10*time.Minute,
		),
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", h.health)

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/restaurants", h.listRestaurants)
		r.Get("/menu/{restaurantId}", h.getMenu)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.With(h.orderLimiter.Limit).Post("/", h.createOrder)
			r.Patch("/{id}/status", h.updateOrderStatus)
			r.Get("/{id}/ticket.png", h.orderTicket)
		})
	})
}

func (h *HTTPTransport) health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPTransport) listRestaurants(w http.ResponseWriter, r *http.Request) {
	listrestaurants.ListRestaurants(w, r, h.catalogService)
}

func (h *HTTPTransport) getMenu(w http.ResponseWriter, r *http.Request) {
	getmenu.GetMenu(w, r, h.catalogService)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderService)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderService)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updateorderstatus.UpdateOrderStatus(w, r, h.orderService)
}

func (h *HTTPTransport) orderTicket(w http.ResponseWriter, r *http.Request) {
	orderticket.OrderTicket(w, r, h.orderService)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
