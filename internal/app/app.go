package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/swadseva/ordering/internal/dal/postgres"
	"github.com/swadseva/ordering/internal/dal/rabbitmq"
	"github.com/swadseva/ordering/internal/dal/redis"
	catalogcache "github.com/swadseva/ordering/internal/dal/repositories/catalog/redis"
	menuitemrepo "github.com/swadseva/ordering/internal/dal/repositories/menuitem/postgres"
	outboxrepo "github.com/swadseva/ordering/internal/dal/repositories/outbox/postgres"
	restaurantrepo "github.com/swadseva/ordering/internal/dal/repositories/restaurant/postgres"
	"github.com/swadseva/ordering/internal/otel"
	"github.com/swadseva/ordering/internal/service/services/catalogsvc"
	"github.com/swadseva/ordering/internal/service/services/ordersvc"
	httptransport "github.com/swadseva/ordering/internal/transport/http"
	outboxworker "github.com/swadseva/ordering/internal/worker/outbox"
)

// App represents the application.
type App struct {
	catalogSvc     *catalogsvc.CatalogService
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	redisClient    *redis.Client
	rabbitClient   *rabbitmq.Client
	otel           *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	a := &App{}

	if viper.GetBool("tracing.enabled") {
		a.otel = otel.MustInitOtel()
	}

	a.postgresClient = postgres.MustNewClient()
	pool := a.postgresClient.Pool()

	catalogOpts := []catalogsvc.Option{
		catalogsvc.WithRestaurantRepository(restaurantrepo.NewPostgresRestaurantRepository(pool)),
		catalogsvc.WithMenuItemRepository(menuitemrepo.NewPostgresMenuItemRepository(pool)),
	}
	if viper.GetBool("redis.enabled") {
		a.redisClient = redis.MustNewClient()
		ttl := time.Duration(viper.GetInt("catalog.cache_ttl_seconds")) * time.Second
		catalogOpts = append(catalogOpts,
			catalogsvc.WithCache(catalogcache.NewCatalogCache(a.redisClient.Redis(), ttl)),
		)
	}
	a.catalogSvc = catalogsvc.MustNewCatalogService(catalogOpts...)

	a.orderSvc = ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(a.postgresClient),
		ordersvc.WithEventsQueue(viper.GetString("rabbitmq.events_queue")),
		ordersvc.WithDriverCandidates(viper.GetInt("orders.driver_candidates")),
		ordersvc.WithDeliveryETA(time.Duration(viper.GetInt("orders.delivery_eta_minutes"))*time.Minute),
	)

	if viper.GetBool("rabbitmq.enabled") {
		a.rabbitClient = rabbitmq.MustNewClient()
		a.outboxWorker = outboxworker.NewWorker(outboxrepo.NewOutboxRepository(pool), a.rabbitClient)
	}

	a.transport = httptransport.NewHTTPTransport(a.catalogSvc, a.orderSvc)
	a.transport.RegisterRoutes()

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.outboxWorker != nil {
		go a.outboxWorker.Start(ctx)
	}

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			slog.Error("Redis connection close error", "error", err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if a.otel != nil {
		if err := a.otel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
}
