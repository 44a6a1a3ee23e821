package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/swadseva/ordering/pkg/logger"
)

// MustInit loads .env and config.yaml and installs the default logger.
// A missing .env is fine; environment variables may come from the deployment.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/swadseva")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("SWADSEVA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func setDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.migrations_path", "./migrations")
	viper.SetDefault("postgres.auto_migrate", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("catalog.cache_ttl_seconds", 60)
	viper.SetDefault("rabbitmq.enabled", true)
	viper.SetDefault("rabbitmq.host", "rabbitmq")
	viper.SetDefault("rabbitmq.port", "5672")
	viper.SetDefault("rabbitmq.events_queue", "swadseva.order.events")
	viper.SetDefault("orders.driver_candidates", 5)
	viper.SetDefault("orders.delivery_eta_minutes", 45)
	viper.SetDefault("ratelimit.orders_per_minute", 10)
	viper.SetDefault("ratelimit.burst", 3)
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("cli.api_url", "http://localhost:8080")
	viper.SetDefault("cli.poll_interval_seconds", 10)
	viper.SetDefault("cli.cart.store", "file")
	viper.SetDefault("cli.cart.redis_key", "swadseva:cart:default")
}

// MustInitClient prepares configuration for the terminal client. config.yaml is optional and
// logs go to a file under the user config dir so they do not garble the screen.
func MustInitClient() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ClientDir())
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("SWADSEVA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("error while reading config file: " + err.Error())
		}
	}

	if err := os.MkdirAll(ClientDir(), 0o755); err != nil {
		panic("error while creating client dir: " + err.Error())
	}
	logFile, err := os.OpenFile(
		filepath.Join(ClientDir(), "swadseva.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		panic("error while opening log file: " + err.Error())
	}

	slog.SetDefault(slog.New(logger.NewHandlerWithWriter(logFile, &slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("log.level")),
	})))
}

// ClientDir is where the terminal client keeps its config, cart and log.
func ClientDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".swadseva"
	}

	return filepath.Join(dir, "swadseva")
}

func SetupLogger() {
	handler := logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("log.level")),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
