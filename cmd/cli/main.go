package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/swadseva/ordering/internal/cart"
	"github.com/swadseva/ordering/internal/client"
	"github.com/swadseva/ordering/internal/config"
	"github.com/swadseva/ordering/internal/dal/redis"
	"github.com/swadseva/ordering/internal/shell"
)

func main() {
	config.MustInitClient()

	store, closeStore := newCartStore()
	defer closeStore()

	api := client.NewClientFromConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := api.Health(ctx); err != nil {
		slog.Warn("API is not reachable", "url", viper.GetString("cli.api_url"), "error", err)
	}
	cancel()

	c := cart.New(context.Background(), store)
	pollInterval := time.Duration(viper.GetInt("cli.poll_interval_seconds")) * time.Second

	if _, err := tea.NewProgram(shell.New(api, c, pollInterval), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running shell:", err)
		closeStore()
		os.Exit(1)
	}
}

// newCartStore picks the cart snapshot store from cli.cart.store.
func newCartStore() (cart.Store, func()) {
	switch viper.GetString("cli.cart.store") {
	case "redis":
		rc := redis.MustNewClient()

		return cart.NewRedisStore(rc.Redis(), viper.GetString("cli.cart.redis_key")), func() {
			if err := rc.Close(); err != nil {
				slog.Error("Redis connection close error", "error", err)
			}
		}
	default:
		return cart.NewFileStore(filepath.Join(config.ClientDir(), "cart.json")), func() {}
	}
}
