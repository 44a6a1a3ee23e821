package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
)

const connectTimeout = 10 * time.Second

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx.
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// MustNewClient connects to Postgres and, unless postgres.auto_migrate is off, applies pending
// goose migrations including the catalog seed.
func MustNewClient() *Client {
	config, err := pgxpool.ParseConfig(connString())
	if err != nil {
		panic(fmt.Sprintf("Failed to parse postgres config: %v", err))
	}
	if maxConns := viper.GetInt32("postgres.max_conns"); maxConns > 0 {
		config.MaxConns = maxConns
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		panic(fmt.Sprintf("Failed to create postgres pool: %v", err))
	}
	if err := pool.Ping(ctx); err != nil {
		panic(fmt.Sprintf("Failed to connect to postgres: %v", err))
	}

	if viper.GetBool("postgres.auto_migrate") {
		if err := migrate(pool); err != nil {
			panic(err)
		}
	}

	return &Client{
		pool: pool,
	}
}

func connString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("SWADSEVA_PG_HOST"),
		viper.GetString("postgres.port"),
		os.Getenv("SWADSEVA_PG_USER"),
		os.Getenv("SWADSEVA_PG_PASSWORD"),
		os.Getenv("SWADSEVA_PG_DB"),
		viper.GetString("postgres.sslmode"),
	)
}

// migrate runs goose over the pool through the database/sql adapter.
func migrate(pool *pgxpool.Pool) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	dir := viper.GetString("postgres.migrations_path")
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations from %s: %w", dir, err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	slog.Info("Database schema up to date", "version", version)

	return nil
}
