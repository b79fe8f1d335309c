package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	URL string // redis://[user:pass@]host:port/db
}

// Client wraps a go-redis client.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewClient parses the URL and verifies connectivity with a ping.
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Connected to Redis",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
	)

	return &Client{rdb: rdb, logger: logger}, nil
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the connection.
func (c *Client) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.rdb.Close()
}
