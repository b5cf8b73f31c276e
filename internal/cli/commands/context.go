// Package commands implements the dgc subcommands.
package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/glossarium/dgc/internal/cli/config"
	"github.com/glossarium/dgc/pkg/dgc"
)

type configKey struct{}
type clientKey struct{}
type loggerKey struct{}

// ErrNoClient is returned by commands that need a catalog connection when
// no URL was configured.
var ErrNoClient = errors.New("catalog URL not configured (set --url, DGC_URL, or url in dgc.yaml)")

// WithConfig stores the CLI configuration in ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom retrieves the CLI configuration from ctx.
func ConfigFrom(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Timeout:      config.DefaultTimeout,
		Retries:      config.DefaultRetries,
		OutputFormat: config.DefaultOutput,
	}
}

// WithClient stores the catalog client in ctx.
func WithClient(ctx context.Context, client *dgc.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// ClientFrom retrieves the catalog client from ctx.
func ClientFrom(ctx context.Context) (*dgc.Client, error) {
	if c, ok := ctx.Value(clientKey{}).(*dgc.Client); ok {
		return c, nil
	}
	return nil, ErrNoClient
}

// WithLogger stores the logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom retrieves the logger from ctx.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
