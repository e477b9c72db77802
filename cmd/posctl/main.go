// Command posctl administers the store's catalog, stock and sales from a shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kdjayakody/kdj-simple-pos/config"
	"github.com/kdjayakody/kdj-simple-pos/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(openServices)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openServices uses the same configuration and backends as the server.
func openServices(ctx context.Context) (*bootstrap.Services, func() error, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	if _, set := os.LookupEnv("LOGGER_LEVEL"); !set {
		cfg.Logger.Level = "warn"
	}
	log := bootstrap.NewLogger(cfg)

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc, err := bootstrap.NewServices(cfg, store, nil, log)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return svc, func() error {
		_ = log.Sync()
		return store.Close()
	}, nil
}
