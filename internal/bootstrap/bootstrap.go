// Package bootstrap builds the logger, document store and usecases shared by
// the gRPC server and posctl.
package bootstrap

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/kdjayakody/kdj-simple-pos/config"
	"github.com/kdjayakody/kdj-simple-pos/internal/category"
	catUCPkg "github.com/kdjayakody/kdj-simple-pos/internal/category/usecase"
	"github.com/kdjayakody/kdj-simple-pos/internal/docstore"
	"github.com/kdjayakody/kdj-simple-pos/internal/inventory"
	invRepoPkg "github.com/kdjayakody/kdj-simple-pos/internal/inventory/repository"
	invUCPkg "github.com/kdjayakody/kdj-simple-pos/internal/inventory/usecase"
	"github.com/kdjayakody/kdj-simple-pos/internal/product"
	prodRepoPkg "github.com/kdjayakody/kdj-simple-pos/internal/product/repository"
	prodUCPkg "github.com/kdjayakody/kdj-simple-pos/internal/product/usecase"
	"github.com/kdjayakody/kdj-simple-pos/internal/report"
	reportUCPkg "github.com/kdjayakody/kdj-simple-pos/internal/report/usecase"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	saleRepoPkg "github.com/kdjayakody/kdj-simple-pos/internal/sale/repository"
	saleUCPkg "github.com/kdjayakody/kdj-simple-pos/internal/sale/usecase"
	"github.com/kdjayakody/kdj-simple-pos/pkg/i18n"
	"github.com/kdjayakody/kdj-simple-pos/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		File:              cfg.Logger.File,
		MaxSizeMB:         cfg.Logger.MaxSizeMB,
		MaxBackups:        cfg.Logger.MaxBackups,
		MaxAgeDays:        cfg.Logger.MaxAgeDays,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}
	return logger.NewZapLogger(logConfig)
}

// Store is an opened document store plus whatever connection backs it.
type Store struct {
	*docstore.Store
	closers []func() error
}

func (s *Store) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	return err
}

// OpenStore connects the backend named by STORE_BACKEND.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*Store, error) {
	timeout := cfg.Store.LockTimeout
	switch cfg.Store.Backend {
	case "memory":
		log.Warn("using in-memory document store, data is lost on exit")
		return &Store{Store: docstore.New(docstore.NewMemoryBackend(timeout), log)}, nil

	case "file":
		backend, err := docstore.NewFileBackend(cfg.Store.DataDir, timeout)
		if err != nil {
			return nil, err
		}
		log.Info("using file document store", zap.String("data_dir", cfg.Store.DataDir))
		return &Store{Store: docstore.New(backend, log)}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: connect redis: %w", docstore.ErrIO, err)
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		backend := docstore.NewRedisBackend(client, cfg.Redis.KeyPrefix, timeout)
		return &Store{Store: docstore.New(backend, log), closers: []func() error{client.Close}}, nil

	case "postgres":
		db, err := openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		backend := docstore.NewPGBackend(db, timeout)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("connected to postgres", zap.String("db_name", cfg.Postgres.DBName))
		return &Store{Store: docstore.New(backend, log), closers: []func() error{db.Close}}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: open postgres: %w", docstore.ErrIO, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, multierr.Combine(fmt.Errorf("%w: ping postgres: %w", docstore.ErrIO, err), db.Close())
	}
	return db, nil
}

// Services holds every usecase, built over one store.
type Services struct {
	Products       product.Repository
	Ledger         sale.Ledger
	ProductUseCase product.UseCase
	SaleUseCase    sale.UseCase
	Inventory      inventory.UseCase
	Report         report.UseCase
	Categories     category.UseCase
	Translator     *i18n.Translator
}

// NewServices wires repositories and usecases. publisher may be nil.
func NewServices(cfg *config.Config, store docstore.DocumentStore, publisher sale.EventPublisher, log logger.ZapLogger) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	tr, err := i18n.New(cfg.Server.DefaultLocale)
	if err != nil {
		return nil, err
	}

	prodRepo := prodRepoPkg.NewDocumentRepository(store)
	ledger := saleRepoPkg.NewDocumentLedger(store, loc, log)
	invRepo := invRepoPkg.NewDocumentRepository(store)
	invUC := invUCPkg.NewInventoryUseCase(prodRepo, invRepo, log)

	return &Services{
		Products:       prodRepo,
		Ledger:         ledger,
		ProductUseCase: prodUCPkg.NewProductUseCase(prodRepo, log),
		SaleUseCase: saleUCPkg.NewSaleUseCase(prodRepo, invUC, ledger, publisher, tr, saleUCPkg.Config{
			StoreName: cfg.Server.StoreName,
			Location:  loc,
		}, log),
		Inventory:  invUC,
		Report:     reportUCPkg.NewReportUseCase(ledger, loc, log),
		Categories: catUCPkg.NewCategoryUseCase(prodRepo, log),
		Translator: tr,
	}, nil
}
