package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kdjayakody/kdj-simple-pos/api/posv1"
	"github.com/kdjayakody/kdj-simple-pos/config"
	"github.com/kdjayakody/kdj-simple-pos/internal/bootstrap"
	"github.com/kdjayakody/kdj-simple-pos/internal/middleware"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale"
	"github.com/kdjayakody/kdj-simple-pos/internal/sale/event"
	"github.com/kdjayakody/kdj-simple-pos/pkg/broker"
	"golang.org/x/sync/errgroup"

	catH "github.com/kdjayakody/kdj-simple-pos/internal/category/handler"
	invH "github.com/kdjayakody/kdj-simple-pos/internal/inventory/handler"
	invListenerPkg "github.com/kdjayakody/kdj-simple-pos/internal/inventory/listener"
	prodH "github.com/kdjayakody/kdj-simple-pos/internal/product/handler"
	reportH "github.com/kdjayakody/kdj-simple-pos/internal/report/handler"
	saleH "github.com/kdjayakody/kdj-simple-pos/internal/sale/handler"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize Logger
	appLogger := bootstrap.NewLogger(cfg)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the document store
	store, err := bootstrap.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("could not open document store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer store.Close()

	// 4. Kafka producer for sale events
	var publisher sale.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.SalesTopic})
		defer producer.Close()
		publisher = event.NewKafkaPublisher(producer)
		appLogger.Info("publishing sale events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.SalesTopic))
	}

	// 5. Initialize UseCases
	svc, err := bootstrap.NewServices(cfg, store, publisher, appLogger)
	if err != nil {
		appLogger.Fatal("could not initialize services", zap.Error(err))
	}

	// 6. Initialize Handlers
	prodHandler := prodH.NewProductHandler(svc.ProductUseCase, appLogger)
	invHandler := invH.NewInventoryHandler(svc.Inventory, appLogger)
	saleHandler := saleH.NewSaleHandler(svc.SaleUseCase, appLogger)
	reportHandler := reportH.NewReportHandler(svc.Report)
	catHandler := catH.NewCategoryHandler(svc.Categories, appLogger)

	// 7. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(middleware.Chain(appLogger, svc.Translator))

	// Register Services
	posv1.RegisterProductServiceServer(grpcServer, prodHandler)
	posv1.RegisterInventoryServiceServer(grpcServer, invHandler)
	posv1.RegisterSaleServiceServer(grpcServer, saleHandler)
	posv1.RegisterReportServiceServer(grpcServer, reportHandler)
	posv1.RegisterCategoryServiceServer(grpcServer, catHandler)

	// Register Reflection
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("starting gRPC server", zap.String("port", port))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})

	if cfg.Kafka.Enabled {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RestockTopic,
			GroupID: cfg.Kafka.RestockGroup,
		})
		defer consumer.Close()
		invListener := invListenerPkg.NewInventoryListener(consumer, svc.Inventory, appLogger)
		g.Go(func() error {
			invListener.Start(gctx)
			return nil
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down server...")
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("server exited with error", zap.Error(err))
		return
	}
	appLogger.Info("server stopped")
}
