package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
	customermemory "github.com/Apurer/ecommerce-api-server/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/ecommerce-api-server/internal/domains/customers/adapters/persistence/postgres"
	customerports "github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
	ordersmemory "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/ecommerce-api-server/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/ecommerce-api-server/internal/durable/temporal/workflows/orders"
	platformmigrations "github.com/Apurer/ecommerce-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/ecommerce-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/ecommerce-api-server/internal/platform/postgres"
)

func main() {
	ctx := context.Background()
	const serviceName = "ecommerce-orders-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	orderRepo, statusCatalog, customerDir, productRepo := buildRepositories(db, logger)

	coreService := ordersapp.NewService(
		orderRepo,
		statusCatalog,
		customerDir,
		productRepo,
		catalogapp.NewLedger(productRepo),
		ordersapp.WithLogger(logger),
	)
	orderService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderProcessingTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderProcessingWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderProcessingWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.ProcessOrder, activity.RegisterOptions{Name: orderactivities.ProcessOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderProcessingTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) (ordersports.Repository, ordersports.StatusCatalog, customerports.Directory, catalogports.Repository) {
	if db == nil {
		logger.Warn("worker using in-memory repositories; processed orders will not persist")
		return ordersmemory.NewRepository(), ordersmemory.NewStatusCatalog(), customermemory.NewDirectory(), catalogmemory.NewRepository()
	}
	if err := platformmigrations.Run(db); err != nil {
		logger.Error("worker failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := platformmigrations.Seed(db); err != nil {
		logger.Error("worker failed to seed order statuses", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("worker repositories configured with postgres")
	return orderspostgres.NewRepository(db), orderspostgres.NewStatusCatalog(db), customerpostgres.NewDirectory(db), catalogpostgres.NewRepository(db)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
