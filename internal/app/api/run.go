// Package api boots the order management HTTP process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/ports"
	customermemory "github.com/Apurer/ecommerce-api-server/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/ecommerce-api-server/internal/domains/customers/adapters/persistence/postgres"
	customerdomain "github.com/Apurer/ecommerce-api-server/internal/domains/customers/domain"
	customerports "github.com/Apurer/ecommerce-api-server/internal/domains/customers/ports"
	orderscaching "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/caching"
	ordershttp "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/http"
	ordersmemory "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	ordersports "github.com/Apurer/ecommerce-api-server/internal/domains/orders/ports"
	platformcache "github.com/Apurer/ecommerce-api-server/internal/platform/cache"
	platformmigrations "github.com/Apurer/ecommerce-api-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/ecommerce-api-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/ecommerce-api-server/internal/platform/postgres"
)

// Run boots the orders HTTP API with observability, repositories, caching,
// and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "ecommerce-orders-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	deps, err := buildDependencies(db, logger)
	if err != nil {
		return err
	}

	store := platformcache.New(cfg.CacheTTL, cfg.CacheMaxEntries)
	coreService := ordersapp.NewService(
		deps.orders,
		deps.statuses,
		deps.customers,
		deps.products,
		catalogapp.NewLedger(deps.products),
		ordersapp.WithCacheInvalidator(orderscaching.NewInvalidator(store)),
		ordersapp.WithLogger(logger),
	)
	observedService := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderService := orderscaching.New(observedService, store)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, processing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.Status(200) })

	orderAPI := ordershttp.NewOrderAPI(orderService, orderWorkflows)
	orderAPI.Register(router.Group("/api/v1"))

	addr := ":" + cfg.Port
	logger.Info("orders API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// dependencies groups the persistence collaborators of the order service.
type dependencies struct {
	orders    ordersports.Repository
	statuses  ordersports.StatusCatalog
	customers customerports.Directory
	products  catalogports.Repository
}

// buildDependencies wires postgres-backed adapters when a connection exists,
// otherwise in-memory adapters seeded with demo data for local runs.
func buildDependencies(db *gorm.DB, logger *slog.Logger) (dependencies, error) {
	if db == nil {
		deps := dependencies{
			orders:    ordersmemory.NewRepository(),
			statuses:  ordersmemory.NewStatusCatalog(),
			customers: customermemory.NewDirectory(),
			products:  catalogmemory.NewRepository(),
		}
		if err := seedDemoData(deps); err != nil {
			return dependencies{}, err
		}
		logger.Info("order repositories configured in-memory with demo data")
		return deps, nil
	}
	if err := platformmigrations.Run(db); err != nil {
		return dependencies{}, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := platformmigrations.Seed(db); err != nil {
		return dependencies{}, fmt.Errorf("failed to seed order statuses: %w", err)
	}
	logger.Info("order repositories configured with postgres")
	return dependencies{
		orders:    orderspostgres.NewRepository(db),
		statuses:  orderspostgres.NewStatusCatalog(db),
		customers: customerpostgres.NewDirectory(db),
		products:  catalogpostgres.NewRepository(db),
	}, nil
}

// seedDemoData loads a customer and a few products so the in-memory mode is
// usable out of the box. The owner ID is fixed so curl examples stay stable.
func seedDemoData(deps dependencies) error {
	ctx := context.Background()
	ownerID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	customer, err := customerdomain.NewCustomer(uuid.New(), ownerID, "Demo", "Customer", "demo@example.com")
	if err != nil {
		return err
	}
	if _, err := deps.customers.Save(ctx, customer); err != nil {
		return err
	}
	seed := []struct {
		name  string
		price float64
		stock int
	}{
		{"Mechanical Keyboard", 129.99, 25},
		{"Wireless Mouse", 49.90, 40},
		{"USB-C Dock", 189.00, 10},
	}
	for _, p := range seed {
		product, err := catalogdomain.NewProduct(uuid.New(), p.name, "", p.price, p.stock)
		if err != nil {
			return err
		}
		if _, err := deps.products.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
