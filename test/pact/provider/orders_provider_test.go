//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/Apurer/ecommerce-api-server/test/pact"

	catalogmemory "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/ecommerce-api-server/internal/domains/catalog/domain"
	customermemory "github.com/Apurer/ecommerce-api-server/internal/domains/customers/adapters/memory"
	customerdomain "github.com/Apurer/ecommerce-api-server/internal/domains/customers/domain"
	ordershttp "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/http"
	ordersmemory "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/ecommerce-api-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/ecommerce-api-server/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/ecommerce-api-server/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestOrdersProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCustomerProfiled: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedProfile(t)
			}
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app.seedProfile(t)
				app.seedOrder(t)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	orders    *ordersmemory.Repository
	customers *customermemory.Directory
	products  *catalogmemory.Repository
	server    *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	orderRepo := ordersmemory.NewRepository()
	statusCatalog := ordersmemory.NewStatusCatalog()
	customerDirectory := customermemory.NewDirectory()
	productRepo := catalogmemory.NewRepository()
	ledger := catalogapp.NewLedger(productRepo)

	service := ordersobs.New(ordersapp.NewService(orderRepo, statusCatalog, customerDirectory, productRepo, ledger))
	workflows := ordersworkflows.NewInlineOrderWorkflows(service)
	orderAPI := ordershttp.NewOrderAPI(service, workflows)

	router := gin.New()
	router.Use(gin.Recovery())
	orderAPI.Register(router.Group("/api/v1"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		orders:    orderRepo,
		customers: customerDirectory,
		products:  productRepo,
		server:    server,
	}
}

func (a *contractProviderApp) seedProfile(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	ownerID := uuid.MustParse(pacttest.OwnerID)

	customer, err := customerdomain.NewCustomer(uuid.New(), ownerID, "Pact", "Shopper", "pact.shopper@example.com")
	require.NoError(t, err)
	_, err = a.customers.Save(ctx, customer)
	require.NoError(t, err)

	_, err = a.products.Save(ctx, &catalogdomain.Product{
		ID:            uuid.MustParse(pacttest.ProductID),
		Name:          "Mechanical Keyboard",
		Description:   "tenkeyless",
		Price:         129.99,
		StockQuantity: 50,
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	orderID := uuid.MustParse(pacttest.ExistingOrderID)

	if _, err := a.orders.GetByID(ctx, orderID); err == nil {
		return
	}

	productID := uuid.MustParse(pacttest.ProductID)
	order := &ordersdomain.Order{
		ID:          orderID,
		CustomerID:  uuid.New(),
		Status:      ordersdomain.StatusPending,
		OrderDate:   time.Date(2026, 6, 12, 10, 0, 0, 0, time.UTC),
		TotalAmount: 259.98,
		Shipping: ordersdomain.ShippingAddress{
			Country:    "PL",
			City:       "Warsaw",
			PostalCode: "00-001",
		},
		Items: []ordersdomain.OrderItem{
			{
				ID:              uuid.New(),
				OrderID:         orderID,
				ProductID:       productID,
				Quantity:        2,
				PriceAtPurchase: 129.99,
			},
		},
	}
	_, err := a.orders.Create(ctx, order)
	require.NoError(t, err)
}
