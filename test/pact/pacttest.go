//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "storefront-portal"

	StateOrdersBaseline   = "orders baseline"
	StateOrderExists      = "a pending order exists"
	StateOrderMissing     = "no order with the requested id"
	StateCustomerProfiled = "caller has a customer profile"
)

const (
	OwnerID         = "11111111-1111-1111-1111-111111111111"
	ExistingOrderID = "33333333-3333-3333-3333-333333333333"
	MissingOrderID  = "44444444-4444-4444-4444-444444444444"
	ProductID       = "22222222-2222-2222-2222-222222222222"
)

const (
	exampleCountry    = "PL"
	exampleCity       = "Warsaw"
	examplePostalCode = "00-001"
	exampleOrderDate  = "2026-06-12T10:00:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePlacementPayload provides stable test data for placement interactions.
func ExamplePlacementPayload() map[string]any {
	return map[string]any{
		"country":    exampleCountry,
		"city":       exampleCity,
		"postalCode": examplePostalCode,
		"items": []map[string]any{
			{"productId": ProductID, "quantity": 2},
		},
	}
}

// ExampleOrderPayload provides the stable response shape of an order.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"orderId":            ExistingOrderID,
		"status":             "PENDING",
		"orderDate":          exampleOrderDate,
		"totalAmount":        259.98,
		"shippingCountry":    exampleCountry,
		"shippingCity":       exampleCity,
		"shippingPostalCode": examplePostalCode,
		"items": []map[string]any{
			{
				"orderItemId": "55555555-5555-5555-5555-555555555555",
				"productId":   ProductID,
				"quantity":    2,
				"price":       129.99,
			},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
