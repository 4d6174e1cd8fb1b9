package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFilter_IsEmpty(t *testing.T) {
	require.True(t, Filter{}.IsEmpty())
	require.True(t, Filter{ShippingCountry: "   "}.IsEmpty())

	status := StatusPending
	require.False(t, Filter{Status: &status}.IsEmpty())

	negative := -1.0
	// Negative amounts contribute no predicate.
	require.True(t, Filter{MinAmount: &negative, MaxAmount: &negative}.IsEmpty())
}

func TestFilter_MatchesCombinesWithAnd(t *testing.T) {
	customerID := uuid.New()
	order := &Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		Status:      StatusPending,
		OrderDate:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		TotalAmount: 120,
		Shipping:    ShippingAddress{Country: "Poland", City: "Warsaw"},
	}

	status := StatusPending
	minAmount := 100.0
	maxAmount := 200.0
	filter := Filter{
		CustomerID:      &customerID,
		Status:          &status,
		MinAmount:       &minAmount,
		MaxAmount:       &maxAmount,
		ShippingCountry: "poland",
		ShippingCity:    "WAR",
	}
	require.True(t, filter.Matches(order))

	otherCustomer := uuid.New()
	filter.CustomerID = &otherCustomer
	require.False(t, filter.Matches(order))
}

func TestFilter_DateAndAmountBoundsInclusive(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	order := &Order{OrderDate: at, TotalAmount: 50}

	amount := 50.0
	filter := Filter{MinOrderDate: &at, MaxOrderDate: &at, MinAmount: &amount, MaxAmount: &amount}
	require.True(t, filter.Matches(order))

	before := at.Add(-time.Second)
	filter = Filter{MaxOrderDate: &before}
	require.False(t, filter.Matches(order))
}

func TestFilter_CityContainment(t *testing.T) {
	order := &Order{Shipping: ShippingAddress{City: "New York"}}
	require.True(t, Filter{ShippingCity: "york"}.Matches(order))
	require.False(t, Filter{ShippingCity: "boston"}.Matches(order))
}

func TestFilter_EmptyMatchesEverything(t *testing.T) {
	require.True(t, Filter{}.Matches(&Order{}))
}

func TestFilter_CacheKeyStable(t *testing.T) {
	customerID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	status := StatusProcessed
	minAmount := 10.0
	filter := Filter{CustomerID: &customerID, Status: &status, MinAmount: &minAmount, ShippingCity: " Warsaw "}

	key := filter.CacheKey()
	require.Equal(t, key, filter.CacheKey())
	require.Contains(t, key, "customer=11111111-1111-1111-1111-111111111111")
	require.Contains(t, key, "status=PROCESSED")
	require.Contains(t, key, "city=warsaw")

	require.Equal(t, "empty", Filter{}.CacheKey())
}
