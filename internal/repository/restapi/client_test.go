package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, zap.NewNop())
}

func TestProductList_DecodesStringAndNumberAmounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"id": 1, "code": "P-1", "name": "Tornillo", "unitPrice": "10.00", "stock": 4},
			{"id": 2, "code": "P-2", "name": "Tuerca", "unitPrice": 2.5, "stock": 1}
		]`)
	})

	products, err := NewRepositories(client).Product.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "10.00", products[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "2.50", products[1].UnitPrice.StringFixed(2))
	assert.Equal(t, 4, products[0].Stock)
}

func TestLineItemCreate_SendsFixedAmountsAndProductID(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/lineItems", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 41}`)
	})

	item := &domain.LineItem{
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("10"),
		Subtotal:   decimal.RequireFromString("20"),
		Tax:        decimal.RequireFromString("2.4"),
		Total:      decimal.RequireFromString("22.4"),
		Product:    domain.Product{ID: 3},
		PurchaseID: 9,
	}
	require.NoError(t, NewRepositories(client).LineItem.Create(context.Background(), item))

	assert.Equal(t, int64(41), item.ID)
	assert.Equal(t, "10.00", got["unitPrice"])
	assert.Equal(t, "2.40", got["tax"])
	assert.Equal(t, "22.40", got["total"])
	assert.Equal(t, float64(3), got["productId"])
	assert.Equal(t, float64(9), got["purchaseId"])
	_, hasID := got["id"]
	assert.False(t, hasID)
}

func TestUpdateTotals_PatchesPurchase(t *testing.T) {
	var got totalsJSON
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/purchases/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	totals := domain.PurchaseTotals{
		Subtotal: decimal.RequireFromString("70"),
		Tax:      decimal.RequireFromString("8.4"),
		Total:    decimal.RequireFromString("78.4"),
	}
	require.NoError(t, NewRepositories(client).Purchase.UpdateTotals(context.Background(), 5, totals))
	assert.Equal(t, "78.40", got.Total.dec().StringFixed(2))
}

func TestErrorMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/purchases/404":
			w.WriteHeader(http.StatusNotFound)
		case "/lineItems":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"quantity": ["invalid"]}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	repos := NewRepositories(client)
	ctx := context.Background()

	err := repos.Purchase.Update(ctx, &domain.Purchase{ID: 404, Status: domain.PurchaseStatusPending})
	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "purchase", notFound.Resource)

	err = repos.LineItem.Create(ctx, &domain.LineItem{Quantity: 1})
	var persistence *errors.ErrPersistence
	require.ErrorAs(t, err, &persistence)
	assert.Equal(t, http.StatusBadRequest, persistence.StatusCode)
	assert.Contains(t, persistence.Body, "invalid")

	_, err = repos.Sale.List(ctx)
	var network *errors.ErrNetwork
	assert.ErrorAs(t, err, &network)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(config.BackendConfig{BaseURL: srv.URL}, zap.NewNop())

	_, err := NewRepositories(client).Product.List(context.Background())
	var network *errors.ErrNetwork
	assert.ErrorAs(t, err, &network)
}

func TestBreakerOpensAfterConsecutiveNetworkFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.BackendConfig{
		BaseURL:         srv.URL,
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, zap.NewNop())
	products := NewRepositories(client).Product
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := products.List(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())

	_, err := products.List(ctx)
	var network *errors.ErrNetwork
	require.ErrorAs(t, err, &network)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the backend")
}

func TestBreakerIgnoresRejectedWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.BackendConfig{BaseURL: srv.URL, BreakerFailures: 1}, zap.NewNop())
	items := NewRepositories(client).LineItem

	for i := 0; i < 3; i++ {
		err := items.Create(context.Background(), &domain.LineItem{Quantity: 1})
		var persistence *errors.ErrPersistence
		require.ErrorAs(t, err, &persistence)
	}
	assert.Equal(t, gobreaker.StateClosed, client.breaker.State())
}

func TestLineItemList_NestedProductAndDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/purchases/3/lineItems":
			_, _ = io.WriteString(w, `[{"id": 1, "quantity": 2, "unitPrice": "10.00", "subtotal": "20.00",
				"tax": "2.40", "total": "22.40", "product": {"id": 8, "code": "P-8", "name": "Clavo"}}]`)
		case "/purchases":
			_, _ = io.WriteString(w, `[{"id": 3, "date": "2024-03-01", "status": "PENDING", "total": "0.00"},
				{"id": 4, "date": "2024-03-02T10:00:00Z", "status": "COMPLETED", "total": "5"}]`)
		}
	})
	repos := NewRepositories(client)

	items, err := repos.LineItem.ListByPurchaseID(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Clavo", items[0].Product.Name)
	assert.Equal(t, int64(3), items[0].PurchaseID)

	purchases, err := repos.Purchase.List(context.Background())
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, 2024, purchases[0].Date.Year())
	assert.Equal(t, 10, purchases[1].Date.Hour())
	assert.Equal(t, domain.PurchaseStatusCompleted, purchases[1].Status)
}
