package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/backend"
	"toko-storefront/internal/models"
)

func newClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	_, err := backend.New(backend.Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestBearerTokenFromContext(t *testing.T) {
	var gotAuth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/user/role", r.URL.Path)
		w.Write([]byte(`{"role": 1}`))
	})

	role, err := client.Role(backend.WithToken(context.Background(), "tok-123"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupplier, role)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	_, err = client.Role(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "token expired"}`))
	})

	_, err := client.GetCart(context.Background())
	require.Error(t, err)
	var authErr *apperr.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "cart.Get", authErr.Op)
	assert.Contains(t, err.Error(), "token expired")
}

func TestServerErrorBecomesBackendError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "order not found"}`))
	})

	_, err := client.GetOrder(context.Background(), 9)
	var be *apperr.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusNotFound, be.Status)
	assert.Equal(t, "order not found", be.Message)
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := backend.New(backend.Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.ListOrders(context.Background())
	var ne *apperr.NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestListProductsQuery(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/list", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "40", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"product_list": [{"id": 7, "name": "Flour", "ImageUrl": "/f.png",
			"lowest_product_supplier": {"price": 450, "sell_amount": 12, "supplier": {"id": 3, "name": "Mill"}}}]}`))
	})

	page, err := client.ListProducts(context.Background(), 20, 40)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Total)
	assert.Equal(t, "Flour", page.Items[0].Name)
	assert.True(t, page.Items[0].LowestProductSupplier.Price.Equal(decimal.NewFromInt(450)))
}

func TestGetProductUnwrapsNestedPayload(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product/7", r.URL.Path)
		w.Write([]byte(`{"product": {"product": {"id": 7, "name": "Flour"},
			"suppliers": [{"price": 450, "sell_amount": 12, "supplier": {"id": 3, "name": "Mill", "order_amount": 5000}}]}}`))
	})

	detail, err := client.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.Product.ID)
	require.Len(t, detail.Offers, 1)
	assert.True(t, detail.Offers[0].Supplier.OrderAmount.Equal(decimal.NewFromInt(5000)))
}

func TestMutationBodies(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &body))
		}
		calls = append(calls, call{r.Method, r.URL.Path, body})
		if r.URL.Path == "/api/cart/checkout" {
			w.Write([]byte(`{"checkout_url": "https://pay.example/abc"}`))
		}
	})
	ctx := context.Background()

	require.NoError(t, client.AddToCart(ctx, models.CartLine{ProductID: 1, SupplierID: 2, Quantity: 3}))
	require.NoError(t, client.ClearCart(ctx))
	url, err := client.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", url)
	require.NoError(t, client.CancelOrder(ctx, 42))
	require.NoError(t, client.SetOrderStatus(ctx, 42, 3))
	require.NoError(t, client.SignContract(ctx, 5, models.SignerCustomer))

	require.Len(t, calls, 6)
	assert.Equal(t, call{http.MethodPost, "/api/cart/add", map[string]any{"product_id": 1.0, "supplier_id": 2.0, "quantity": 3.0}}, calls[0])
	assert.Equal(t, call{http.MethodDelete, "/api/cart/clear", nil}, calls[1])
	assert.Equal(t, call{http.MethodPost, "/api/cart/checkout", nil}, calls[2])
	assert.Equal(t, call{http.MethodPost, "/api/order/cancel", map[string]any{"order_id": 42.0}}, calls[3])
	assert.Equal(t, call{http.MethodPost, "/api/order/status", map[string]any{"order_id": 42.0, "new_status_id": 3.0}}, calls[4])
	assert.Equal(t, call{http.MethodPost, "/api/contract/sign", map[string]any{"contract_id": 5.0, "signature": "user"}}, calls[5])
}

func TestListOrdersAndContracts(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/order":
			w.Write([]byte(`{"orders": [{"id": 42, "status": "In Progress", "order_date": "2025-03-01T10:00:00Z",
				"supplier": {"id": 3, "name": "Mill"}, "product_list": [{"id": 1, "name": "Flour", "price": 450, "quantity": 2}]}]}`))
		case "/api/contract":
			w.Write([]byte(`[{"id": 5, "content": "Contract for order #42", "status": 1, "supplier_signature": "supplier"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	orders, err := client.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusInProgress, orders[0].Status)
	assert.Equal(t, 2025, orders[0].OrderDate.Year())

	contracts, err := client.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.True(t, contracts[0].SupplierSigned())
	assert.False(t, contracts[0].CustomerSigned())
}
