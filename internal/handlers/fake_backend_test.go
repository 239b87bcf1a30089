package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

const fakeToken = "tok-1"

// fakeMarketplace is an in-memory stand-in for the marketplace API.
type fakeMarketplace struct {
	mu        sync.Mutex
	role      int
	revoked   bool
	lines     map[int64]int // product id -> quantity, all from supplier 2
	orders    map[int64]string
	signed    map[string]bool
	checkouts int
	profile   map[string]any

	productAuth string // Authorization header of the last product request
}

func newFakeMarketplace(t *testing.T) (*fakeMarketplace, *httptest.Server) {
	t.Helper()
	f := &fakeMarketplace{
		lines:   map[int64]int{1: 4},
		orders:  map[int64]string{7: "Pending", 8: "In Progress"},
		signed:  map[string]bool{},
		profile: map[string]any{"id": 7, "name": "Anna", "phone_number": "+700"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /auth/register", f.register)
	mux.HandleFunc("GET /user/profile", f.authed(f.getProfile))
	mux.HandleFunc("PUT /user/profile", f.authed(f.putProfile))
	mux.HandleFunc("GET /user/role", f.authed(f.getRole))
	mux.HandleFunc("GET /user/address", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"address_list": []map[string]string{{"description": "Home", "street": "Main 1"}}})
	}))
	mux.HandleFunc("GET /product/list", f.public(f.listProducts))
	mux.HandleFunc("GET /product/{id}", f.public(f.getProduct))
	mux.HandleFunc("GET /cart/", f.authed(f.getCart))
	mux.HandleFunc("POST /cart/add", f.authed(f.addToCart))
	mux.HandleFunc("DELETE /cart/clear", f.authed(f.clearCart))
	mux.HandleFunc("POST /cart/checkout", f.authed(f.checkout))
	mux.HandleFunc("GET /order", f.authed(f.listOrders))
	mux.HandleFunc("GET /order/{id}", f.authed(f.getOrder))
	mux.HandleFunc("POST /order/cancel", f.authed(f.cancelOrder))
	mux.HandleFunc("POST /order/status", f.authed(f.setStatus))
	mux.HandleFunc("GET /contract", f.authed(f.listContracts))
	mux.HandleFunc("POST /contract/sign", f.authed(f.signContract))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return f, server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeMarketplace) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		revoked := f.revoked
		f.mu.Unlock()
		if revoked || r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token is invalid"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		next(w, r)
	}
}

// public serves catalog reads with or without a token.
func (f *fakeMarketplace) public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.productAuth = r.Header.Get("Authorization")
		next(w, r)
	}
}

func (f *fakeMarketplace) lastProductAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productAuth
}

func (f *fakeMarketplace) login(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req["phone_number"] != "+700" || req["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": fakeToken, "refresh_token": "refresh", "expires_in": 3600})
}

func (f *fakeMarketplace) register(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "name": req["name"], "phone_number": req["phone_number"]})
}

func (f *fakeMarketplace) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": f.profile})
}

func (f *fakeMarketplace) putProfile(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.profile["name"] = req["name"]
	f.profile["phone_number"] = req["phone_number"]
	w.WriteHeader(http.StatusOK)
}

func (f *fakeMarketplace) getRole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"role": f.role})
}

func (f *fakeMarketplace) listProducts(w http.ResponseWriter, r *http.Request) {
	products := []map[string]any{}
	if r.URL.Query().Get("offset") == "0" {
		products = append(products,
			map[string]any{"id": 1, "name": "Apples", "ImageUrl": "/img/1.png"},
			map[string]any{"id": 2, "name": "Pears", "ImageUrl": "/img/2.png"},
		)
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_list": products})
}

func (f *fakeMarketplace) getProduct(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") != "1" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": map[string]any{
		"product": map[string]any{"id": 1, "name": "Apples"},
		"suppliers": []map[string]any{{
			"price":       1000,
			"sell_amount": 50,
			"supplier":    map[string]any{"id": 2, "name": "Green Farm", "order_amount": 5000, "free_delivery_amount": 8000, "delivery_fee": 500},
		}},
	}})
}

func (f *fakeMarketplace) getCart(w http.ResponseWriter, r *http.Request) {
	suppliers := []map[string]any{}
	products := []map[string]any{}
	total := 0
	for id, qty := range f.lines {
		products = append(products, map[string]any{"id": id, "name": "Apples", "price": 1000, "quantity": qty})
		total += 1000 * qty
	}
	if len(products) > 0 {
		suppliers = append(suppliers, map[string]any{
			"id": 2, "name": "Green Farm", "total_amount": total, "delivery_fee": 500,
			"free_delivery_amount": 8000, "OrderAmount": 5000, "product_list": products,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": 7, "total": total, "suppliers": suppliers})
}

func (f *fakeMarketplace) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.lines[req.ProductID] += req.Quantity
	w.WriteHeader(http.StatusOK)
}

func (f *fakeMarketplace) clearCart(w http.ResponseWriter, r *http.Request) {
	f.lines = map[int64]int{}
	w.WriteHeader(http.StatusOK)
}

func (f *fakeMarketplace) checkout(w http.ResponseWriter, r *http.Request) {
	f.checkouts++
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": "https://pay.example/session/1"})
}

func (f *fakeMarketplace) order(id int64) map[string]any {
	return map[string]any{
		"id": id, "status": f.orders[id], "order_date": "2025-01-02T10:00:00Z",
		"supplier":     map[string]any{"id": 2, "name": "Green Farm"},
		"product_list": []map[string]any{{"id": 1, "name": "Apples", "price": 1000, "quantity": 6}},
	}
}

func (f *fakeMarketplace) listOrders(w http.ResponseWriter, r *http.Request) {
	orders := []map[string]any{f.order(7), f.order(8)}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (f *fakeMarketplace) getOrder(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("id") {
	case "7":
		writeJSON(w, http.StatusOK, f.order(7))
	case "8":
		writeJSON(w, http.StatusOK, f.order(8))
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "order not found"})
	}
}

func (f *fakeMarketplace) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req map[string]int64
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.orders[req["order_id"]] = "Cancelled"
	w.WriteHeader(http.StatusOK)
}

func (f *fakeMarketplace) setStatus(w http.ResponseWriter, r *http.Request) {
	var req map[string]int64
	_ = json.NewDecoder(r.Body).Decode(&req)
	names := map[int64]string{2: "In Progress", 3: "Completed", 4: "Cancelled"}
	f.orders[req["order_id"]] = names[req["new_status_id"]]
	w.WriteHeader(http.StatusOK)
}

func (f *fakeMarketplace) listContracts(w http.ResponseWriter, r *http.Request) {
	contract := map[string]any{"id": 30, "content": "Supply contract for order #8", "status": 1}
	if f.signed["supplier"] {
		contract["supplier_signature"] = "signed"
	}
	if f.signed["user"] {
		contract["customer_signature"] = "signed"
	}
	writeJSON(w, http.StatusOK, []map[string]any{contract})
}

func (f *fakeMarketplace) signContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContractID int64  `json:"contract_id"`
		Signature  string `json:"signature"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	f.signed[req.Signature] = true
	w.WriteHeader(http.StatusOK)
}
