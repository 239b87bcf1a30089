package models

import "github.com/shopspring/decimal"

// LineKey identifies a cart line. A (product, supplier) pair appears at most once.
type LineKey struct {
	ProductID  int64
	SupplierID int64
}

// CartLine is a request to put a quantity of a supplier's product into the cart.
type CartLine struct {
	ProductID  int64 `json:"product_id" validate:"required,gt=0"`
	SupplierID int64 `json:"supplier_id" validate:"required,gt=0"`
	Quantity   int   `json:"quantity" validate:"required,min=1"`
}

// Key returns the line's identity.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, SupplierID: l.SupplierID}
}

// CartProduct is a priced line inside a supplier group or an order.
type CartProduct struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (p CartProduct) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// SupplierGroup is the server-side aggregation of cart lines for one supplier.
type SupplierGroup struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DeliveryFee        decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryAmount decimal.Decimal `json:"free_delivery_amount"`
	OrderAmount        decimal.Decimal `json:"OrderAmount"`
	Products           []CartProduct   `json:"product_list"`
}

// LinesTotal sums the extended price of every line in the group.
func (g SupplierGroup) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.Products {
		total = total.Add(p.Subtotal())
	}
	return total
}

// CartResponse is the authoritative cart as returned by GET /cart/.
type CartResponse struct {
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Suppliers  []SupplierGroup `json:"suppliers"`
}

// EmptyCart is the cart view after a successful clear.
func EmptyCart() CartResponse {
	return CartResponse{CustomerID: 0, Total: decimal.Zero, Suppliers: []SupplierGroup{}}
}

// IsEmpty reports whether the cart has no lines at all.
func (c CartResponse) IsEmpty() bool {
	for _, g := range c.Suppliers {
		if len(g.Products) > 0 {
			return false
		}
	}
	return true
}

// CheckoutLink is the backend's answer to POST /cart/checkout.
type CheckoutLink struct {
	CheckoutURL string `json:"checkout_url"`
}
