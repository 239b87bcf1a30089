package models

import "github.com/shopspring/decimal"

// Supplier is a seller with its own delivery terms and minimum order value.
type Supplier struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	OrderAmount        decimal.Decimal `json:"order_amount"`         // minimum order value accepted
	FreeDeliveryAmount decimal.Decimal `json:"free_delivery_amount"` // delivery is free at or above this total
	DeliveryFee        decimal.Decimal `json:"delivery_fee"`         // flat fee below the threshold
}

// SupplierOffer is one supplier's price and sellable stock for a product.
type SupplierOffer struct {
	Price      decimal.Decimal `json:"price"`
	SellAmount int             `json:"sell_amount"`
	Supplier   Supplier        `json:"supplier"`
}

// Product is a catalog entry. LowestProductSupplier is a snapshot of the cheapest offer.
type Product struct {
	ID                    int64          `json:"id"`
	Name                  string         `json:"name"`
	ImageURL              string         `json:"ImageUrl"`
	LowestProductSupplier *SupplierOffer `json:"lowest_product_supplier,omitempty"`
}

// ProductPage is one page of GET /product/list. Total is optional on the wire.
type ProductPage struct {
	Items []Product `json:"product_list"`
	Total *int      `json:"total,omitempty"`
}

// ProductDetail is a single product together with every supplier offer for it.
type ProductDetail struct {
	Product Product         `json:"product"`
	Offers  []SupplierOffer `json:"suppliers"`
}
