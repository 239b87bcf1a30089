package backend

import (
	"context"
	"net/http"

	"toko-storefront/internal/models"
)

// GetCart returns the authoritative cart grouped by supplier.
func (c *Client) GetCart(ctx context.Context) (*models.CartResponse, error) {
	var cart models.CartResponse
	if err := c.do(ctx, "cart.Get", http.MethodGet, "/cart/", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds a line. The backend increments an existing (product, supplier) line.
func (c *Client) AddToCart(ctx context.Context, line models.CartLine) error {
	return c.do(ctx, "cart.Add", http.MethodPost, "/cart/add", nil, line, nil)
}

// ClearCart deletes every line.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, "cart.Clear", http.MethodDelete, "/cart/clear", nil, nil, nil)
}

// Checkout asks the backend for a payment link for the current cart.
func (c *Client) Checkout(ctx context.Context) (string, error) {
	var link models.CheckoutLink
	if err := c.do(ctx, "cart.Checkout", http.MethodPost, "/cart/checkout", nil, nil, &link); err != nil {
		return "", err
	}
	return link.CheckoutURL, nil
}
