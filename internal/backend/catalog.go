package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"toko-storefront/internal/models"
)

// ListProducts returns one offset-based page of the catalog.
func (c *Client) ListProducts(ctx context.Context, limit, offset int) (*models.ProductPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var page models.ProductPage
	if err := c.do(ctx, "product.List", http.MethodGet, "/product/list", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct returns a product and its supplier offers.
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var resp struct {
		Product models.ProductDetail `json:"product"`
	}
	path := fmt.Sprintf("/product/%d", id)
	if err := c.do(ctx, "product.Get", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}
