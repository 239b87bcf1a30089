package backend

import (
	"context"
	"fmt"
	"net/http"

	"toko-storefront/internal/models"
)

// ListOrders returns the signed-in user's orders.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var list models.OrderList
	if err := c.do(ctx, "order.List", http.MethodGet, "/order", nil, nil, &list); err != nil {
		return nil, err
	}
	if list.Orders == nil {
		return []models.Order{}, nil
	}
	return list.Orders, nil
}

// GetOrder returns a single order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/order/%d", id)
	if err := c.do(ctx, "order.Get", http.MethodGet, path, nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels a pending order on behalf of the customer.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	body := map[string]int64{"order_id": id}
	return c.do(ctx, "order.Cancel", http.MethodPost, "/order/cancel", nil, body, nil)
}

// SetOrderStatus moves an order to the status with the given numeric id.
func (c *Client) SetOrderStatus(ctx context.Context, id int64, statusCode int) error {
	body := struct {
		OrderID     int64 `json:"order_id"`
		NewStatusID int   `json:"new_status_id"`
	}{OrderID: id, NewStatusID: statusCode}
	return c.do(ctx, "order.SetStatus", http.MethodPost, "/order/status", nil, body, nil)
}

// ListContracts returns the contracts visible to the signed-in user.
func (c *Client) ListContracts(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := c.do(ctx, "contract.List", http.MethodGet, "/contract", nil, nil, &contracts); err != nil {
		return nil, err
	}
	if contracts == nil {
		return []models.Contract{}, nil
	}
	return contracts, nil
}

// SignContract posts the signer's role token as its signature.
func (c *Client) SignContract(ctx context.Context, id int64, signer models.SignerRole) error {
	body := struct {
		ContractID int64             `json:"contract_id"`
		Signature  models.SignerRole `json:"signature"`
	}{ContractID: id, Signature: signer}
	return c.do(ctx, "contract.Sign", http.MethodPost, "/contract/sign", nil, body, nil)
}
