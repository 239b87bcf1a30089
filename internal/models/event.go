package models

import "time"

// Routing keys of storefront activity events.
const (
	EventCartCleared       = "cart.cleared"
	EventCheckoutInitiated = "cart.checkout_initiated"
	EventOrderCancelled    = "order.cancelled"
	EventOrderStatus       = "order.status_changed"
	EventContractSigned    = "contract.signed"
)

// StorefrontEvent records a successful mutation made through the storefront.
type StorefrontEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	OrderID    int64     `json:"order_id,omitempty"`
	ContractID int64     `json:"contract_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}
