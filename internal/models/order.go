package models

import (
	"fmt"
	"time"
)

// OrderStatus is the backend's textual order state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// statusCodes are the numeric ids POST /order/status expects.
var statusCodes = map[OrderStatus]int{
	StatusInProgress: 2,
	StatusCompleted:  3,
	StatusCancelled:  4,
}

// ParseOrderStatus accepts the textual status used on the wire.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// Code returns the numeric status id for a transition target.
// Pending is never a target and has no code.
func (s OrderStatus) Code() (int, bool) {
	code, ok := statusCodes[s]
	return code, ok
}

// Terminal reports whether no transition leaves this status.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// SupplierRef is the short supplier reference carried by an order.
type SupplierRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Order is a placed order. Its product list is a priced snapshot and never changes.
type Order struct {
	ID        int64         `json:"id"`
	Status    OrderStatus   `json:"status"`
	OrderDate time.Time     `json:"order_date"`
	Supplier  SupplierRef   `json:"supplier"`
	Products  []CartProduct `json:"product_list"`
}

// OrderList wraps GET /order.
type OrderList struct {
	Orders []Order `json:"orders"`
}
