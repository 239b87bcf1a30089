package services

import (
	"context"
	"log"
	"strings"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

// OrderBackend is the part of the marketplace API the order views need.
type OrderBackend interface {
	Role(ctx context.Context) (models.Role, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CancelOrder(ctx context.Context, id int64) error
	SetOrderStatus(ctx context.Context, id int64, statusCode int) error
	ListContracts(ctx context.Context) ([]models.Contract, error)
	SignContract(ctx context.Context, id int64, signer models.SignerRole) error
}

// SignatureState says who has signed an order's contract.
type SignatureState struct {
	Customer bool `json:"customer"`
	Supplier bool `json:"supplier"`
}

// OrderView is an order with its contract and the actions its viewer may take.
type OrderView struct {
	models.Order
	Contract   *models.Contract `json:"contract,omitempty"`
	Actions    ActionSet        `json:"actions"`
	Signatures *SignatureState  `json:"signatures,omitempty"`
	Updating   bool             `json:"updating"`
}

// OrderService builds order views and performs order and contract mutations.
// Every mutation is followed by a fresh read of the entity it changed.
type OrderService struct {
	backend  OrderBackend
	events   EventPublisher
	inflight *InFlight
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(backend OrderBackend, events EventPublisher) *OrderService {
	return &OrderService{
		backend:  backend,
		events:   events,
		inflight: NewInFlight(),
	}
}

// ListOrders returns every order of the signed-in user with its contract and actions.
func (s *OrderService) ListOrders(ctx context.Context) ([]OrderView, error) {
	role, err := s.backend.Role(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := s.backend.ListContracts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, s.buildView(role, o, contracts))
	}
	return views, nil
}

// ListContracts returns every contract visible to the signed-in user.
func (s *OrderService) ListContracts(ctx context.Context) ([]models.Contract, error) {
	return s.backend.ListContracts(ctx)
}

// GetOrder returns one order view.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*OrderView, error) {
	role, err := s.backend.Role(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, role, id)
}

// CancelOrder cancels a pending order as its customer.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) (*OrderView, error) {
	return s.mutateOrder(ctx, id, ActionCancel, func(ctx context.Context) error {
		return s.backend.CancelOrder(ctx, id)
	}, models.StorefrontEvent{Type: models.EventOrderCancelled, OrderID: id, Status: string(models.StatusCancelled)})
}

// UpdateStatus moves an order to target (In Progress, Completed or Cancelled).
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, target models.OrderStatus) (*OrderView, error) {
	action, ok := transitionAction(target)
	code, hasCode := target.Code()
	if !ok || !hasCode {
		return nil, apperr.Validation("status", "status must be one of In Progress, Completed, Cancelled")
	}
	return s.mutateOrder(ctx, id, action, func(ctx context.Context) error {
		return s.backend.SetOrderStatus(ctx, id, code)
	}, models.StorefrontEvent{Type: models.EventOrderStatus, OrderID: id, Status: string(target)})
}

func (s *OrderService) mutateOrder(ctx context.Context, id int64, action Action, call func(context.Context) error, evt models.StorefrontEvent) (*OrderView, error) {
	release, err := s.inflight.Acquire(orderKey(id))
	if err != nil {
		return nil, err
	}
	role, err := s.performOrderAction(ctx, id, action, call)
	release()
	if err != nil {
		return nil, err
	}
	publishEvent(s.events, evt)

	return s.loadView(ctx, role, id)
}

func (s *OrderService) performOrderAction(ctx context.Context, id int64, action Action, call func(context.Context) error) (models.Role, error) {
	role, err := s.backend.Role(ctx)
	if err != nil {
		return role, err
	}
	current, err := s.loadView(ctx, role, id)
	if err != nil {
		return role, err
	}
	if !current.Actions.Has(action) {
		return role, apperr.Rule(apperr.RuleActionDenied, "action %s is not allowed for order %d in status %s", action, id, current.Status)
	}
	if err := call(ctx); err != nil {
		log.Printf("Error performing %s on order %d: %v", action, id, err)
		return role, err
	}
	return role, nil
}

// SignContract signs a contract as the signed-in user's role. The code is the
// confirmation typed by the user and must not be blank. A role that already
// signed cannot sign again. While the signature is in flight the contract and
// its order are both busy.
func (s *OrderService) SignContract(ctx context.Context, contractID int64, code string) (*OrderView, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Validation("code", "signature code is required")
	}

	role, orderID, err := s.signContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, role, orderID)
}

func (s *OrderService) signContract(ctx context.Context, contractID int64) (models.Role, int64, error) {
	release, err := s.inflight.Acquire(contractKey(contractID))
	if err != nil {
		return 0, 0, err
	}
	defer release()

	role, err := s.backend.Role(ctx)
	if err != nil {
		return role, 0, err
	}
	signer, action, ok := SignerFor(role)
	if !ok {
		return role, 0, apperr.Rule(apperr.RuleActionDenied, "role %s cannot sign contracts", role.Label())
	}

	order, err := s.orderForContract(ctx, role, contractID)
	if err != nil {
		return role, 0, err
	}
	releaseOrder, err := s.inflight.Acquire(orderKey(order.ID))
	if err != nil {
		return role, 0, err
	}
	defer releaseOrder()

	if order.Contract.SignedBy(signer) {
		return role, 0, apperr.Rule(apperr.RuleAlreadySigned, "contract %d is already signed by the %s", contractID, role.Label())
	}
	if !order.Actions.Has(action) {
		return role, 0, apperr.Rule(apperr.RuleActionDenied, "action %s is not allowed for order %d in status %s", action, order.ID, order.Status)
	}

	if err := s.backend.SignContract(ctx, contractID, signer); err != nil {
		log.Printf("Error signing contract %d as %s: %v", contractID, signer, err)
		return role, 0, err
	}
	publishEvent(s.events, models.StorefrontEvent{Type: models.EventContractSigned, OrderID: order.ID, ContractID: contractID, Status: string(signer)})
	return role, order.ID, nil
}

// orderForContract finds the order whose matched contract is contractID.
func (s *OrderService) orderForContract(ctx context.Context, role models.Role, contractID int64) (*OrderView, error) {
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	contracts, err := s.backend.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		view := s.buildView(role, o, contracts)
		if view.Contract != nil && view.Contract.ID == contractID {
			return &view, nil
		}
	}
	return nil, apperr.Rule(apperr.RuleNoOrderForSign, "contract %d is not associated with any order", contractID)
}

func (s *OrderService) loadView(ctx context.Context, role models.Role, id int64) (*OrderView, error) {
	order, err := s.backend.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	contracts, err := s.backend.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	view := s.buildView(role, *order, contracts)
	return &view, nil
}

func (s *OrderService) buildView(role models.Role, order models.Order, contracts []models.Contract) OrderView {
	contract := MatchContract(order, contracts)
	view := OrderView{
		Order:    order,
		Contract: contract,
		Actions:  AllowedActions(role, order, contract),
		Updating: s.inflight.Busy(orderKey(order.ID)),
	}
	if order.Status == models.StatusInProgress || order.Status == models.StatusCompleted {
		view.Signatures = &SignatureState{
			Customer: contract.CustomerSigned(),
			Supplier: contract.SupplierSigned(),
		}
	}
	return view
}
