package services

import (
	"context"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

// CartBackend is the part of the marketplace API the cart needs.
type CartBackend interface {
	GetCart(ctx context.Context) (*models.CartResponse, error)
	AddToCart(ctx context.Context, line models.CartLine) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) (string, error)
}

// SupplierGroupView is a supplier group with its delivery and minimum-order state.
type SupplierGroupView struct {
	models.SupplierGroup
	Delivery       DeliveryQuote `json:"delivery"`
	BelowMinimum   bool          `json:"below_minimum"`
	MinimumWarning string        `json:"minimum_warning,omitempty"`
}

// CartView is what the storefront renders for a cart. Pending lines were
// added locally and are not yet reflected by an authoritative fetch.
type CartView struct {
	CustomerID      int64               `json:"customer_id"`
	Total           decimal.Decimal     `json:"total"`
	Suppliers       []SupplierGroupView `json:"suppliers"`
	Pending         []models.CartLine   `json:"pending"`
	CheckoutBlocked bool                `json:"checkout_blocked"`
}

// CheckoutView is the cart together with the payment link.
type CheckoutView struct {
	Cart        CartView `json:"cart"`
	CheckoutURL string   `json:"checkout_url"`
}

type pendingAdd struct {
	seq  uint64
	line models.CartLine
}

type cartState struct {
	cart    *models.CartResponse
	pending []pendingAdd
	seq     uint64
}

func (st *cartState) pendingLines() []models.CartLine {
	var lines []models.CartLine
	for _, p := range st.pending {
		lines = MergeLine(lines, p.line)
	}
	return lines
}

// dropPendingThrough forgets the additions recorded up to seq.
func (st *cartState) dropPendingThrough(seq uint64) {
	kept := st.pending[:0]
	for _, p := range st.pending {
		if p.seq > seq {
			kept = append(kept, p)
		}
	}
	st.pending = kept
}

// CartService aggregates the cart per browser session.
type CartService struct {
	backend CartBackend
	events  EventPublisher

	mu     sync.Mutex
	states map[string]*cartState
}

// NewCartService creates a new CartService. events may be nil.
func NewCartService(backend CartBackend, events EventPublisher) *CartService {
	return &CartService{
		backend: backend,
		events:  events,
		states:  make(map[string]*cartState),
	}
}

// SessionCleared drops all cart state of a session.
func (s *CartService) SessionCleared(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
}

func (s *CartService) state(sessionID string) *cartState {
	st, ok := s.states[sessionID]
	if !ok {
		st = &cartState{}
		s.states[sessionID] = st
	}
	return st
}

// FetchCart loads the authoritative cart. It supersedes the pending lines
// added before the fetch began; lines added while it was in flight stay in
// the overlay. On failure nothing is returned and the stored state is left
// as it was.
func (s *CartService) FetchCart(ctx context.Context, sessionID string) (*CartView, error) {
	s.mu.Lock()
	seen := s.state(sessionID).seq
	s.mu.Unlock()

	cart, err := s.backend.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	reported := cart.Total
	if ids := NormalizeCart(cart); len(ids) > 0 {
		log.Printf("Cart totals for suppliers %v disagreed with their lines and were recomputed", ids)
	}
	if !reported.Equal(cart.Total) {
		log.Printf("Cart grand total %s recomputed as %s", reported, cart.Total)
	}

	s.mu.Lock()
	st := s.state(sessionID)
	st.cart = cart
	st.dropPendingThrough(seen)
	pending := st.pendingLines()
	s.mu.Unlock()

	view := BuildCartView(*cart, pending)
	return &view, nil
}

// AddToCart sends a line to the backend and, on success, records it in the
// pending overlay until the next fetch.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, line models.CartLine) (*CartView, error) {
	if line.Quantity < 1 {
		return nil, apperr.Validation("quantity", "quantity must be at least 1")
	}
	if err := s.backend.AddToCart(ctx, line); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st := s.state(sessionID)
	st.seq++
	st.pending = append(st.pending, pendingAdd{seq: st.seq, line: line})
	cart := models.EmptyCart()
	if st.cart != nil {
		cart = *st.cart
	}
	pending := st.pendingLines()
	s.mu.Unlock()

	view := BuildCartView(cart, pending)
	return &view, nil
}

// ClearCart deletes every line. On success the session's cart becomes empty;
// on failure the previous state is kept and the error returned.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	if err := s.backend.ClearCart(ctx); err != nil {
		return nil, err
	}

	empty := models.EmptyCart()
	s.mu.Lock()
	st := s.state(sessionID)
	st.cart = &empty
	st.pending = nil
	s.mu.Unlock()

	publishEvent(s.events, models.StorefrontEvent{Type: models.EventCartCleared, SessionID: sessionID})
	view := BuildCartView(empty, nil)
	return &view, nil
}

// ValidateCheckout fetches the cart and reports the suppliers below their minimum.
func (s *CartService) ValidateCheckout(ctx context.Context, sessionID string) (*CartView, map[int64]bool, error) {
	view, err := s.FetchCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	flagged := make(map[int64]bool)
	for _, g := range view.Suppliers {
		if g.BelowMinimum {
			flagged[g.ID] = true
		}
	}
	return view, flagged, nil
}

// InitiateCheckout checks the minimum-order rule locally and only then asks
// the backend for a payment link.
func (s *CartService) InitiateCheckout(ctx context.Context, sessionID string) (*CheckoutView, error) {
	view, flagged, err := s.ValidateCheckout(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Suppliers) == 0 || totalQuantity(view) == 0 {
		return nil, apperr.Rule(apperr.RuleEmptyCart, "cart is empty")
	}
	if len(flagged) > 0 {
		ruleErr := apperr.Rule(apperr.RuleMinimumOrder, "minimum order not met for %d supplier(s)", len(flagged))
		ruleErr.Details = make(map[string]string, len(flagged))
		for _, g := range view.Suppliers {
			if g.BelowMinimum {
				ruleErr.Details[g.Name] = g.OrderAmount.String()
			}
		}
		return nil, ruleErr
	}

	url, err := s.backend.Checkout(ctx)
	if err != nil {
		if apperr.IsAuth(err) {
			return nil, err
		}
		return nil, &apperr.PaymentLinkError{Err: err}
	}

	publishEvent(s.events, models.StorefrontEvent{Type: models.EventCheckoutInitiated, SessionID: sessionID})
	return &CheckoutView{Cart: *view, CheckoutURL: url}, nil
}

// BuildCartView decorates a cart with delivery quotes and minimum-order flags.
func BuildCartView(cart models.CartResponse, pending []models.CartLine) CartView {
	flagged := ValidateForCheckout(cart)
	view := CartView{
		CustomerID:      cart.CustomerID,
		Total:           cart.Total,
		Suppliers:       make([]SupplierGroupView, 0, len(cart.Suppliers)),
		Pending:         pending,
		CheckoutBlocked: len(flagged) > 0,
	}
	if view.Pending == nil {
		view.Pending = []models.CartLine{}
	}
	for _, g := range cart.Suppliers {
		gv := SupplierGroupView{
			SupplierGroup: g,
			Delivery:      ComputeDeliveryFee(g),
			BelowMinimum:  flagged[g.ID],
		}
		if gv.BelowMinimum {
			gv.MinimumWarning = MinimumOrderMessage(g)
		}
		view.Suppliers = append(view.Suppliers, gv)
	}
	return view
}

func totalQuantity(view *CartView) int {
	n := 0
	for _, g := range view.Suppliers {
		for _, p := range g.Products {
			n += p.Quantity
		}
	}
	return n
}
