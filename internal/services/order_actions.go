package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"toko-storefront/internal/models"
)

// Action is something a user may do to an order or its contract.
type Action uint8

const (
	ActionCancel Action = iota
	ActionAcceptIntoProgress
	ActionComplete
	ActionCancelInProgress
	ActionSignAsSupplier
	ActionSignAsCustomer
)

var actionNames = [...]string{
	ActionCancel:             "cancel",
	ActionAcceptIntoProgress: "accept",
	ActionComplete:           "complete",
	ActionCancelInProgress:   "cancel_in_progress",
	ActionSignAsSupplier:     "sign_as_supplier",
	ActionSignAsCustomer:     "sign_as_customer",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ActionSet is a small set of actions.
type ActionSet uint8

// NewActionSet builds a set from actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= 1 << a
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool { return s&(1<<a) != 0 }

// Empty reports whether the set has no actions.
func (s ActionSet) Empty() bool { return s == 0 }

// Actions lists the set in declaration order.
func (s ActionSet) Actions() []Action {
	out := []Action{}
	for a := ActionCancel; a <= ActionSignAsCustomer; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// MarshalJSON encodes the set as a list of action names.
func (s ActionSet) MarshalJSON() ([]byte, error) {
	names := []string{}
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return json.Marshal(names)
}

type actionRule struct {
	role    models.Role
	status  models.OrderStatus
	when    func(c *models.Contract) bool
	actions ActionSet
}

func always(*models.Contract) bool { return true }

// actionTable is evaluated top to bottom; the first matching row wins.
// Completed and Cancelled orders match no row.
var actionTable = []actionRule{
	{models.RoleCustomer, models.StatusPending, always, NewActionSet(ActionCancel)},
	{models.RoleSupplier, models.StatusPending, always, NewActionSet(ActionAcceptIntoProgress)},
	{models.RoleSupplier, models.StatusInProgress,
		func(c *models.Contract) bool { return c != nil && !c.SupplierSigned() },
		NewActionSet(ActionComplete, ActionCancelInProgress, ActionSignAsSupplier)},
	{models.RoleSupplier, models.StatusInProgress, always, NewActionSet(ActionComplete, ActionCancelInProgress)},
	{models.RoleCustomer, models.StatusInProgress,
		func(c *models.Contract) bool { return c.SupplierSigned() && !c.CustomerSigned() },
		NewActionSet(ActionSignAsCustomer)},
}

// AllowedActions returns what role may do with order, given its matched
// contract (nil when there is none).
func AllowedActions(role models.Role, order models.Order, contract *models.Contract) ActionSet {
	for _, r := range actionTable {
		if r.role == role && r.status == order.Status && r.when(contract) {
			return r.actions
		}
	}
	return 0
}

// MatchContract returns the first contract belonging to order, or nil.
// An explicit order_id wins; otherwise the content must contain "#<id>" not
// followed by another digit, so "#1" does not match "#10".
func MatchContract(order models.Order, contracts []models.Contract) *models.Contract {
	for i := range contracts {
		if contracts[i].OrderID == order.ID && order.ID != 0 {
			return &contracts[i]
		}
	}
	token := "#" + strconv.FormatInt(order.ID, 10)
	for i := range contracts {
		if contracts[i].OrderID == 0 && containsToken(contracts[i].Content, token) {
			return &contracts[i]
		}
	}
	return nil
}

func containsToken(content, token string) bool {
	for start := 0; ; {
		idx := strings.Index(content[start:], token)
		if idx < 0 {
			return false
		}
		end := start + idx + len(token)
		if end == len(content) || content[end] < '0' || content[end] > '9' {
			return true
		}
		start = start + idx + 1
	}
}

// SignerFor maps a role to the signature token it posts.
func SignerFor(role models.Role) (models.SignerRole, Action, bool) {
	switch role {
	case models.RoleSupplier:
		return models.SignerSupplier, ActionSignAsSupplier, true
	case models.RoleCustomer:
		return models.SignerCustomer, ActionSignAsCustomer, true
	}
	return "", 0, false
}

// transitionAction is the action that authorizes moving an order to target.
func transitionAction(target models.OrderStatus) (Action, bool) {
	switch target {
	case models.StatusInProgress:
		return ActionAcceptIntoProgress, true
	case models.StatusCompleted:
		return ActionComplete, true
	case models.StatusCancelled:
		return ActionCancelInProgress, true
	}
	return 0, false
}
