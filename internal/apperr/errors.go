// Package apperr holds the storefront's error taxonomy. Every failure that
// reaches a handler is one of these types, so the HTTP mapping happens in one place.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionNotFound  = errors.New("session not found")
)

// PaymentLinkMessage is shown when the backend cannot produce a checkout link.
const PaymentLinkMessage = "could not create a payment link; verify the cart"

// NetworkError means a backend request did not complete.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError means the backend rejected the credentials (401) or the local
// session is gone or expired.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: unauthorized", e.Op)
	}
	return fmt.Sprintf("%s: unauthorized: %v", e.Op, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is a rejected input. Fields maps field names to messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// BusinessRuleError is a precondition computed locally, never sent to the backend.
type BusinessRuleError struct {
	Rule    string
	Message string
	Details map[string]string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// BackendError is a non-401 HTTP failure answered by the backend.
type BackendError struct {
	Op      string
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Message)
}

// PaymentLinkError wraps any failure of the checkout-link request.
type PaymentLinkError struct {
	Err error
}

func (e *PaymentLinkError) Error() string { return PaymentLinkMessage + ": " + e.Err.Error() }
func (e *PaymentLinkError) Unwrap() error { return e.Err }

// Business rule identifiers.
const (
	RuleMinimumOrder   = "minimum_order"
	RuleEmptyCart      = "empty_cart"
	RuleActionDenied   = "action_not_allowed"
	RuleAlreadySigned  = "already_signed"
	RuleInFlight       = "request_in_flight"
	RuleNoOrderForSign = "contract_without_order"
)

// Validation builds a ValidationError for a single field.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

// Rule builds a BusinessRuleError.
func Rule(rule, format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// IsAuth reports whether err is, or wraps, an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsRule reports whether err is a BusinessRuleError for the given rule.
func IsRule(err error, rule string) bool {
	var be *BusinessRuleError
	return errors.As(err, &be) && be.Rule == rule
}
