package services

import (
	"fmt"
	"sync"

	"toko-storefront/internal/apperr"
)

// InFlight rejects a second mutation of an entity while the first is running.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInFlight creates an empty guard.
func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Acquire claims key. The returned release must be called when the request ends.
func (g *InFlight) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.keys[key]; busy {
		return nil, apperr.Rule(apperr.RuleInFlight, "a request for %s is already in progress", key)
	}
	g.keys[key] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.keys, key)
		g.mu.Unlock()
	}, nil
}

// Busy reports whether key is claimed.
func (g *InFlight) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.keys[key]
	return busy
}

func orderKey(id int64) string    { return fmt.Sprintf("order:%d", id) }
func contractKey(id int64) string { return fmt.Sprintf("contract:%d", id) }
