package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"toko-storefront/internal/models"
)

// EventPublisher sends storefront activity events to the broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent is best effort: a failed publish never fails the mutation that caused it.
func publishEvent(pub EventPublisher, evt models.StorefrontEvent) {
	if pub == nil {
		return
	}
	evt.ID = uuid.New().String()
	evt.At = time.Now().UTC()

	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", evt.Type, err)
		return
	}
	if err := pub.Publish(evt.Type, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", evt.Type, err)
	}
}
