package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/ClipStash/internal/app/model"
)

// ViewPublisher publishes clip view events to NATS JetStream.
type ViewPublisher struct {
	js nats.JetStreamContext
}

// NewViewPublisher creates a new view event publisher.
func NewViewPublisher(js nats.JetStreamContext) *ViewPublisher {
	return &ViewPublisher{js: js}
}

// Publish emits a view event for the given short code.
func (p *ViewPublisher) Publish(shortCode, ip, userAgent string) error {
	event := model.ViewEvent{
		ID:        uuid.New().String(),
		ShortCode: shortCode,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ViewStreamSubject, data)
	return err
}
