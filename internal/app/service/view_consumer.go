package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/ClipStash/internal/app/model"
	"github.com/sifan077/ClipStash/internal/app/repository"
	"go.uber.org/zap"
)

// ViewConsumer consumes view events from NATS JetStream and persists them as
// audit rows.
type ViewConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.ViewEventRepository

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewViewConsumer creates a new view event consumer.
func NewViewConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.ViewEventRepository) *ViewConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewConsumer{js: js, logger: logger, repo: repo, stopChan: make(chan struct{})}
}

// Start ensures the stream and durable consumer exist, then begins consuming.
func (c *ViewConsumer) Start() error {
	if _, err := c.js.StreamInfo(model.ViewStreamName); err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ViewStreamName,
			Subjects: []string{model.ViewStreamSubject},
			MaxBytes: model.ViewStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	if _, err := c.js.ConsumerInfo(model.ViewStreamName, model.ViewConsumerName); err != nil {
		_, err = c.js.AddConsumer(model.ViewStreamName, &nats.ConsumerConfig{
			Durable:   model.ViewConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ViewStreamSubject, model.ViewConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

// Stop halts the consume loop after the current fetch completes. Safe to
// call more than once.
func (c *ViewConsumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

func (c *ViewConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		select {
		case <-c.stopChan:
			c.logger.Info("view consumer stopped")
			return
		default:
		}

		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && !errors.Is(err, nats.ErrTimeout) {
			c.logger.Error("failed to fetch view events", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ViewEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal view event", zap.Error(err))
				msg.Nak()
				continue
			}

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("failed to store view event",
					zap.String("id", event.ID),
					zap.String("short_code", event.ShortCode),
					zap.Error(err))
				msg.Nak()
				continue
			}

			msg.Ack()
		}
	}
}
