package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/promokit/lucky-wheel/internal/config"
)

// Publisher emits spin outcomes to Kafka. Publishing is strictly best-effort:
// a broker outage never fails a spin.
type Publisher struct {
	client *kgo.Client
}

func NewPublisher(client *kgo.Client) *Publisher {
	return &Publisher{client: client}
}

func EnsureTopics(ctx context.Context, client *kgo.Client, cfg *config.Config) error {
	adm := kadm.NewClient(client)

	resp, err := adm.CreateTopics(ctx, int32(cfg.TopicPartitions()), cfg.ReplicationFactor(), nil, TopicSpinRecorded)
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", TopicSpinRecorded, err)
	}
	for _, detail := range resp {
		if detail.Err != nil && !strings.Contains(detail.Err.Error(), "already exists") {
			return fmt.Errorf("failed to create topic %s: %w", detail.Topic, detail.Err)
		}
	}
	return nil
}

func (p *Publisher) PublishSpin(ctx context.Context, userID, prizeValue, couponCode string) {
	event := SpinEvent{
		SchemaVersion: 1,
		EventID:       uuid.New().String(),
		UserID:        userID,
		PrizeValue:    prizeValue,
		CouponCode:    couponCode,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("marshal spin event: %v", err)
		return
	}

	record := &kgo.Record{
		Topic: TopicSpinRecorded,
		Key:   []byte(userID),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			logger.Errorf("publish spin event %s: %v", event.EventID, err)
		}
	})
}

// NoopPublisher satisfies the usecase publisher interface when event
// publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSpin(context.Context, string, string, string) {}
