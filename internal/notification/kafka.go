package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/pkg/broker"
	"github.com/pyromart/pyromart-api/pkg/logger"
)

type Event struct {
	EventID       string    `json:"event_id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientType string    `json:"recipient_type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Category      string    `json:"category"`
	Timestamp     time.Time `json:"timestamp"`
}

type KafkaNotifier struct {
	producer *broker.KafkaProducer
	logger   logger.Logger
}

func NewKafkaNotifier(producer *broker.KafkaProducer, log logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, logger: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipientID, recipientType, title, message, category string) {
	event := Event{
		EventID:       uuid.New().String(),
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Title:         title,
		Message:       message,
		Category:      category,
		Timestamp:     time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal notification event", zap.Error(err))
		return
	}

	if err := n.producer.Publish(ctx, []byte(recipientID), value); err != nil {
		n.logger.Error("failed to publish notification event",
			zap.String("recipient_id", recipientID),
			zap.String("category", category),
			zap.Error(err),
		)
	}
}
