// Package messaging delivers reservation confirmations.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

const eventTypeConfirmed = "reservation.confirmed"

var ErrNotifierClosed = errs.New("kafka notifier closed")

type confirmationEvent struct {
	Type    string                       `json:"type"`
	UserID  uuid.UUID                    `json:"user_id"`
	Summary commands.ConfirmationSummary `json:"summary"`
}

// KafkaNotifier publishes one message per confirmation, keyed by user so a
// user's confirmations stay ordered within a partition. Close waits for
// in-flight sends; later sends fail with ErrNotifierClosed.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string

	mu     sync.RWMutex
	closed bool
}

func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, errs.Wrap(err, "create kafka producer")
	}
	return producer, nil
}

func NewKafkaNotifier(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) SendConfirmation(ctx context.Context, userID uuid.UUID, summary commands.ConfirmationSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(confirmationEvent{Type: eventTypeConfirmed, UserID: userID, Summary: summary})
	if err != nil {
		return errs.Wrap(err, "marshal confirmation event")
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(userID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventTypeConfirmed)},
			{Key: []byte("reservation_id"), Value: []byte(summary.ReservationID.String())},
		},
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrNotifierClosed
	}
	if _, _, err := n.producer.SendMessage(msg); err != nil {
		return errs.Wrapf(err, "publish confirmation for reservation %s", summary.ReservationID)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.producer.Close()
}

// LogNotifier is used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendConfirmation(ctx context.Context, userID uuid.UUID, summary commands.ConfirmationSummary) error {
	n.logger.InfoContext(ctx, "reservation confirmation",
		"user_id", userID,
		"reservation_id", summary.ReservationID,
		"vehicle_model", summary.VehicleModel,
		"pickup_at", summary.PickupAt,
		"dropoff_at", summary.DropoffAt,
		"total", summary.Total.Int64(),
		"currency", summary.Currency)
	return nil
}
