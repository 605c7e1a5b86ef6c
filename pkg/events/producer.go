package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"innkeep/pkg/logger"
	"innkeep/pkg/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Publisher is the narrow contract the booking flow depends on.
type Publisher interface {
	PublishReservationConfirmed(ctx context.Context, event ReservationConfirmed) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
	closed bool
	mu     sync.RWMutex
}

func NewProducer(brokers []string, topic, source string, log *logger.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Hash by key for per-slot ordering
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...any) { log.Error(fmt.Sprintf(msg, args...)) }),
	}

	return &Producer{
		writer: writer,
		source: source,
		log:    log,
	}, nil
}

func (p *Producer) PublishReservationConfirmed(ctx context.Context, event ReservationConfirmed) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	p.mu.RUnlock()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	key := model.HotelDateKey(event.HotelID, event.Date, event.RoomNumber)
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.ConfirmedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.New().String())},
			{Key: HeaderEventType, Value: []byte(EventTypeReservationConfirmed)},
			{Key: HeaderSchemaVersion, Value: []byte(SchemaVersion)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(event.ConfirmedAt.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventTypeReservationConfirmed, err)
	}

	return nil
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
