package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"innkeep/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConfirmationHandler processes one confirmed reservation. Returning an
// error skips the offset commit so the message is redelivered.
type ConfirmationHandler func(ctx context.Context, event ReservationConfirmed) error

type Consumer struct {
	reader  *kafka.Reader
	handler ConfirmationHandler
	log     *logger.Logger
	closed  bool
	mu      sync.RWMutex
}

func NewConsumer(brokers []string, topic, groupID string, handler ConfirmationHandler, log *logger.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return nil, fmt.Errorf("group ID cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10 << 20,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // Synchronous commits
		Logger:         kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:    kafka.LoggerFunc(func(msg string, args ...any) { log.Error(fmt.Sprintf(msg, args...)) }),
	})

	return &Consumer{
		reader:  reader,
		handler: handler,
		log:     log,
	}, nil
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return ErrConsumerClosed
	}
	c.mu.RUnlock()

	for {
		kafkaMsg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.log.Error("Failed to fetch message", "error", err)
			time.Sleep(1 * time.Second) // Backoff
			continue
		}

		var event ReservationConfirmed
		if err := json.Unmarshal(kafkaMsg.Value, &event); err != nil {
			c.log.Error("Failed to decode reservation event, skipping",
				"error", err,
				"offset", kafkaMsg.Offset,
			)
		} else if err := c.handler(ctx, event); err != nil {
			c.log.Error("Failed to process reservation event",
				"error", err,
				"offset", kafkaMsg.Offset,
			)
			continue // No commit, message will be redelivered
		}

		if err := c.reader.CommitMessages(ctx, kafkaMsg); err != nil {
			c.log.Error("Failed to commit offset", "error", err)
		}
	}
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.reader.Close()
}
