package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jwalitptl/hospital-api/pkg/circuitbreaker"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

type Config struct {
	Brokers      []string
	GroupID      string
	BatchTimeout time.Duration
}

// KafkaBroker publishes outbox events to Kafka topics.
type KafkaBroker struct {
	writer  *kafka.Writer
	brokers []string
	groupID string
	cb      *circuitbreaker.CircuitBreaker
	logger  *zerolog.Logger
}

func NewKafkaBroker(config Config, logger *zerolog.Logger) (messaging.Broker, error) {
	if len(config.Brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}

	conn, err := kafka.Dial("tcp", config.Brokers[0])
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	_ = conn.Close()

	return newBroker(config, logger), nil
}

func newBroker(config Config, logger *zerolog.Logger) *KafkaBroker {
	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}

	return &KafkaBroker{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(config.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
		brokers: config.Brokers,
		groupID: config.GroupID,
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "kafka-broker",
			MaxRequests: 1,
			Interval:    10 * time.Second,
			Timeout:     5 * time.Second,
		}),
		logger: logger,
	}
}

func (b *KafkaBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := messaging.Encode(message)
	if err != nil {
		return err
	}
	return b.cb.Execute(func() error {
		return b.writer.WriteMessages(ctx, kafka.Message{
			Topic: channel,
			Value: payload,
			Time:  time.Now(),
		})
	})
}

func (b *KafkaBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: b.brokers,
		GroupID: b.groupID,
		Topic:   channel,
	})

	msgChan := make(chan []byte, 100)
	go func() {
		defer func() {
			_ = reader.Close()
			close(msgChan)
		}()

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					b.logger.Error().Err(err).Str("topic", channel).Msg("Kafka read failed")
				}
				return
			}
			select {
			case msgChan <- msg.Value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return msgChan, nil
}

func (b *KafkaBroker) Close() error {
	return b.writer.Close()
}
