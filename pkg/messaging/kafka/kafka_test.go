package kafka

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewKafkaBrokerRequiresBrokers(t *testing.T) {
	logger := zerolog.Nop()
	_, err := NewKafkaBroker(Config{}, &logger)
	assert.EqualError(t, err, "no kafka brokers configured")
}

func TestNewBrokerDefaults(t *testing.T) {
	logger := zerolog.Nop()
	b := newBroker(Config{Brokers: []string{"localhost:9092"}, GroupID: "hospital"}, &logger)
	assert.Equal(t, "localhost:9092", b.writer.Addr.String())
	assert.NotZero(t, b.writer.BatchTimeout)
	assert.NoError(t, b.Close())
}
