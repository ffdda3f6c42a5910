package kafka_test

import (
	"hotel/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	t.Run("encodes value as json", func(t *testing.T) {
		msg := kafka.Message{
			Key:   "booking-1",
			Value: map[string]string{"event": "booking.created"},
		}

		out, err := msg.ToKafkaMessage()

		assert.NoError(t, err)
		assert.Equal(t, []byte("booking-1"), out.Key)
		assert.JSONEq(t, `{"event":"booking.created"}`, string(out.Value))
	})

	t.Run("unsupported value", func(t *testing.T) {
		msg := kafka.Message{Key: "k", Value: make(chan int)}

		_, err := msg.ToKafkaMessage()

		assert.Error(t, err)
	})
}
