package kafka

import (
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderNumber string `json:"order_number"`
	}
	raw := json.RawMessage(MustMarshal(payload{OrderNumber: "PO-1"}))

	p, err := UnwrapPayload[payload](raw)
	require.NoError(t, err)
	assert.Equal(t, "PO-1", p.OrderNumber)

	_, err = UnwrapPayload[payload](json.RawMessage(`{"order_number":`))
	assert.Error(t, err)
}

func TestEventHeaders(t *testing.T) {
	m := kafka.Message{Headers: EventHeaders("PaymentCompleted", 1)}
	assert.Equal(t, "PaymentCompleted", HeaderValue(m, HeaderEventType))
	assert.Equal(t, "1", HeaderValue(m, HeaderEventVersion))
	assert.Empty(t, HeaderValue(m, "x-missing"))
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(make(chan int)) })
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, 1)
	p.Close()
	assert.NotPanics(t, func() { p.Publish("t", []byte("k"), []byte("v")) })
	p.Close()
}
