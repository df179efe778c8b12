package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	topics []string
	keys   [][]byte
	values [][]byte
	hdrs   [][]kafkago.Header
}

func (r *recordSink) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	r.topics = append(r.topics, topic)
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
	r.hdrs = append(r.hdrs, headers)
}

func TestEmitWrapsEnvelope(t *testing.T) {
	sink := &recordSink{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	em := &Emitter{Sink: sink, Producer: "rfq-api", Now: func() time.Time { return fixed }}

	em.Emit(context.Background(), TopicQuoteCreated, EventQuoteCreated, "q-1", QuoteCreatedPayload{
		QuoteID: "q-1", ItemCount: 2, TotalPrice: decimal.NewFromInt(40800), Currency: "USD",
	})

	require.Len(t, sink.values, 1)
	assert.Equal(t, TopicQuoteCreated, sink.topics[0])
	assert.Equal(t, []byte("q-1"), sink.keys[0])
	assert.Equal(t, "x-event-type", sink.hdrs[0][0].Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(sink.values[0], &env))
	assert.Equal(t, EventQuoteCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, fixed, env.OccurredAt)
	assert.NotEmpty(t, env.EventID)

	var p QuoteCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.True(t, p.TotalPrice.Equal(decimal.NewFromInt(40800)))
	assert.Equal(t, 2, p.ItemCount)
}

func TestNilEmitterIsNoop(t *testing.T) {
	var em *Emitter
	assert.NotPanics(t, func() {
		em.Emit(context.Background(), TopicOrderCreated, EventOrderCreated, "x", struct{}{})
	})
	assert.NotPanics(t, func() {
		(&Emitter{}).Emit(context.Background(), TopicOrderCreated, EventOrderCreated, "x", struct{}{})
	})
}
