package events

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-wholesale-rfq/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Sink is satisfied by *kafka.Producer.
type Sink interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Emitter wraps payloads into a v1 Envelope. A nil Emitter or Sink drops events.
type Emitter struct {
	Sink     Sink
	Producer string
	Now      func() time.Time
}

func (e *Emitter) Emit(ctx context.Context, topic, eventType, correlationID string, payload any) {
	if e == nil || e.Sink == nil {
		return
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    now().UTC(),
		Producer:      e.Producer,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	e.Sink.Publish(topic, PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkax.EventHeaders(eventType, ev.EventVersion)...)
}
