package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	kafkax "github.com/ariefcatur/go-wholesale-rfq/internal/kafka"
	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fulfillment consumes payment completions and opens orders.
type Fulfillment struct {
	Orders      *Service
	Redis       redis.Cmdable // optional dedup
	Tracer      trace.Tracer
	ServiceName string
}

func (f *Fulfillment) tracer() trace.Tracer {
	if f.Tracer != nil {
		return f.Tracer
	}
	return otel.Tracer("fulfillment")
}

// HandlePaymentCompleted is installed as the consumer handler.
func (f *Fulfillment) HandlePaymentCompleted(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.HeaderValue(m, kafkax.HeaderEventType); t != "" && t != events.EventPaymentCompleted {
		return nil
	}
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Printf("fulfillment: skip undecodable message at offset %d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != events.EventPaymentCompleted {
		return nil
	}

	ctx, span := f.tracer().Start(ctx, "fulfillment.payment_completed", trace.WithAttributes(
		attribute.String("event.id", env.EventID),
		attribute.String("payment.order_number", env.CorrelationID),
		attribute.String("trace.request_id", env.TraceID),
	))
	defer span.End()

	dkey := fmt.Sprintf(redisx.KeyDedup, f.ServiceName, env.EventID)
	if f.Redis != nil {
		if seen, _ := redisx.Exists(ctx, f.Redis, dkey); seen {
			span.SetAttributes(attribute.Bool("dedup.hit", true))
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[events.PaymentCompletedPayload](env.Payload)
	if err != nil {
		span.RecordError(err)
		log.Printf("fulfillment: bad payload for event %s: %v", env.EventID, err)
		return nil
	}
	o, created, err := f.Orders.CreateFromPayment(ctx, p)
	if apperr.Is(err, apperr.KindValidation) {
		span.RecordError(err)
		log.Printf("fulfillment: drop event %s: %v", env.EventID, err)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.Bool("order.created", created))

	// Marked only after the order exists so a failed attempt is retried.
	if f.Redis != nil {
		if _, err := redisx.MarkOnce(ctx, f.Redis, dkey, redisx.TTLDedup); err != nil {
			log.Printf("fulfillment: dedup mark %s: %v", env.EventID, err)
		}
	}
	return nil
}
