package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher delivers quote notifications to the notification queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
}

var _ quotes.Notifier = (*Publisher)(nil)

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{pool: pool, queueName: queueName}
}

func message(n quotes.Notification) (amqp.Publishing, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal notification: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Timestamp:    n.At,
		Type:         n.Kind,
		Headers: amqp.Table{
			"quote_id":     n.QuoteID,
			"recipient_id": n.RecipientID,
		},
		Body: body,
	}, nil
}

func (p *Publisher) Notify(ctx context.Context, n quotes.Notification) error {
	msg, err := message(n)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	defer p.pool.Put(ch)

	// default exchange, routed by queue name
	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return fmt.Errorf("publish notification for quote %s: %w", n.QuoteID, err)
	}
	return nil
}
