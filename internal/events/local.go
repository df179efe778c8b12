package events

import (
	"context"
	"log"
	"sync"
	"time"

	kafkax "github.com/ariefcatur/go-wholesale-rfq/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
)

// LocalBus delivers published messages to in-process handlers synchronously.
// It stands in for Kafka when the service runs without a broker.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]kafkax.Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: map[string][]kafkax.Handler{}}
}

func (b *LocalBus) Subscribe(topic string, h kafkax.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *LocalBus) Publish(topic string, key, value []byte, headers ...kafkago.Header) {
	b.mu.RLock()
	hs := append([]kafkax.Handler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	m := kafkago.Message{Topic: topic, Key: key, Value: value, Headers: headers, Time: time.Now()}
	for _, h := range hs {
		if err := h(context.Background(), m); err != nil {
			log.Printf("local bus topic=%s: %v", topic, err)
		}
	}
}
