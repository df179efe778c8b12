package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox and writes them from a single goroutine.
// The topic travels on each message, so one Producer serves every event topic.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		defer func() { _ = p.w.Close() }()
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m, ok := <-p.inbox:
				if !ok {
					return
				}
				p.write(m)
			}
		}
	}()
}

func (p *Producer) drain() {
	for {
		select {
		case m, ok := <-p.inbox:
			if !ok {
				return
			}
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		log.Printf("kafka write topic=%s key=%s: %v", m.Topic, m.Key, err)
	}
}

// Publish enqueues a message. It is dropped once the producer is closed or
// its writer goroutine has stopped.
func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	m := kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
	case <-p.closeCh:
		log.Printf("kafka producer stopped, dropping topic=%s key=%s", topic, key)
	}
}

// Close stops accepting messages; the writer goroutine flushes what is queued.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

func (p *Producer) WaitClosed() { <-p.closeCh }
