package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPoolClosed = errors.New("rabbitmq: channel pool closed")

// ChannelPool shares one connection across a fixed set of channels, each
// with the notification queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	mu        sync.Mutex
	closed    bool
	queueName string
}

func NewChannelPool(url, queueName string, size int) (*ChannelPool, error) {
	if size <= 0 {
		size = 1
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	p := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		queueName: queueName,
	}
	for i := 0; i < size; i++ {
		ch, err := p.open()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open channel %d: %w", i, err)
		}
		p.channels <- ch
	}
	log.Printf("rabbitmq pool ready: queue=%s channels=%d", queueName, size)
	return p, nil
}

func (p *ChannelPool) open() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", p.queueName, err)
	}
	return ch, nil
}

// Get waits for a free channel, replacing it if the broker closed it.
func (p *ChannelPool) Get(ctx context.Context) (*amqp.Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, ErrPoolClosed
		}
		if ch.IsClosed() {
			return p.open()
		}
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		_ = ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.channels)
	for ch := range p.channels {
		_ = ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	log.Println("rabbitmq pool closed")
}
