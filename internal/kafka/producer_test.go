package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishAfterWriterStoppedDoesNotBlock(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, 2)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	p.WaitClosed()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			p.Publish("rfq.order.created", []byte("k"), []byte("v"))
		}
		p.Close()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish or close blocked after the writer stopped")
	}
	assert.True(t, p.closed)
}
