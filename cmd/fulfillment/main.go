package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/config"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	kafkax "github.com/ariefcatur/go-wholesale-rfq/internal/kafka"
	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/ariefcatur/go-wholesale-rfq/internal/postgres"
	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/ariefcatur/go-wholesale-rfq/internal/telemetry"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	name := cfg.ServiceName + "-fulfillment"
	shutdownTracing, err := telemetry.Setup(telemetry.Options{ServiceName: name, Enabled: cfg.TracingEnabled})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	f := &orders.Fulfillment{
		Orders: &orders.Service{
			Store:  &orders.Repo{DB: db},
			Events: &events.Emitter{Sink: prod, Producer: name},
		},
		Redis:       rdb,
		Tracer:      otel.Tracer("fulfillment"),
		ServiceName: name,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FulfillmentGroup, events.TopicPaymentCompleted, cfg.FulfillmentWorkers)
	go func() {
		log.Printf("fulfillment consumer started: group=%s topic=%s workers=%d",
			cfg.FulfillmentGroup, events.TopicPaymentCompleted, cfg.FulfillmentWorkers)
		if err := cons.Start(ctx, f.HandlePaymentCompleted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := shutdownTracing(ctx2); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
