package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/config"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/ariefcatur/go-wholesale-rfq/internal/httpx"
	kafkax "github.com/ariefcatur/go-wholesale-rfq/internal/kafka"
	"github.com/ariefcatur/go-wholesale-rfq/internal/memstore"
	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/ariefcatur/go-wholesale-rfq/internal/postgres"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/ariefcatur/go-wholesale-rfq/internal/rabbitmq"
	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/ariefcatur/go-wholesale-rfq/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type stores struct {
	catalog  catalog.Store
	cart     cart.Store
	freight  freight.Store
	quotes   quotes.Store
	payments payments.Store
	orders   orders.Store
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(telemetry.Options{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	health := map[string]httpx.HealthCheck{}
	var st stores
	var rdb *redis.Client
	var prod *kafkax.Producer
	var bus *events.LocalBus

	switch cfg.StorageDrv {
	case "memory":
		// self-contained: no Postgres, Kafka or RabbitMQ
		mem := memstore.New()
		mem.SeedDemo(time.Now().UTC())
		st = stores{mem, mem, mem, mem, mem, mem}
		bus = events.NewLocalBus()
		log.Printf("storage: in-memory (demo catalog seeded)")
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
		health["postgres"] = db.Ping
		st = stores{
			catalog:  &catalog.Repo{DB: db},
			cart:     &cart.Repo{DB: db},
			freight:  &freight.Repo{DB: db},
			quotes:   &quotes.Repo{DB: db},
			payments: &payments.Repo{DB: db},
			orders:   &orders.Repo{DB: db},
		}

		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024)
		prod.Start(ctx)
	}

	emitter := &events.Emitter{Producer: cfg.ServiceName}
	switch {
	case prod != nil:
		emitter.Sink = prod
	case bus != nil:
		emitter.Sink = bus
	}

	var notifier quotes.Notifier
	if cfg.RabbitMQURL != "" {
		pool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.NotifyQueue, 4)
		if err != nil {
			log.Printf("rabbitmq unavailable, quote notifications disabled: %v", err)
		} else {
			defer pool.Close()
			notifier = rabbitmq.NewPublisher(pool, cfg.NotifyQueue)
		}
	}

	var limiter freight.Limiter = freight.NewMemoryLimiter(cfg.FreightRateLimit, cfg.FreightWindow)
	if cfg.RateLimitBackend == "redis" {
		if rdb == nil {
			rdb = redisx.New(cfg.RedisAddr)
			defer rdb.Close()
		}
		limiter = &freight.RedisLimiter{Client: rdb, Limit: cfg.FreightRateLimit, Window: cfg.FreightWindow}
	}

	catalogSvc := &catalog.Service{Store: st.catalog}
	cartSvc := &cart.Service{Store: st.cart, Products: catalogSvc}
	freightSvc := &freight.Service{Store: st.freight}
	quotesSvc := &quotes.Service{
		Store:    st.quotes,
		Products: catalogSvc,
		Cart:     cartSvc,
		Freight:  freightSvc,
		Events:   emitter,
		Notifier: notifier,
	}
	paymentsSvc := &payments.Service{
		Store:    st.payments,
		Quotes:   st.quotes,
		Provider: payments.SimulatedProvider{},
		Events:   emitter,
	}
	if rdb != nil {
		paymentsSvc.Redis = rdb
	}
	ordersSvc := &orders.Service{Store: st.orders, Events: emitter}
	if bus != nil {
		// without Kafka, orders are opened in-process
		f := &orders.Fulfillment{Orders: ordersSvc, ServiceName: cfg.ServiceName}
		bus.Subscribe(events.TopicPaymentCompleted, f.HandlePaymentCompleted)
	}

	router := httpx.NewRouter(httpx.Deps{
		Catalog:       catalogSvc,
		Cart:          cartSvc,
		Freight:       freightSvc,
		Quotes:        quotesSvc,
		Payments:      paymentsSvc,
		Orders:        ordersSvc,
		Issuer:        auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer),
		FreightLimits: limiter,
		Health:        health,
		Development:   cfg.Development(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("HTTP listening at %s (env=%s)", cfg.HTTPAddr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // flush inbox, then close writer
		cancel()
		prod.WaitClosed()
	}
	if err := shutdownTracing(ctx2); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}
