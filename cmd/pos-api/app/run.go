package app

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/brianragasi/Highland-sub003/configs"
	"github.com/brianragasi/Highland-sub003/internal/adapter/cache"
	"github.com/brianragasi/Highland-sub003/internal/adapter/catalog"
	"github.com/brianragasi/Highland-sub003/internal/adapter/http"
	"github.com/brianragasi/Highland-sub003/internal/adapter/http/middleware"
	"github.com/brianragasi/Highland-sub003/internal/adapter/kafka"
	"github.com/brianragasi/Highland-sub003/internal/adapter/queue"
	"github.com/brianragasi/Highland-sub003/internal/adapter/sales"
	"github.com/brianragasi/Highland-sub003/internal/logging"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	server *nethttp.Server
}

func (a *App) Run() error {
	return a.server.ListenAndServe()
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init("pos-api", cfg.App.LogFile)

	// redis: catalog cache + confirm-token idempotency
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// rabbitmq: sale.completed publisher
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange, cfg.Rabbit.RoutingKey)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	// catalog service client behind the shared redis snapshot
	catalogClient, err := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	if err != nil {
		return nil, nil, err
	}
	catalogCache := cache.NewRedisCatalogCache(rdb, cfg.Catalog.CacheTTL)
	provider := catalog.NewCachedProvider(catalogClient, catalogCache)

	// sales service client
	salesClient, err := sales.NewClient(cfg.Sales.BaseURL, cfg.Sales.Timeout)
	if err != nil {
		return nil, nil, err
	}

	// kafka: patch the catalog snapshot on inventory stock movements
	kafkaCtx, stopKafka := context.WithCancel(context.Background())
	group, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		stopKafka()
		_ = conn.Close()
		return nil, nil, err
	}
	stockHandler := kafka.NewStockChangedHandler(catalogCache)
	consumer := kafka.NewConsumer(group, []string{cfg.Kafka.StockTopic}, stockHandler.Handle)
	consumer.Logger = logging.New("kafka")
	go func() {
		if err := consumer.Start(kafkaCtx); err != nil && kafkaCtx.Err() == nil {
			logger.Error("kafka consumer stopped", "err", err)
		}
	}()

	// use cases
	taxRate, err := cfg.TaxRate()
	if err != nil {
		stopKafka()
		_ = conn.Close()
		return nil, nil, err
	}
	pricing := usecase.NewPricing(taxRate)
	carts := usecase.NewCartStore(provider)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	checkout := usecase.NewCheckout(carts, pricing, salesClient, idem, producer, cfg.Sales.Timeout)

	// handlers + router
	h := http.NewPosHandler(provider, carts, pricing, checkout, salesClient)
	lh := http.NewLoginHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := http.NewRouter(h, lh, authz, logging.New("http"))

	server := &nethttp.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	cleanup := func() {
		stopKafka()
		_ = group.Close()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_ = server.Shutdown(shutCtx)
		cancel()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
	}

	return &App{server: server}, cleanup, nil
}
