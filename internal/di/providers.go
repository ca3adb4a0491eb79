package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	mid "StockCast/internal/middleware"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/forecast"
	"StockCast/internal/service/storefeed"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	pkgkafka "StockCast/pkg/kafka"
	"StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/queue"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".stock_events (" +
			"ts DateTime, store_id String, product_id String, product_name String, " +
			"stock Int32, min_stock Int32, price Float64, category String, " +
			"is_new UInt8, event_id String" +
			") ENGINE=MergeTree ORDER BY (store_id, product_id, ts)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEventStorage creates ClickHouse event storage.
func ProvideEventStorage(chClient *pkgch.Client, cfg *config.Config) repository.EventStorage {
	return internalrepo.NewClickHouseEventStore(chClient.DB(), cfg.ClickHouse.Database+".stock_events")
}

// ProvideEventPublisher creates a Kafka publisher for stock events.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideNotifier creates the alert notifier over the alerts topic.
func ProvideNotifier(producer *pkgkafka.Producer, cfg *config.Config) repository.Notifier {
	if cfg.Kafka.AlertsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaNotifier(producer, cfg.Kafka.AlertsTopic)
}

// ProvideInventorySource reads the inventory view off the events table.
func ProvideInventorySource(chClient *pkgch.Client, cfg *config.Config) repository.InventorySource {
	return internalrepo.NewClickHouseInventory(chClient.DB(), cfg.ClickHouse.Database+".stock_events")
}

// ProvideStoreStream creates the store feed WebSocket stream.
func ProvideStoreStream(cfg *config.Config) repository.StoreStream {
	return storefeed.New(
		cfg.StoreFeed.APIKey,
		cfg.StoreFeed.WebSocketURL,
		cfg.StoreFeed.StoreIDs,
		cfg.StoreFeed.ReconnectDelay,
		cfg.StoreFeed.PingInterval,
	)
}

// ProvideEventProcessor creates the stock event processor use case.
func ProvideEventProcessor(
	pub repository.Publisher,
	store repository.EventStorage,
	notifier repository.Notifier,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.EventProcessor {
	return usecase.NewEventProcessor(pub, store, notifier, metrics, cfg.Backend.Type)
}

// ProvideEventCollector creates the event collector use case.
func ProvideEventCollector(
	stream repository.StoreStream,
	processor *usecase.EventProcessor,
	metrics repository.Metrics,
) *usecase.EventCollector {
	// Middleware pipeline between the feed and the backend
	pipe := mid.NewRealtimePipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewEventCollector(stream, processor, metrics, pipe)
}

// ProvideStockEventsHandler registers the consumer handler for the events topic.
func ProvideStockEventsHandler(store repository.EventStorage, metrics repository.Metrics, cfg *config.Config) *usecase.StockEventsHandler {
	return usecase.NewStockEventsHandler(cfg.Kafka.EventsTopic, store, metrics)
}

// ProvideCacheService returns a layered cache (memory over Redis) when Redis
// is configured, memory only otherwise.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, err
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideModelStore persists trained models as JSON artifacts.
func ProvideModelStore(cfg *config.Config) forecast.ModelStore {
	return forecast.NewFileStore(cfg.Forecast.ModelPath)
}

// ProvideForecaster creates the forecasting orchestrator.
func ProvideForecaster(
	source repository.InventorySource,
	store forecast.ModelStore,
	cacheSvc cache.Service,
	metrics repository.Metrics,
	lgr *logger.Logger,
	cfg *config.Config,
) *usecase.Forecaster {
	return usecase.NewForecaster(
		source,
		store,
		cacheSvc,
		metrics,
		lgr,
		cfg.Forecast.TrainingExamples,
		cfg.Forecast.TrainingSeed,
		cfg.Forecast.HorizonDays,
		cfg.Forecast.CacheTTL,
	)
}

// ProvideJobQueue creates the Redis retrain queue; nil when Redis is off.
func ProvideJobQueue(cfg *config.Config, lgr *logger.Logger, forecaster *usecase.Forecaster) *queue.RedisQueue {
	if !cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return queue.NewRedisConsumer(lgr,
		&queue.QueueConfig{
			Workers:    cfg.Forecast.RetrainWorkers,
			RetryLimit: 3,
			RetryDelay: 30 * time.Second,
		},
		client,
		[]queue.Job{usecase.NewRetrainJob(forecaster, lgr)},
	)
}

// ProvideHTTPHandler creates the forecasting API handler.
func ProvideHTTPHandler(
	lgr *logger.Logger,
	forecaster *usecase.Forecaster,
	source repository.InventorySource,
	jobQueue *queue.RedisQueue,
) *api.ForecastEchoHandler {
	var jobs queue.QueueService
	if jobQueue != nil {
		jobs = jobQueue
	}
	return api.NewForecastEchoHandler(lgr, forecaster, source, jobs)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *logger.Logger,
	collector *usecase.EventCollector,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh *usecase.StockEventsHandler,
	chClient *pkgch.Client,
	jobQueue *queue.RedisQueue,
	handler *api.ForecastEchoHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	if producer != nil && cfg.Kafka.LogsTopic != "" {
		lgr.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogPublisher{producer},
		})
	}
	app := server.New(cfg, lgr, collector, consumer, kh, chClient, jobQueue)
	app.SetHTTPHandler(handler)
	// attach event processor to app for closing resources via collector
	if collector != nil {
		app.EventProc = collector.Processor()
	}
	return app
}

// kafkaLogPublisher adapts the producer to the log collector's Publisher
// interface so aggregated error logs land on the logs topic.
type kafkaLogPublisher struct {
	p *pkgkafka.Producer
}

func (k kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return k.p.Publish(ctx, topic, nil, payload)
}
