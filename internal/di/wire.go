//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCacheService,

		// Repositories (with business logic)
		ProvideEventStorage,
		ProvideEventPublisher,
		ProvideNotifier,
		ProvideInventorySource,
		ProvideStoreStream,
		ProvideModelStore,

		// Use cases
		ProvideEventProcessor,
		ProvideEventCollector,
		ProvideStockEventsHandler,
		ProvideForecaster,
		ProvideJobQueue,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
