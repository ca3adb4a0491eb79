package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/forecast"
	"StockCast/pkg/cache"
	"StockCast/pkg/logger"
)

// ForecastError carries the per-item failure out of a fan-out run without
// aborting the whole report.
type ForecastError struct {
	ProductID string
	Err       error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast %s: %v", e.ProductID, e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }

// Forecaster orchestrates the demand model lifecycle and produces forecast
// reports over the inventory. The model is trained lazily on first use,
// published atomically under the mutex, and cached reports are invalidated
// on retrain.
type Forecaster struct {
	source  drepo.InventorySource
	store   forecast.ModelStore
	cache   cache.Service
	metrics drepo.Metrics
	logger  *logger.Logger

	trainExamples int
	trainSeed     int64
	horizonDays   int
	cacheTTL      time.Duration

	mu    sync.Mutex
	model *forecast.Model
}

func NewForecaster(
	source drepo.InventorySource,
	store forecast.ModelStore,
	cacheSvc cache.Service,
	metrics drepo.Metrics,
	lgr *logger.Logger,
	trainExamples int,
	trainSeed int64,
	horizonDays int,
	cacheTTL time.Duration,
) *Forecaster {
	return &Forecaster{
		source:        source,
		store:         store,
		cache:         cacheSvc,
		metrics:       metrics,
		logger:        lgr,
		trainExamples: trainExamples,
		trainSeed:     trainSeed,
		horizonDays:   horizonDays,
		cacheTTL:      cacheTTL,
	}
}

// ensureModel returns the active model, loading a persisted artifact or
// training a fresh one when none exists. Training happens at most once per
// call: a singular draw gets one retry with a shifted seed.
func (f *Forecaster) ensureModel(ctx context.Context) (*forecast.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.model != nil {
		return f.model, nil
	}

	m, err := f.store.Load()
	switch {
	case err == nil:
		f.logger.Info("loaded persisted demand model",
			logger.Any("trainedAt", m.TrainedAt))
		f.model = m
		return m, nil
	case errors.Is(err, forecast.ErrModelNotFound):
		f.logger.Info("no persisted demand model, training")
	default:
		// An unreadable or corrupt artifact is not the missing-model case;
		// retraining over it would mask the I/O problem and overwrite the
		// evidence on the next Save.
		return nil, fmt.Errorf("load demand model: %w", err)
	}

	m, err = f.train(f.trainExamples, f.trainSeed)
	if err != nil {
		return nil, err
	}
	f.model = m
	return m, nil
}

// train generates a synthetic corpus, fits the model, and persists it. A
// save failure is logged but does not discard the in-memory model.
func (f *Forecaster) train(examples int, seed int64) (*forecast.Model, error) {
	start := time.Now()
	gen := forecast.NewGenerator(time.Now().UTC())

	m, err := forecast.Train(gen.Generate(examples, seed))
	if errors.Is(err, forecast.ErrTraining) {
		f.logger.Warn("training draw degenerate, retrying with shifted seed",
			logger.Int64("seed", seed), logger.Error(err))
		m, err = forecast.Train(gen.Generate(examples, seed+1))
	}
	if err != nil {
		return nil, fmt.Errorf("train demand model: %w", err)
	}

	f.metrics.RecordTrainingDuration(time.Since(start).Seconds())
	f.logger.Info("trained demand model",
		logger.Int("examples", examples),
		logger.Int64("seed", seed),
		logger.Duration("took", time.Since(start)))

	if err := f.store.Save(m); err != nil {
		f.metrics.RecordError("model_save")
		f.logger.Warn("persist demand model", logger.Error(err))
	}
	return m, nil
}

// Retrain fits a replacement model and swaps it in atomically. Cached
// reports produced by the old model are dropped.
func (f *Forecaster) Retrain(ctx context.Context, examples int, seed int64) error {
	if examples <= 0 {
		examples = f.trainExamples
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m, err := f.train(examples, seed)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.model = m
	f.mu.Unlock()

	if err := f.cache.DeleteByPattern(ctx, "forecast:*"); err != nil {
		f.logger.Warn("invalidate forecast cache", logger.Error(err))
	}
	return nil
}

// GetAllForecasts produces the forecast report for storeID (all stores when
// empty), most urgent items first. Items that fail individually are excluded
// from the report and returned as joined ForecastError values alongside it,
// so the caller can serve the partial report or abort.
func (f *Forecaster) GetAllForecasts(ctx context.Context, storeID string, refresh bool) ([]models.ForecastResult, error) {
	key := cache.GenerateKeyWithParams("forecast:report", storeID)
	if !refresh {
		var cached []models.ForecastResult
		if err := f.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	model, err := f.ensureModel(ctx)
	if err != nil {
		return nil, err
	}

	var items []models.InventoryItem
	if storeID == "" {
		items, err = f.source.ListItems(ctx)
	} else {
		items, err = f.source.ListByStore(ctx, storeID)
	}
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	now := time.Now().UTC()
	results := make([]*models.ForecastResult, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(now.UnixNano() + int64(i)))
			results[i], errs[i] = f.forecastItem(items[i], model, now, rng)
		}(i)
	}
	wg.Wait()

	report := make([]models.ForecastResult, 0, len(items))
	var itemErrs []error
	for i, r := range results {
		if errs[i] != nil {
			f.metrics.RecordError("forecast_item")
			ferr := &ForecastError{ProductID: items[i].ProductID, Err: errs[i]}
			f.logger.Warn("item excluded from forecast report", logger.Error(ferr))
			itemErrs = append(itemErrs, ferr)
			continue
		}
		report = append(report, *r)
	}

	sort.SliceStable(report, func(a, b int) bool {
		return report[a].RiskLevel.Severity() > report[b].RiskLevel.Severity()
	})

	if len(itemErrs) > 0 {
		// Do not cache a report with holes in it.
		return report, errors.Join(itemErrs...)
	}

	if err := f.cache.Set(ctx, key, report, f.cacheTTL); err != nil {
		f.logger.Warn("cache forecast report", logger.Error(err))
	}
	return report, nil
}

func (f *Forecaster) forecastItem(item models.InventoryItem, model *forecast.Model, now time.Time, rng *rand.Rand) (*models.ForecastResult, error) {
	v, err := forecast.NewInferenceVector(item, now)
	if err != nil {
		return nil, err
	}
	demand, err := model.Predict(v)
	if err != nil {
		return nil, err
	}
	if demand < 0 {
		demand = 0
	}

	days, level, reorder := forecast.Classify(item.CurrentStock, demand)
	f.metrics.RecordForecast(level.String())

	return &models.ForecastResult{
		ProductName:                item.ProductName,
		StoreID:                    item.StoreID,
		CurrentStock:               item.CurrentStock,
		PredictedDemand:            demand,
		DaysUntilStockout:          days,
		RiskLevel:                  level,
		RecommendedReorderQuantity: reorder,
		DailyForecasts:             forecast.Simulate(item.CurrentStock, demand, f.horizonDays, now, rng),
	}, nil
}
