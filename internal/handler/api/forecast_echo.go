package api

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
	"StockCast/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler exposes the forecasting API over Echo.
type ForecastEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.Forecaster
	source     domrepo.InventorySource
	jobs       queue.QueueService
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	forecaster *usecase.Forecaster,
	source domrepo.InventorySource,
	jobs queue.QueueService,
) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, forecaster: forecaster, source: source, jobs: jobs}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecasts", h.Forecasts)
	g.GET("/items", h.Items)
	g.POST("/model/retrain", h.Retrain)
	e.GET("/healthz", h.Health)
}

// Forecasts returns the forecast report, most urgent items first.
func (h *ForecastEchoHandler) Forecasts(c echo.Context) error {
	req := &models.ForecastsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.forecaster.GetAllForecasts(c.Request().Context(), req.StoreID, req.Refresh)
	if err != nil {
		// Per-item failures come back joined alongside the partial report;
		// serve what was computed and let the log carry the failed ids.
		var itemErr *usecase.ForecastError
		if !errors.As(err, &itemErr) {
			h.logger.Error("forecast usecase error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		h.logger.Warn("forecast report is partial", xlogger.Error(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, report)
}

// Items lists the current inventory view.
func (h *ForecastEchoHandler) Items(c echo.Context) error {
	req := &models.ItemsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	var items []models.InventoryItem
	var err error
	switch {
	case req.LowStock:
		items, err = h.source.ListLowStock(ctx)
	case req.StoreID != "":
		items, err = h.source.ListByStore(ctx, req.StoreID)
	default:
		items, err = h.source.ListItems(ctx)
	}
	if err != nil {
		h.logger.Error("inventory list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	since := util.ParseTimeDefault(req.UpdatedSince, time.Time{})
	filtered := items[:0:0]
	for _, it := range items {
		if req.LowStock && req.StoreID != "" && it.StoreID != req.StoreID {
			continue
		}
		if !since.IsZero() && it.LastUpdated.Before(since) {
			continue
		}
		filtered = append(filtered, it)
		if len(filtered) >= req.Limit {
			break
		}
	}
	return xhttp.ListResponse(c, filtered, int64(len(filtered)))
}

// Retrain schedules a model retrain. With a job queue configured the work
// runs on a queue worker; otherwise it falls back to a fire-and-forget
// goroutine.
func (h *ForecastEchoHandler) Retrain(c echo.Context) error {
	req := &models.RetrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if h.jobs != nil {
		if err := h.jobs.PublishMessage(c.Request().Context(), usecase.RetrainJobType, req); err != nil {
			h.logger.Error("enqueue retrain", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	} else {
		go func(examples int, seed int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := h.forecaster.Retrain(ctx, examples, seed); err != nil {
				h.logger.Error("retrain", xlogger.Error(err))
			}
		}(req.Examples, req.Seed)
	}
	return xhttp.DataResponse(c, 202, map[string]interface{}{
		"status":   "scheduled",
		"examples": req.Examples,
	})
}

// Health reports inventory source reachability.
func (h *ForecastEchoHandler) Health(c echo.Context) error {
	if err := h.source.Health(c.Request().Context()); err != nil {
		h.logger.Warn("inventory health", xlogger.Error(err))
		return xhttp.DataResponse(c, 503, map[string]string{"status": "degraded"})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
