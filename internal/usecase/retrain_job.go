package usecase

import (
	"context"

	"StockCast/internal/domain/models"
	"StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// RetrainJobType identifies retrain messages on the job queue.
const RetrainJobType = "forecast.retrain"

// RetrainJob retrains the demand model off the request path.
type RetrainJob struct {
	forecaster *Forecaster
	logger     *logger.Logger
}

func NewRetrainJob(forecaster *Forecaster, lgr *logger.Logger) *RetrainJob {
	return &RetrainJob{forecaster: forecaster, logger: lgr}
}

func (j *RetrainJob) Name() string { return "demand-model-retrain" }

func (j *RetrainJob) Type() string { return RetrainJobType }

func (j *RetrainJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[models.RetrainRequest](payload)
	if err != nil {
		return err
	}
	j.logger.Info("retrain job started",
		logger.Int("examples", req.Examples),
		logger.Int64("seed", req.Seed))
	return j.forecaster.Retrain(ctx, req.Examples, req.Seed)
}
