package usecase

import (
	"context"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	mid "StockCast/internal/middleware"
)

// EventCollector pulls stock events off the store feed and hands them to the
// pipeline (or straight to the processor when no pipeline is configured).
type EventCollector struct {
	stream  drepo.StoreStream
	proc    *EventProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

func NewEventCollector(stream drepo.StoreStream, proc *EventProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *EventCollector {
	return &EventCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the store feed is connected.
func (c *EventCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *EventCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	evCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *EventCollector) consume(ctx context.Context, evCh <-chan *models.StockEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			// The read loop closes both channels on failure, so a new Read
			// is needed after every reconnect or the feed stays dead.
			if err != nil {
				c.metrics.RecordError("stream")
			}
			if err != nil || !ok {
				if evCh, errCh = c.reestablish(ctx); evCh == nil {
					return
				}
			}
		case e, ok := <-evCh:
			if !ok {
				if evCh, errCh = c.reestablish(ctx); evCh == nil {
					return
				}
				continue
			}
			if e == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, e)
			} else {
				_ = c.proc.Process(ctx, e)
			}
			c.metrics.RecordStockLevel(e.ProductID, e.NewStock)
		}
	}
}

// reestablish re-dials the feed and opens fresh channels, retrying until the
// context is cancelled. Returns nil channels on cancellation.
func (c *EventCollector) reestablish(ctx context.Context) (<-chan *models.StockEvent, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("reconnect")
			continue
		}
		evCh, errCh := c.stream.Read(ctx)
		return evCh, errCh
	}
}

func (c *EventCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying EventProcessor for lifecycle management.
func (c *EventCollector) Processor() *EventProcessor { return c.proc }

// Shutdown stops the pipeline and closes the feed.
func (c *EventCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
