package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

type fakeStorage struct {
	mu     sync.Mutex
	stored []*models.StockEvent
}

func (s *fakeStorage) Store(ctx context.Context, e *models.StockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, e)
	return nil
}

func (s *fakeStorage) StoreBatch(ctx context.Context, events []*models.StockEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, events...)
	return nil
}

func (s *fakeStorage) Health(ctx context.Context) error { return nil }
func (s *fakeStorage) Close() error                     { return nil }

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

// flakyStream drops its first read session the way the feed client does on a
// broken socket: an error on the channel, then both channels closed.
type flakyStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
}

func (f *flakyStream) Connect(ctx context.Context) error   { return nil }
func (f *flakyStream) Subscribe(ctx context.Context) error { return nil }
func (f *flakyStream) Close() error                        { return nil }
func (f *flakyStream) IsConnected() bool                   { return true }

func (f *flakyStream) Read(ctx context.Context) (<-chan *models.StockEvent, <-chan error) {
	f.mu.Lock()
	f.reads++
	n := f.reads
	f.mu.Unlock()

	events := make(chan *models.StockEvent, 8)
	errs := make(chan error, 1)
	if n == 1 {
		errs <- errors.New("connection reset")
		close(events)
		close(errs)
		return events, errs
	}
	events <- &models.StockEvent{
		StoreID:      "s1",
		ProductID:    "p1",
		ProductName:  "Salt",
		NewStock:     9,
		MinimumStock: 2,
		Price:        1.5,
		Timestamp:    time.Now().Unix(),
	}
	return events, errs
}

func (f *flakyStream) Reconnect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconnects++
	return nil
}

func TestCollectorResumesAfterStreamError(t *testing.T) {
	stream := &flakyStream{}
	storage := &fakeStorage{}
	proc := NewEventProcessor(nil, storage, nil, newFakeMetrics(), "clickhouse")
	c := NewEventCollector(stream, proc, newFakeMetrics(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for storage.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if storage.count() == 0 {
		t.Fatal("no event processed after the stream error")
	}

	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.reconnects == 0 {
		t.Fatal("stream was never reconnected")
	}
	if stream.reads < 2 {
		t.Fatalf("reads = %d, want a fresh Read after reconnect", stream.reads)
	}
}
