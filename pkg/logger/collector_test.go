package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *capturePublisher) wait(t *testing.T) (string, []AggregatedLogEntry) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		if len(p.batches) > 0 {
			topic, batch := p.topic, p.batches[0]
			p.mu.Unlock()
			return topic, batch
		}
		p.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no aggregated batch published")
	return "", nil
}

func TestLogCollectorAggregatesDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "ops.logs",
		Publisher:      pub,
	})
	defer c.Close()

	fields := map[string]interface{}{"productId": "p1"}
	c.AddLog("error", "store insert failed", fields, "repo.go:10")
	c.AddLog("error", "store insert failed", fields, "repo.go:10")
	// A second unique entry hits the count threshold and triggers a flush.
	c.AddLog("error", "publish failed", nil, "repo.go:20")

	topic, batch := pub.wait(t)
	if topic != "ops.logs" {
		t.Fatalf("published to %q, want ops.logs", topic)
	}
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
	for _, e := range batch {
		if e.Message == "store insert failed" && e.Count != 2 {
			t.Fatalf("duplicate entry count = %d, want 2", e.Count)
		}
	}
}

func TestLogCollectorFlushesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "ops.logs",
		Publisher:      pub,
	})

	c.AddLog("error", "one-off failure", nil, "worker.go:42")
	c.Close()

	_, batch := pub.wait(t)
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if batch[0].Count != 1 || batch[0].Caller != "worker.go:42" {
		t.Fatalf("unexpected entry: %+v", batch[0])
	}
}
