// Package events fans job lifecycle transitions out to an optional Kafka
// sink without putting Kafka on the pipeline's hot path. Adapted from the
// teacher's internal/worker/worker.go batching pool, generalized from
// *models.Envelope to job.Event and given a NoopPublisher for when no
// brokers are configured (spec.md's job-event stream is explicitly
// best-effort: a publish failure never fails a print job).
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coolarec/spooling/internal/job"
	"github.com/coolarec/spooling/internal/logger"
)

// Publisher publishes job events, possibly batching them.
type Publisher interface {
	Publish(ctx context.Context, evt job.Event) error
	PublishBatch(ctx context.Context, evts []job.Event) error
}

// NoopPublisher discards every event. Used when no Kafka brokers are
// configured so the rest of the pipeline never has to special-case the
// absence of a job-event sink.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, job.Event) error       { return nil }
func (NoopPublisher) PublishBatch(context.Context, []job.Event) error { return nil }

// Pool batches events off of a channel and hands them to a Publisher.
type Pool struct {
	publisher Publisher
	eventChan chan job.Event
	workers   int
	batchSize int
	batchWait time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	processed atomic.Uint64
	failed    atomic.Uint64
}

// Config holds event pool configuration.
type Config struct {
	Publisher Publisher
	EventChan chan job.Event
	Workers   int
	BatchSize int
	BatchWait time.Duration
}

// NewPool creates a new event-publishing pool.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchWait <= 0 {
		cfg.BatchWait = 100 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		publisher: cfg.Publisher,
		eventChan: cfg.EventChan,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		batchWait: cfg.BatchWait,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the pool's worker goroutines.
func (p *Pool) Start() {
	log := logger.WithComponent("events")
	log.Info().Int("workers", p.workers).Int("batch_size", p.batchSize).Msg("starting event publisher pool")

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop drains in-flight events and waits for all workers to exit.
func (p *Pool) Stop() {
	logger.WithComponent("events").Info().Msg("stopping event publisher pool")
	p.cancel()
	p.wg.Wait()
}

// Emit enqueues an event for publishing, dropping it if the pool is full
// or stopped rather than blocking job submission.
func (p *Pool) Emit(evt job.Event) {
	select {
	case p.eventChan <- evt:
	default:
		logger.WithComponent("events").Warn().Uint64("job_id", evt.Job.JobID).Msg("event channel full, dropping event")
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]job.Event, 0, p.batchSize)
	timer := time.NewTimer(p.batchWait)
	defer timer.Stop()

	flush := func() {
		if len(batch) > 0 {
			p.publishBatch(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case <-p.ctx.Done():
			flush()
			return

		case evt, ok := <-p.eventChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, evt)
			if len(batch) >= p.batchSize {
				flush()
				timer.Reset(p.batchWait)
			}

		case <-timer.C:
			flush()
			timer.Reset(p.batchWait)
		}
	}
}

func (p *Pool) publishBatch(batch []job.Event) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()

	if err := p.publisher.PublishBatch(ctx, batch); err != nil {
		logger.WithComponent("events").Warn().Err(err).Int("batch_size", len(batch)).Msg("failed to publish event batch")
		p.failed.Add(uint64(len(batch)))
		return
	}
	p.processed.Add(uint64(len(batch)))
}

// Stats returns publisher pool counters.
func (p *Pool) Stats() (processed, failed uint64) {
	return p.processed.Load(), p.failed.Load()
}
