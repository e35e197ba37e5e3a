package pipeline

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/arielw/tablemend/internal/ingest"
)

// Queue fans documents out to a bounded worker pool and streams each
// Outcome back over Results. Document processing is independent per file,
// so the pool size is driven by the OCR backend's rate limit, not by any
// shared state.
type Queue struct {
	proc    *Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch      chan ingest.Document
	results chan Outcome
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan ingest.Document, n)
			q.results = make(chan Outcome, n)
		}
	}
}
func WithDocTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewQueue(proc *Processor, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 5 * time.Minute,
		ch:      make(chan ingest.Document, 256),
		results: make(chan Outcome, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for doc := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					out := q.proc.ProcessDocument(ctx, doc)
					cancel()

					if out.Err != nil {
						q.logger.Error("document failed", "worker_id", workerID,
							"path", doc.Path, "error", out.Err)
					} else {
						q.logger.Info("document processed", "worker_id", workerID,
							"path", doc.Path, "rule", out.Rule, "cached", out.Cached)
					}
					q.results <- out
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue submits a document for processing. Blocks when the queue is
// full; the caller gets backpressure instead of an unbounded buffer.
func (q *Queue) Enqueue(_ context.Context, doc ingest.Document) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", doc.Path)
		return nil
	}
	select {
	case q.ch <- doc:
	default:
		q.logger.Warn("queue full, applying backpressure", "path", doc.Path)
		q.ch <- doc
	}
	return nil
}

// Results streams outcomes. Closed once Shutdown has drained the workers.
func (q *Queue) Results() <-chan Outcome {
	return q.results
}

// Shutdown stops intake, waits for in-flight documents and closes Results.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.wg.Wait()
		close(q.results)
	}()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
