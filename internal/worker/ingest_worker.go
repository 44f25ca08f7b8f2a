package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assistant-orchestrator/internal/usecase"
)

const (
	jobTimeout     = 120 * time.Second
	initialBackoff = 1 * time.Second
	maxBackoff     = 1 * time.Minute
)

// ErrQueueFull is returned when the in-memory queue cannot accept more jobs.
var ErrQueueFull = errors.New("ingest queue is full")

// IngestJob is one queued ingestion request. Either Path or Text is set.
type IngestJob struct {
	ID     uuid.UUID
	Path   string
	Text   string
	Source string
}

// IngestWorker consumes ingestion jobs from an in-memory queue fed by the
// HTTP API. Failures back off before the next job is attempted.
type IngestWorker struct {
	ingest   usecase.IngestDocumentUsecase
	logger   *slog.Logger
	jobs     chan IngestJob
	stopChan chan struct{}
	doneChan chan struct{}
	backoff  time.Duration
}

// NewIngestWorker creates a worker with the given queue capacity.
func NewIngestWorker(ingest usecase.IngestDocumentUsecase, queueSize int, logger *slog.Logger) *IngestWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &IngestWorker{
		ingest:   ingest,
		logger:   logger,
		jobs:     make(chan IngestJob, queueSize),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Enqueue adds a job without blocking; a full queue is the caller's problem.
func (w *IngestWorker) Enqueue(job IngestJob) error {
	select {
	case w.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *IngestWorker) Start() {
	w.logger.Info("starting ingest worker")
	go w.run()
}

func (w *IngestWorker) Stop() {
	w.logger.Info("stopping ingest worker")
	close(w.stopChan)
	<-w.doneChan
}

func (w *IngestWorker) run() {
	defer close(w.doneChan)
	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobs:
			w.process(job)
			if w.backoff > 0 {
				select {
				case <-w.stopChan:
					return
				case <-time.After(w.backoff):
				}
			}
		}
	}
}

func (w *IngestWorker) process(job IngestJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var err error
	if job.Path != "" {
		_, err = w.ingest.IngestFile(ctx, job.Path)
	} else {
		_, err = w.ingest.IngestText(ctx, job.Text, job.Source)
	}

	if err != nil {
		w.backoff = w.nextBackoff(w.backoff)
		w.logger.Error("ingest job failed",
			slog.String("job_id", job.ID.String()),
			slog.String("source", job.Source),
			slog.String("error", err.Error()),
			slog.Duration("backoff", w.backoff),
		)
		return
	}

	w.backoff = 0
	w.logger.Info("ingest job completed",
		slog.String("job_id", job.ID.String()),
		slog.String("source", job.Source),
	)
}

func (w *IngestWorker) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
