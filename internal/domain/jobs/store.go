// Package jobs runs statement extractions asynchronously: uploads are
// enqueued, a fixed worker pool drains the queue, and callers poll job state
// by id. State lives in memory; a job survives exactly as long as the process,
// which matches the upload-then-poll contract of the API.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/classifier"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/pdfdoc"
	"github.com/FACorreiaa/mpesa-statement-api/internal/domain/statement"
)

// Status is the lifecycle state of an extraction job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FailureKind categorizes a failed job for callers and metrics.
type FailureKind string

const (
	FailureNone            FailureKind = ""
	FailureInvalidPassword FailureKind = "invalid_password"
	FailureBadFormat       FailureKind = "unrecognized_format"
	FailureBadSchema       FailureKind = "schema_error"
	FailureInternal        FailureKind = "internal"
)

// Job is the observable state of one extraction.
type Job struct {
	ID           uuid.UUID
	Status       Status
	PagesDone    int
	PagesTotal   int
	Transactions []classifier.Transaction
	FailureKind  FailureKind
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Extractor runs the pipeline for one statement. Satisfied by
// statement/service.Service.
type Extractor interface {
	Extract(ctx context.Context, path, password string, reporter statement.ProgressReporter) ([]classifier.Transaction, error)
}

type task struct {
	id       uuid.UUID
	path     string
	password string
}

// ErrQueueFull is returned when the submission queue cannot take another job.
var ErrQueueFull = errors.New("extraction queue is full")

// Store owns job state and the worker pool.
type Store struct {
	extractor Extractor
	logger    *slog.Logger

	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job

	queue   chan task
	workers int
	wg      sync.WaitGroup
}

// NewStore creates a job store with the given worker count and queue depth.
func NewStore(extractor Extractor, workers, queueDepth int, logger *slog.Logger) *Store {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < workers {
		queueDepth = workers
	}
	return &Store{
		extractor: extractor,
		logger:    logger,
		jobs:      make(map[uuid.UUID]*Job),
		queue:     make(chan task, queueDepth),
		workers:   workers,
	}
}

// Start launches the worker pool. Workers exit when ctx is canceled; Wait
// blocks until they have drained.
func (s *Store) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
	s.logger.Info("extraction workers started", slog.Int("workers", s.workers))
}

// Wait blocks until all workers have exited.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Submit registers a new job for the stored statement file and queues it.
func (s *Store) Submit(path, password string) (uuid.UUID, error) {
	job := &Job{
		ID:        uuid.New(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	select {
	case s.queue <- task{id: job.ID, path: path, password: password}:
	default:
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return uuid.Nil, ErrQueueFull
	}

	jobsSubmitted.Inc()
	s.logger.Info("extraction job queued", slog.String("job_id", job.ID.String()))
	return job.ID, nil
}

// Get returns a snapshot of the job.
func (s *Store) Get(id uuid.UUID) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *Store) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-s.queue:
			s.run(ctx, t)
		}
	}
}

func (s *Store) run(ctx context.Context, t task) {
	workersBusy.Inc()
	defer workersBusy.Dec()

	s.update(t.id, func(job *Job) {
		job.Status = StatusRunning
	})

	reporter := statement.ReporterFunc(func(done, total int) {
		pagesProcessed.Inc()
		s.update(t.id, func(job *Job) {
			job.PagesDone = done
			job.PagesTotal = total
		})
	})

	transactions, err := s.extractor.Extract(ctx, t.path, t.password, reporter)
	if err != nil {
		kind := classifyFailure(err)
		jobsFailed.WithLabelValues(string(kind)).Inc()
		s.update(t.id, func(job *Job) {
			job.Status = StatusFailed
			job.FailureKind = kind
			job.Error = userMessage(kind, err)
		})
		s.logger.Error("extraction job failed",
			slog.String("job_id", t.id.String()),
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return
	}

	jobsSucceeded.Inc()
	s.update(t.id, func(job *Job) {
		job.Status = StatusSucceeded
		job.Transactions = transactions
	})
	s.logger.Info("extraction job finished",
		slog.String("job_id", t.id.String()),
		slog.Int("transactions", len(transactions)),
	)
}

func (s *Store) update(id uuid.UUID, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}

// classifyFailure maps pipeline errors onto the failure taxonomy.
func classifyFailure(err error) FailureKind {
	var decErr *pdfdoc.DecryptionError
	if errors.As(err, &decErr) {
		return FailureInvalidPassword
	}
	var fmtErr *pdfdoc.FormatError
	if errors.As(err, &fmtErr) {
		return FailureBadFormat
	}
	var schemaErr *statement.SchemaError
	if errors.As(err, &schemaErr) {
		return FailureBadSchema
	}
	return FailureInternal
}

// userMessage renders the caller-facing error for a failure kind. Internal
// details stay in the logs.
func userMessage(kind FailureKind, err error) string {
	switch kind {
	case FailureInvalidPassword:
		return "invalid password"
	case FailureBadFormat:
		return "unrecognized statement format"
	case FailureBadSchema:
		return fmt.Sprintf("statement layout not recognized: %v", err)
	default:
		return "extraction failed"
	}
}
