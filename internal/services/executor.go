package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magnification/jobtrack/internal/clients/jobspy"
	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/magnification/jobtrack/internal/logger"
	"github.com/magnification/jobtrack/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrAllTasksFailed is returned when no task produced a single listing and
// every failure was non-retryable. Partial success is never a run failure.
var ErrAllTasksFailed = errors.New("all scrape tasks failed with non-retryable errors")

type listingsRetriever interface {
	Retrieve(ctx context.Context, task models.ScrapeTask) ([]models.RawListing, error)
}

// TaskResult is the terminal outcome of one scrape task: either the listings
// it retrieved or the error that exhausted it.
type TaskResult struct {
	Task     models.ScrapeTask
	Listings []models.RawListing
	Err      error
}

// ProgressFunc is invoked after each task resolves, in completion order.
type ProgressFunc func(completed, total int, description string)

// Executor runs scrape tasks against the retrieval provider on a bounded
// worker pool, retrying transient provider errors with a linear backoff.
type Executor struct {
	retriever   listingsRetriever
	workers     int
	maxAttempts int
	backoff     time.Duration
}

func NewExecutor(retriever listingsRetriever, workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		retriever:   retriever,
		workers:     workers,
		maxAttempts: 3,
		backoff:     time.Second,
	}
}

// Execute dispatches tasks in submission order and blocks until every
// dispatched task resolves. Results keep submission order regardless of
// completion order, so downstream first-wins deduplication is deterministic.
// A cancelled context stops new tasks from starting; in-flight tasks drain.
func (e *Executor) Execute(ctx context.Context, tasks []models.ScrapeTask, progress ProgressFunc) ([]TaskResult, error) {

	results := make([]TaskResult, len(tasks))

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range tasks {
			indexes <- i
		}
	}()

	var completedMu sync.Mutex
	completed := 0

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				if err := ctx.Err(); err != nil {
					results[idx] = TaskResult{Task: tasks[idx], Err: context.Cause(ctx)}
				} else {
					results[idx] = e.runTask(ctx, tasks[idx])
				}

				completedMu.Lock()
				completed++
				done := completed
				completedMu.Unlock()

				if progress != nil {
					progress(done, len(tasks), fmt.Sprintf("'%v'", tasks[idx].SearchTerm))
				}
			}
		}()
	}
	wg.Wait()

	return results, e.checkTotalFailure(results)
}

func (e *Executor) runTask(ctx context.Context, task models.ScrapeTask) TaskResult {

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {

		listings, err := e.retriever.Retrieve(ctx, task)
		if err == nil {
			log.Infof("completed scrape for %v: %v listings", task.ID(), len(listings))
			return TaskResult{Task: task, Listings: listings}
		}
		lastErr = err

		var providerErr *jobspy.ProviderError
		if !errors.As(err, &providerErr) || !providerErr.Transient {
			break
		}
		if attempt == e.maxAttempts {
			break
		}

		log.Warnf("scrape attempt %v/%v failed for %v, retrying: %v", attempt, e.maxAttempts, task.ID(), err)
		select {
		case <-ctx.Done():
			return TaskResult{Task: task, Err: context.Cause(ctx)}
		case <-time.After(time.Duration(attempt) * e.backoff):
		}
	}

	metrics.FailedTasksCounter.Inc()
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeProvider).
		Errorf("scrape task %v failed: %v", task.ID(), lastErr)
	return TaskResult{Task: task, Err: lastErr}
}

func (e *Executor) checkTotalFailure(results []TaskResult) error {

	if len(results) == 0 {
		return nil
	}

	for _, result := range results {
		if result.Err == nil || len(result.Listings) > 0 {
			return nil
		}

		var providerErr *jobspy.ProviderError
		if errors.As(result.Err, &providerErr) && providerErr.Transient {
			return nil
		}
	}

	return ErrAllTasksFailed
}
