package services

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/magnification/jobtrack/internal/entities"
	"github.com/magnification/jobtrack/internal/events"
	"github.com/magnification/jobtrack/internal/logger"
	"github.com/magnification/jobtrack/internal/metrics"
	"github.com/magnification/jobtrack/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	errRunCancelled = errors.New("run cancelled")
	errRunTimedOut  = errors.New("run timed out")
)

type jobRepository interface {
	ScanIdentityKeys(ctx context.Context) (map[models.IdentityKey]struct{}, error)
	Insert(ctx context.Context, listing models.NormalizedListing) (*entities.Job, error)
	SetIgnored(ctx context.Context, jobID int, ignored bool) error
	GetByIDs(ctx context.Context, ids []int) ([]entities.Job, error)
}

// Workflow sequences one scrape run: task generation, concurrent retrieval,
// processing, storage with store-level deduplication, and keyword filtering.
// A single run may be active at a time; finished runs stay queryable for an
// hour through the run registry.
type Workflow struct {
	bus        EventBus.Bus
	executor   *Executor
	jobs       jobRepository
	runs       *runRegistry
	runTimeout time.Duration
	cancels    sync.Map
}

func NewWorkflow(bus EventBus.Bus, retriever listingsRetriever, jobs jobRepository,
	workers int, runTimeout time.Duration) *Workflow {

	return &Workflow{
		bus:        bus,
		executor:   NewExecutor(retriever, workers),
		jobs:       jobs,
		runs:       newRunRegistry(),
		runTimeout: runTimeout,
	}
}

// Start validates the configuration, registers a run, and executes it in the
// background. Returns ErrAlreadyRunning while another run is active.
func (w *Workflow) Start(cfg models.SearchConfig) (string, error) {

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	runID, err := w.runs.begin()
	if err != nil {
		return "", err
	}

	// The cancel func must be registered before the run goroutine is
	// scheduled, or a Cancel issued right after Start returns finds nothing
	// and the run proceeds anyway.
	ctx, cancel := context.WithCancelCause(context.Background())
	w.cancels.Store(runID, cancel)

	go w.execute(ctx, runID, cfg)
	return runID, nil
}

// Status returns a snapshot of the run's progress and statistics.
func (w *Workflow) Status(runID string) (RunState, error) {
	return w.runs.get(runID)
}

// Cancel requests cancellation of a run. The run stops at the next stage
// boundary; in-flight scrape tasks are left to complete. Cancelling an
// already finished run is a no-op.
func (w *Workflow) Cancel(runID string) error {

	if cancel, ok := w.cancels.Load(runID); ok {
		cancel.(context.CancelCauseFunc)(errRunCancelled)
		return nil
	}

	_, err := w.runs.get(runID)
	return err
}

func (w *Workflow) execute(ctx context.Context, runID string, cfg models.SearchConfig) {

	defer func() {
		if cancel, ok := w.cancels.LoadAndDelete(runID); ok {
			cancel.(context.CancelCauseFunc)(nil)
		}
	}()

	ctx, cancelTimeout := context.WithTimeoutCause(ctx, w.runTimeout, errRunTimedOut)
	defer cancelTimeout()

	startTime := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(startTime).Seconds())
	}()

	log.Infof("scrape run %v started with %v search terms", runID, len(cfg.SearchTerms))

	// Stage 1: task generation.
	w.runs.update(runID, func(state *RunState) {
		state.Status = RunInProgress
		state.Stage = StageGeneratingTasks
	})

	tasks, err := GenerateTasks(cfg)
	if err != nil {
		w.fail(runID, err)
		return
	}
	w.runs.update(runID, func(state *RunState) { state.Percent = 5 })

	// Stage 2: concurrent scraping.
	if w.cancelledOrExpired(ctx, runID) {
		return
	}
	w.setStage(runID, StageScraping, 10)

	stageStart := time.Now()
	results, err := w.executor.Execute(ctx, tasks, func(completed, total int, description string) {
		w.runs.update(runID, func(state *RunState) {
			state.Percent = 10 + 80*completed/total
		})
		log.Infof("run %v: completed task %v/%v (%v)", runID, completed, total, description)
	})
	metrics.StageDuration.WithLabelValues("scraping").Observe(time.Since(stageStart).Seconds())

	// Stage 3: processing. Per-task results are concatenated in task
	// submission order so first-wins deduplication stays deterministic.
	// Cancellation takes precedence over a scraping failure verdict.
	if w.cancelledOrExpired(ctx, runID) {
		return
	}
	if err != nil {
		w.fail(runID, err)
		return
	}
	w.setStage(runID, StageProcessing, 90)

	var raw []models.RawListing
	failedTasks := 0
	for _, result := range results {
		if result.Err != nil {
			failedTasks++
			continue
		}
		raw = append(raw, result.Listings...)
	}

	normalized, duplicates := Process(raw)
	metrics.DuplicateListingsCounter.Add(float64(duplicates))
	w.runs.update(runID, func(state *RunState) {
		state.Stats.Found = len(raw)
		state.Stats.FailedTasks = failedTasks
		state.Stats.Duplicates = duplicates
		state.Stats.Processed = len(normalized)
	})

	// Stage 4: storage with store-level deduplication.
	if w.cancelledOrExpired(ctx, runID) {
		return
	}
	w.setStage(runID, StageStoring, 90)

	insertedIDs, err := w.storeListings(ctx, runID, normalized)
	if err != nil {
		w.fail(runID, err)
		return
	}
	w.runs.update(runID, func(state *RunState) { state.Percent = 95 })

	// Stage 5: keyword filtering of this run's new jobs.
	if w.cancelledOrExpired(ctx, runID) {
		return
	}
	w.setStage(runID, StageFiltering, 95)

	if err = w.filterAndMark(ctx, runID, insertedIDs, cfg); err != nil {
		w.fail(runID, err)
		return
	}

	w.runs.finish(runID, func(state *RunState) {
		state.Status = RunCompleted
		state.Stage = StageCompleted
		state.Percent = 100
	})

	finished, _ := w.runs.get(runID)
	log.Infof("scrape run %v completed after %v: stored %v, ignored %v",
		runID, time.Since(startTime), finished.Stats.Stored, finished.Stats.Ignored)
	w.bus.Publish(events.RunCompletedTopic, events.RunCompleted{
		RunID:      runID,
		Stored:     finished.Stats.Stored,
		Ignored:    finished.Stats.Ignored,
		Duplicates: finished.Stats.Duplicates,
	})
}

// storeListings cross-checks each listing against the identity triples
// already in the store, inserting only new ones. Listings without identity
// fields are skipped and logged; they never abort the run.
func (w *Workflow) storeListings(ctx context.Context, runID string,
	listings []models.NormalizedListing) ([]int, error) {

	stageStart := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("storing").Observe(time.Since(stageStart).Seconds())
	}()

	existing, err := w.jobs.ScanIdentityKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan existing jobs")
	}

	var insertedIDs []int
	skippedExisting, skippedInvalid := 0, 0

	for _, listing := range listings {
		key := listing.IdentityKey()
		if _, ok := existing[key]; ok {
			skippedExisting++
			continue
		}

		job, err := w.jobs.Insert(ctx, listing)
		if err != nil {
			var persistenceErr *repositories.PersistenceError
			if errors.As(err, &persistenceErr) {
				skippedInvalid++
				log.Warnf("run %v: skipping listing: %v", runID, err)
				continue
			}
			skippedInvalid++
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("run %v: failed to insert listing: %v", runID, err)
			continue
		}

		existing[key] = struct{}{}
		insertedIDs = append(insertedIDs, job.ID)
	}

	metrics.StoredJobsCounter.Add(float64(len(insertedIDs)))
	w.runs.update(runID, func(state *RunState) {
		state.Stats.Stored = len(insertedIDs)
		state.Stats.SkippedExisting = skippedExisting
		state.Stats.SkippedInvalid = skippedInvalid
	})

	log.Infof("run %v: stored %v jobs, skipped %v duplicates", runID, len(insertedIDs), skippedExisting)
	return insertedIDs, nil
}

// filterAndMark evaluates the configured keyword groups against each newly
// inserted job and flips the ignore flag on those failing either dimension.
func (w *Workflow) filterAndMark(ctx context.Context, runID string, jobIDs []int,
	cfg models.SearchConfig) error {

	stageStart := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("filtering").Observe(time.Since(stageStart).Seconds())
	}()

	if len(jobIDs) == 0 {
		return nil
	}

	jobs, err := w.jobs.GetByIDs(ctx, jobIDs)
	if err != nil {
		return errors.Wrap(err, "failed to fetch jobs for filtering")
	}

	kept, ignored := 0, 0
	for _, job := range jobs {
		description := ""
		if job.Description != nil {
			description = *job.Description
		}

		if ListingPassesFilters(job.Title, description, cfg) {
			kept++
			continue
		}

		if err = w.jobs.SetIgnored(ctx, job.ID, true); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("run %v: failed to mark job %v as ignored: %v", runID, job.ID, err)
			continue
		}
		ignored++
		metrics.IgnoredJobsCounter.Inc()
	}

	w.runs.update(runID, func(state *RunState) {
		state.Stats.Kept = kept
		state.Stats.Ignored = ignored
	})

	log.Infof("run %v: filtering complete, %v kept, %v ignored", runID, kept, ignored)
	return nil
}

func (w *Workflow) setStage(runID string, stage RunStage, percent int) {
	w.runs.update(runID, func(state *RunState) {
		state.Stage = stage
		state.Percent = percent
	})
}

// cancelledOrExpired checks the run's context at a stage boundary and, when
// it fired, moves the run to its failed terminal state with the cause.
func (w *Workflow) cancelledOrExpired(ctx context.Context, runID string) bool {
	if ctx.Err() == nil {
		return false
	}
	w.fail(runID, context.Cause(ctx))
	return true
}

func (w *Workflow) fail(runID string, reason error) {
	w.runs.finish(runID, func(state *RunState) {
		state.Status = RunFailed
		state.Error = reason.Error()
	})
	log.Errorf("scrape run %v failed: %v", runID, reason)
	w.bus.Publish(events.RunCompletedTopic, events.RunCompleted{
		RunID:  runID,
		Failed: true,
		Reason: reason.Error(),
	})
}
