package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New("a scrape run is already in progress")
	ErrRunNotFound    = errors.New("run not found")
)

type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

type RunStage string

const (
	StagePending         RunStage = "pending"
	StageGeneratingTasks RunStage = "generating_tasks"
	StageScraping        RunStage = "scraping"
	StageProcessing      RunStage = "processing"
	StageStoring         RunStage = "storing"
	StageFiltering       RunStage = "filtering"
	StageCompleted       RunStage = "completed"
)

type RunStats struct {
	Found           int `json:"found"`
	Duplicates      int `json:"duplicates"`
	Processed       int `json:"processed"`
	SkippedExisting int `json:"skipped_existing"`
	SkippedInvalid  int `json:"skipped_invalid"`
	Stored          int `json:"stored"`
	Kept            int `json:"kept"`
	Ignored         int `json:"ignored"`
	FailedTasks     int `json:"failed_tasks"`
}

type RunState struct {
	ID         string     `json:"run_id"`
	Status     RunStatus  `json:"status"`
	Stage      RunStage   `json:"stage"`
	Percent    int        `json:"percent"`
	Stats      RunStats   `json:"results"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

const finishedRunRetention = time.Hour

// runRegistry is the process-scoped progress table. Worker-pool callbacks and
// status queries touch it concurrently, so every access goes through the
// mutex. Finished runs are kept for an hour, then expire from the cache.
type runRegistry struct {
	mu       sync.Mutex
	activeID string
	runs     *gocache.Cache
}

func newRunRegistry() *runRegistry {
	return &runRegistry{
		runs: gocache.New(finishedRunRetention, 2*finishedRunRetention),
	}
}

// begin registers a new run and claims the single active slot. A second run
// request while one is active is rejected, not queued.
func (r *runRegistry) begin() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeID != "" {
		return "", ErrAlreadyRunning
	}

	id := "scrape_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	state := &RunState{
		ID:        id,
		Status:    RunPending,
		Stage:     StagePending,
		StartedAt: time.Now(),
	}
	r.runs.Set(id, state, gocache.NoExpiration)
	r.activeID = id
	return id, nil
}

func (r *runRegistry) get(id string) (RunState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, found := r.runs.Get(id)
	if !found {
		return RunState{}, ErrRunNotFound
	}
	return *value.(*RunState), nil
}

func (r *runRegistry) update(id string, fn func(state *RunState)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, found := r.runs.Get(id)
	if !found {
		return
	}
	fn(value.(*RunState))
}

// finish applies the terminal mutation, releases the active slot, and
// schedules the run state for expiry.
func (r *runRegistry) finish(id string, fn func(state *RunState)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, found := r.runs.Get(id)
	if !found {
		return
	}

	state := value.(*RunState)
	fn(state)
	now := time.Now()
	state.FinishedAt = &now

	r.runs.Set(id, state, finishedRunRetention)
	if r.activeID == id {
		r.activeID = ""
	}
}
