package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/magnification/jobtrack/internal/clients/jobspy"
	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type scriptedRetriever struct {
	mu       sync.Mutex
	attempts map[string]int
	// script returns the outcome for the given term and attempt number.
	script func(term string, attempt int) ([]models.RawListing, error)
}

func newScriptedRetriever(script func(term string, attempt int) ([]models.RawListing, error)) *scriptedRetriever {
	return &scriptedRetriever{attempts: map[string]int{}, script: script}
}

func (r *scriptedRetriever) Retrieve(_ context.Context, task models.ScrapeTask) ([]models.RawListing, error) {
	r.mu.Lock()
	r.attempts[task.SearchTerm]++
	attempt := r.attempts[task.SearchTerm]
	r.mu.Unlock()
	return r.script(task.SearchTerm, attempt)
}

func (r *scriptedRetriever) attemptCount(term string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[term]
}

func taskFor(term string) models.ScrapeTask {
	return models.ScrapeTask{
		SearchTerm:    term,
		Sites:         []models.Site{models.SiteIndeed},
		HoursOld:      24,
		ResultsWanted: 10,
	}
}

func listingsFor(term string, count int) []models.RawListing {
	listings := make([]models.RawListing, count)
	for i := range listings {
		listings[i] = models.RawListing{Title: term, Company: "Acme", Location: "Remote", SearchTerm: term}
	}
	return listings
}

func fastExecutor(retriever listingsRetriever, workers int) *Executor {
	e := NewExecutor(retriever, workers)
	e.backoff = time.Millisecond
	return e
}

func Test_Executor_RetriesTransientFailures(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		if attempt < 3 {
			return nil, &jobspy.ProviderError{Transient: true, Message: "timeout"}
		}
		return listingsFor(term, 2), nil
	})

	executor := fastExecutor(retriever, 2)
	results, err := executor.Execute(context.Background(), []models.ScrapeTask{taskFor("go")}, nil)

	assert.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Listings, 2)
	assert.Equal(t, 3, retriever.attemptCount("go"))
}

func Test_Executor_DoesNotRetryFatalFailures(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		return nil, &jobspy.ProviderError{Message: "invalid site"}
	})

	executor := fastExecutor(retriever, 2)
	results, err := executor.Execute(context.Background(), []models.ScrapeTask{taskFor("go")}, nil)

	assert.ErrorIs(t, err, ErrAllTasksFailed)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 1, retriever.attemptCount("go"))
}

func Test_Executor_PartialFailureIsNotARunFailure(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		if term == "broken" {
			return nil, &jobspy.ProviderError{Message: "invalid site"}
		}
		return listingsFor(term, 1), nil
	})

	tasks := []models.ScrapeTask{taskFor("go"), taskFor("broken")}
	executor := fastExecutor(retriever, 2)
	results, err := executor.Execute(context.Background(), tasks, nil)

	assert.NoError(t, err)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func Test_Executor_ExhaustedRetriesAreNotFatal(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		return nil, &jobspy.ProviderError{Transient: true, Message: "timeout"}
	})

	executor := fastExecutor(retriever, 1)
	results, err := executor.Execute(context.Background(), []models.ScrapeTask{taskFor("go")}, nil)

	// Exhausted transient failures degrade to recorded task failures.
	assert.NoError(t, err)
	assert.Error(t, results[0].Err)
	assert.Equal(t, 3, retriever.attemptCount("go"))
}

func Test_Executor_PreservesSubmissionOrder(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		// Make earlier tasks finish later.
		if term == "first" {
			time.Sleep(20 * time.Millisecond)
		}
		return listingsFor(term, 1), nil
	})

	tasks := []models.ScrapeTask{taskFor("first"), taskFor("second"), taskFor("third")}
	executor := fastExecutor(retriever, 3)
	results, err := executor.Execute(context.Background(), tasks, nil)

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	for i, task := range tasks {
		assert.Equal(t, task.SearchTerm, results[i].Task.SearchTerm)
		assert.Equal(t, task.SearchTerm, results[i].Listings[0].SearchTerm)
	}
}

func Test_Executor_ReportsProgressForEveryTask(t *testing.T) {

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		return listingsFor(term, 1), nil
	})

	tasks := []models.ScrapeTask{taskFor("a"), taskFor("b"), taskFor("c")}

	var mu sync.Mutex
	var reported []int
	progress := func(completed, total int, description string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 3, total)
		reported = append(reported, completed)
	}

	executor := fastExecutor(retriever, 2)
	_, err := executor.Execute(context.Background(), tasks, progress)

	assert.NoError(t, err)
	assert.Len(t, reported, 3)
	assert.Contains(t, reported, 3)
}

func Test_Executor_CancelledContextStopsNewTasks(t *testing.T) {

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(errors.New("stop"))

	retriever := newScriptedRetriever(func(term string, attempt int) ([]models.RawListing, error) {
		return listingsFor(term, 1), nil
	})

	executor := fastExecutor(retriever, 1)
	results, _ := executor.Execute(ctx, []models.ScrapeTask{taskFor("go")}, nil)

	assert.Error(t, results[0].Err)
	assert.Zero(t, retriever.attemptCount("go"))
}
