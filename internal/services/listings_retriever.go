package services

import (
	"context"

	"github.com/magnification/jobtrack/internal/clients/jobspy"
	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/samber/lo"
)

// JobSpyRetriever adapts the jobspy client to the executor's retriever
// contract, tagging each listing with its originating search term.
type JobSpyRetriever struct {
	client *jobspy.Client
}

func NewJobSpyRetriever(client *jobspy.Client) *JobSpyRetriever {
	return &JobSpyRetriever{client: client}
}

func (r *JobSpyRetriever) Retrieve(ctx context.Context, task models.ScrapeTask) ([]models.RawListing, error) {

	params := jobspy.SearchParameters{
		SearchTerm:    task.SearchTerm,
		Sites:         task.Sites,
		HoursOld:      task.HoursOld,
		ResultsWanted: task.ResultsWanted,
	}

	listings, err := r.client.ScrapeJobs(ctx, params)
	if err != nil {
		return nil, err
	}

	return lo.Map(listings, func(l jobspy.Listing, _ int) models.RawListing {
		return models.RawListing{
			Title:       l.Title,
			Company:     l.Company,
			Location:    l.Location,
			URL:         l.URL,
			Description: l.Description,
			MinAmount:   l.MinAmount,
			MaxAmount:   l.MaxAmount,
			Interval:    l.Interval,
			Site:        l.Site,
			SearchTerm:  task.SearchTerm,
		}
	}), nil
}
