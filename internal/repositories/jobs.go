package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/magnification/jobtrack/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PersistenceError reports a listing that cannot be inserted because one of
// its identity fields is missing. The listing is skipped, not the whole run.
type PersistenceError struct {
	Field string
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("listing is missing required field %q", e.Field)
}

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// ScanIdentityKeys reads the identity triples of every stored job. Callers
// must re-scan per workflow run; a cached snapshot would readmit duplicates.
func (repo *Jobs) ScanIdentityKeys(ctx context.Context) (map[models.IdentityKey]struct{}, error) {

	var rows []struct {
		Title    string
		Company  string
		Location string
	}
	if err := repo.db.WithContext(ctx).Model(&entities.Job{}).
		Select("title", "company", "location").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	keys := make(map[models.IdentityKey]struct{}, len(rows))
	for _, row := range rows {
		keys[models.NewIdentityKey(row.Title, row.Company, row.Location)] = struct{}{}
	}
	return keys, nil
}

// Insert stores a listing as a tracked job together with its nine application
// status records. The job row and the status rows are written in one
// transaction; a job is never visible half persisted.
func (repo *Jobs) Insert(ctx context.Context, listing models.NormalizedListing) (*entities.Job, error) {

	for field, value := range map[string]string{
		"title":    listing.Title,
		"company":  listing.Company,
		"location": listing.Location,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, &PersistenceError{Field: field}
		}
	}

	job := entities.Job{
		Title:        listing.Title,
		Company:      listing.Company,
		Location:     listing.Location,
		Link:         listing.Link,
		Description:  listing.Description,
		Compensation: listing.Compensation,
		Ignore:       false,
	}
	for _, name := range entities.ApplicationStatusNames {
		job.Statuses = append(job.Statuses, entities.ApplicationStatus{Status: name})
	}

	if err := repo.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, errors.Wrap(err, "failed to insert job")
	}
	return &job, nil
}

// SetIgnored toggles the ignore flag. Status records are left untouched: they
// are only ever created at insert time, and un-ignoring a job does not
// recreate them.
func (repo *Jobs) SetIgnored(ctx context.Context, jobID int, ignored bool) error {
	return repo.db.WithContext(ctx).Model(&entities.Job{}).Where("id = ?", jobID).
		Update("ignore", ignored).Error
}

func (repo *Jobs) GetByIDs(ctx context.Context, ids []int) ([]entities.Job, error) {

	var jobs []entities.Job
	if err := repo.db.WithContext(ctx).Find(&jobs, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) GetByID(ctx context.Context, id int) (*entities.Job, error) {

	var job entities.Job
	err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) GetAll(ctx context.Context, includeIgnored bool) ([]entities.Job, error) {

	query := repo.db.WithContext(ctx)
	if !includeIgnored {
		query = query.Where("ignore = ?", false)
	}

	var jobs []entities.Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) GetStatuses(ctx context.Context, jobID int) ([]entities.ApplicationStatus, error) {

	var statuses []entities.ApplicationStatus
	if err := repo.db.WithContext(ctx).Find(&statuses, "job_id = ?", jobID).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// UpdateStatus checks or unchecks a single application stage. Checking a
// stage without an explicit date stamps today.
func (repo *Jobs) UpdateStatus(ctx context.Context, jobID int, statusName string, checked bool, dateReached *string) error {

	if dateReached == nil && checked {
		today := time.Now().UTC().Format("2006-01-02")
		dateReached = &today
	}
	if !checked {
		dateReached = nil
	}

	res := repo.db.WithContext(ctx).Model(&entities.ApplicationStatus{}).
		Where("job_id = ? AND status = ?", jobID, statusName).
		Updates(map[string]any{
			"checked":      checked,
			"date_reached": dateReached,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no status %q for job %d", statusName, jobID)
	}
	return nil
}
