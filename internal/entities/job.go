package entities

import "time"

// ApplicationStatusNames are the nine tracking stages created for every
// non-ignored job, in kanban column order.
var ApplicationStatusNames = []string{
	"Applied",
	"Interview 1",
	"Interview 2",
	"Interview 3",
	"Post-Interview Rejection",
	"Offer",
	"Accepted",
	"Rejected",
	"Ignored/Ghosted",
}

type Job struct {
	ID           int
	Title        string `gorm:"size:255;not null;index:idx_jobs_identity"`
	Company      string `gorm:"size:255;not null;index:idx_jobs_identity"`
	Location     string `gorm:"size:255;not null;index:idx_jobs_identity"`
	Link         *string
	Description  *string
	Compensation *string `gorm:"size:255"`
	Ignore       bool    `gorm:"default:false;index"`
	Statuses     []ApplicationStatus `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ApplicationStatus struct {
	ID     int
	JobID  int    `gorm:"index"`
	Status string `gorm:"size:50;not null"`
	// Checked marks the stage as reached; DateReached is YYYY-MM-DD.
	Checked     bool    `gorm:"default:false"`
	DateReached *string `gorm:"size:10"`
}

type ArbitraryData struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}
