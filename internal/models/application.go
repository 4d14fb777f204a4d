package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func ValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// Document is a stored file reference (resume, cover letter).
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (d Document) Value() (driver.Value, error) { return json.Marshal(d) }
func (d *Document) Scan(src any) error          { return scanJSON(src, d) }

type Application struct {
	ID          string            `db:"id" json:"id"`
	JobID       string            `db:"job_id" json:"jobId"`
	UserID      string            `db:"user_id" json:"userId"`
	Status      ApplicationStatus `db:"status" json:"status"`
	Resume      Document          `db:"resume" json:"resume"`
	CoverLetter *Document         `db:"cover_letter" json:"coverLetter,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
}

// ApplicationDetail is the admin listing shape, enriched with job and
// applicant summaries from LEFT JOINs. Either may be null when the reference
// dangles.
type ApplicationDetail struct {
	Application
	Job       *JobSummary  `json:"job"`
	Applicant *UserSummary `json:"applicant"`
}
