package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

func ValidJobStatus(s string) bool {
	switch JobStatus(s) {
	case JobActive, JobClosed, JobDraft:
		return true
	}
	return false
}

type JobLocation struct {
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country,omitempty"`
	// Type is the work arrangement: remote, onsite or hybrid.
	Type string `json:"type" validate:"required,oneof=remote onsite hybrid"`
}

func (l JobLocation) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *JobLocation) Scan(src any) error          { return scanJSON(src, l) }

type Salary struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
	Currency string `json:"currency"`
}

func (s Salary) Value() (driver.Value, error) { return json.Marshal(s) }
func (s *Salary) Scan(src any) error          { return scanJSON(src, s) }

// StringList is an ordered JSONB-backed list, used for job requirements.
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		sl = StringList{}
	}
	return json.Marshal(sl)
}
func (sl *StringList) Scan(src any) error { return scanJSON(src, sl) }

type Job struct {
	ID              string      `db:"id" json:"id"`
	Title           string      `db:"title" json:"title"`
	Company         string      `db:"company" json:"company"`
	Description     string      `db:"description" json:"description"`
	Location        JobLocation `db:"location" json:"location"`
	Requirements    StringList  `db:"requirements" json:"requirements"`
	Salary          Salary      `db:"salary" json:"salary"`
	EmploymentType  string      `db:"employment_type" json:"employmentType"`
	ExperienceLevel string      `db:"experience_level" json:"experienceLevel"`
	EmployerID      string      `db:"employer_id" json:"employerId"`
	Status          JobStatus   `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}

// JobSummary is the shape joined onto applications for the admin view.
type JobSummary struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}
