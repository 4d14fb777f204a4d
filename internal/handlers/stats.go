package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
)

type StatsHandler struct {
	DB *sqlx.DB
}

func NewStatsHandler(db *sqlx.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

type statsCounts struct {
	TotalProperties   int `db:"total_properties" json:"totalProperties"`
	PendingProperties int `db:"pending_properties" json:"pendingProperties"`
	TotalUsers        int `db:"total_users" json:"totalUsers"`
	TotalJobs         int `db:"total_jobs" json:"totalJobs"`
	ActiveJobs        int `db:"active_jobs" json:"activeJobs"`
	TotalApplications int `db:"total_applications" json:"totalApplications"`
	NewContacts       int `db:"new_contacts" json:"newContacts"`
}

type statsResp struct {
	Counts         statsCounts `json:"counts"`
	RecentActivity struct {
		Properties []models.Property `json:"properties"`
		Jobs       []models.Job      `json:"jobs"`
	} `json:"recentActivity"`
}

// Get returns the admin dashboard numbers: entity counts plus the five most
// recent properties and jobs.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanViewAdmin(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var resp statsResp

	err := h.DB.Get(&resp.Counts, `
		SELECT
			(SELECT COUNT(*) FROM properties) AS total_properties,
			(SELECT COUNT(*) FROM properties WHERE status='pending') AS pending_properties,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM jobs) AS total_jobs,
			(SELECT COUNT(*) FROM jobs WHERE status='active') AS active_jobs,
			(SELECT COUNT(*) FROM applications) AS total_applications,
			(SELECT COUNT(*) FROM contacts WHERE status='new') AS new_contacts
	`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	resp.RecentActivity.Properties = []models.Property{}
	err = h.DB.Select(&resp.RecentActivity.Properties,
		`SELECT `+propertyColumns+` FROM properties ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	resp.RecentActivity.Jobs = []models.Job{}
	err = h.DB.Select(&resp.RecentActivity.Jobs,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}
