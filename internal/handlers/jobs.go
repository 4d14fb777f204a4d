package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
	"github.com/bomalink/bomalink/internal/visibility"
)

type JobHandler struct {
	DB *sqlx.DB
}

func NewJobHandler(db *sqlx.DB) *JobHandler {
	return &JobHandler{DB: db}
}

const jobColumns = `id, title, company, description, location, requirements, salary, employment_type, experience_level, employer_id, status, created_at, updated_at`

// ---------------------- LIST ----------------------

func (h *JobHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	qs := r.URL.Query()

	params := visibility.JobParams{
		Status:          qs.Get("status"),
		Location:        qs.Get("location"),
		EmploymentType:  qs.Get("employmentType"),
		ExperienceLevel: qs.Get("experienceLevel"),
	}
	if !models.ValidJobStatus(params.Status) {
		params.Status = ""
	}
	if v, err := strconv.Atoi(qs.Get("limit")); err == nil {
		params.Limit = v
	}

	q := visibility.JobQuery(caller, params)

	query := `SELECT ` + jobColumns + ` FROM jobs` + q.Clause() + ` ORDER BY created_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ` + strconv.Itoa(q.Limit)
	}

	jobs := []models.Job{}
	if err := h.DB.Select(&jobs, query, q.Args...); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, jobs)
}

// ---------------------- GET ONE ----------------------

func (h *JobHandler) GetJobByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var job models.Job
	err := h.DB.Get(&job, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "job not found")
		return
	}

	// drafts and closed postings are only visible to their employer and admins
	if job.Status != models.JobActive && !caller.Admin() && caller.ID != job.EmployerID {
		utils.JSONError(w, http.StatusNotFound, "job not found")
		return
	}

	utils.JSON(w, http.StatusOK, job)
}

// ---------------------- CREATE ----------------------

type createJobReq struct {
	Title           string             `json:"title" validate:"required"`
	Company         string             `json:"company" validate:"required"`
	Description     string             `json:"description" validate:"required"`
	Location        models.JobLocation `json:"location" validate:"required"`
	Requirements    models.StringList  `json:"requirements"`
	Salary          models.Salary      `json:"salary" validate:"required"`
	EmploymentType  string             `json:"employmentType" validate:"required"`
	ExperienceLevel string             `json:"experienceLevel" validate:"required"`
	Status          string             `json:"status"`
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanCreateJob(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var body createJobReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if err := validate.Struct(body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body.Salary.Min < 0 || body.Salary.Max < 0 || body.Salary.Max < body.Salary.Min {
		utils.JSONError(w, http.StatusBadRequest, "valid salary range is required")
		return
	}
	if body.Salary.Currency == "" {
		body.Salary.Currency = "USD"
	}

	status := models.JobActive
	if body.Status != "" {
		if !models.ValidJobStatus(body.Status) {
			utils.JSONError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = models.JobStatus(body.Status)
	}

	job := models.Job{
		Title:           body.Title,
		Company:         body.Company,
		Description:     body.Description,
		Location:        body.Location,
		Requirements:    body.Requirements,
		Salary:          body.Salary,
		EmploymentType:  body.EmploymentType,
		ExperienceLevel: body.ExperienceLevel,
		EmployerID:      caller.ID,
		Status:          status,
	}

	query := `
        INSERT INTO jobs (title, company, description, location, requirements, salary, employment_type, experience_level, employer_id, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at
    `

	err := h.DB.QueryRowx(query,
		job.Title, job.Company, job.Description, job.Location, job.Requirements,
		job.Salary, job.EmploymentType, job.ExperienceLevel, job.EmployerID, job.Status).
		Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, job)
}

// ---------------------- UPDATE ----------------------

func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var body struct {
		Title           *string             `json:"title"`
		Company         *string             `json:"company"`
		Description     *string             `json:"description"`
		Location        *models.JobLocation `json:"location"`
		Requirements    *models.StringList  `json:"requirements"`
		Salary          *models.Salary      `json:"salary"`
		EmploymentType  *string             `json:"employmentType"`
		ExperienceLevel *string             `json:"experienceLevel"`
		Status          *string             `json:"status"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	var job models.Job
	err := h.DB.Get(&job, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, "job not found")
		return
	}

	if err := authz.CanManageJob(caller, job.EmployerID); err != nil {
		utils.AuthzError(w, err)
		return
	}

	if body.Title != nil {
		job.Title = *body.Title
	}
	if body.Company != nil {
		job.Company = *body.Company
	}
	if body.Description != nil {
		job.Description = *body.Description
	}
	if body.Location != nil {
		job.Location = *body.Location
	}
	if body.Requirements != nil {
		job.Requirements = *body.Requirements
	}
	if body.Salary != nil {
		job.Salary = *body.Salary
	}
	if body.EmploymentType != nil {
		job.EmploymentType = *body.EmploymentType
	}
	if body.ExperienceLevel != nil {
		job.ExperienceLevel = *body.ExperienceLevel
	}
	if body.Status != nil {
		if !models.ValidJobStatus(*body.Status) {
			utils.JSONError(w, http.StatusBadRequest, "invalid status")
			return
		}
		job.Status = models.JobStatus(*body.Status)
	}
	job.UpdatedAt = time.Now()

	_, err = h.DB.Exec(`
        UPDATE jobs
        SET title=$1, company=$2, description=$3, location=$4, requirements=$5,
            salary=$6, employment_type=$7, experience_level=$8, status=$9, updated_at=$10
        WHERE id=$11
    `, job.Title, job.Company, job.Description, job.Location, job.Requirements,
		job.Salary, job.EmploymentType, job.ExperienceLevel, job.Status,
		job.UpdatedAt, id)

	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusOK, job)
}

// ---------------------- DELETE ----------------------

func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := utils.Caller(r.Context())

	var employerID string
	err := h.DB.Get(&employerID, `SELECT employer_id FROM jobs WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		utils.JSONError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if err := authz.CanManageJob(caller, employerID); err != nil {
		utils.AuthzError(w, err)
		return
	}

	if _, err := h.DB.Exec(`DELETE FROM jobs WHERE id=$1`, id); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
