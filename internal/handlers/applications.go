package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/bomalink/bomalink/internal/authz"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/storage"
	"github.com/bomalink/bomalink/internal/utils"
	"github.com/bomalink/bomalink/internal/visibility"
)

const maxApplicationSize = 10 << 20 // 10 MiB across resume + cover letter

type ApplicationHandler struct {
	DB    *sqlx.DB
	Files storage.FileStore
}

func NewApplicationHandler(db *sqlx.DB, files storage.FileStore) *ApplicationHandler {
	return &ApplicationHandler{DB: db, Files: files}
}

// ---------------------- CREATE (multipart) ----------------------

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanApply(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxApplicationSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	jobID := r.FormValue("jobId")
	if jobID == "" {
		utils.JSONError(w, http.StatusBadRequest, "jobId is required")
		return
	}

	var exists bool
	err := h.DB.Get(&exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id=$1)`, jobID)
	if err != nil || !exists {
		utils.JSONError(w, http.StatusNotFound, "job not found")
		return
	}

	resume, err := h.storeDocument(r, "resume")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "resume file is required")
		return
	}

	var coverLetter *models.Document
	if doc, err := h.storeDocument(r, "coverLetter"); err == nil {
		coverLetter = doc
	}

	application := models.Application{
		JobID:       jobID,
		UserID:      caller.ID,
		Status:      models.ApplicationPending,
		Resume:      *resume,
		CoverLetter: coverLetter,
	}

	err = h.DB.QueryRowx(`
		INSERT INTO applications (job_id, user_id, status, resume, cover_letter)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, application.JobID, application.UserID, application.Status,
		application.Resume, coverLetterValue(coverLetter)).
		Scan(&application.ID, &application.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.JSONError(w, http.StatusBadRequest, "you have already applied to this job")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.JSON(w, http.StatusCreated, application)
}

// storeDocument saves one multipart file field and returns its reference.
func (h *ApplicationHandler) storeDocument(r *http.Request, field string) (*models.Document, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	url, err := h.Files.Save(r.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		return nil, err
	}

	displayName := header.Filename
	if displayName == "" {
		displayName = field
	}

	return &models.Document{Name: displayName, URL: url}, nil
}

func coverLetterValue(d *models.Document) any {
	if d == nil {
		return nil
	}
	return *d
}

// ---------------------- LIST (own) ----------------------

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if caller.Anonymous() {
		utils.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	q := visibility.ApplicationQuery(caller)

	rows, err := h.DB.Queryx(`
		SELECT a.id, a.job_id, a.user_id, a.status, a.resume, a.cover_letter, a.created_at
		FROM applications a`+q.Clause()+`
		ORDER BY a.created_at DESC
	`, q.Args...)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer rows.Close()

	applications := []models.Application{}
	for rows.Next() {
		a, _, _, err := scanApplication(rows, false)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "db error")
			return
		}
		applications = append(applications, *a)
	}

	utils.JSON(w, http.StatusOK, applications)
}

// ---------------------- ADMIN: LIST ENRICHED ----------------------

// AdminList returns every application joined with its job and applicant
// summaries. Dangling references yield null job/applicant, matching the
// lenient referential model.
func (h *ApplicationHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanReviewApplications(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	rows, err := h.DB.Queryx(`
		SELECT a.id, a.job_id, a.user_id, a.status, a.resume, a.cover_letter, a.created_at,
		       j.title, j.company, u.name, u.email
		FROM applications a
		LEFT JOIN jobs j ON j.id = a.job_id
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
	`)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer rows.Close()

	result := []models.ApplicationDetail{}
	for rows.Next() {
		a, job, applicant, err := scanApplication(rows, true)
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "db error")
			return
		}
		result = append(result, models.ApplicationDetail{
			Application: *a,
			Job:         job,
			Applicant:   applicant,
		})
	}

	utils.JSON(w, http.StatusOK, result)
}

// scanApplication reads one application row; with joined=true it also expects
// the job title/company and applicant name/email columns.
func scanApplication(rows *sqlx.Rows, joined bool) (*models.Application, *models.JobSummary, *models.UserSummary, error) {
	var a models.Application
	var coverLetter []byte

	dests := []any{&a.ID, &a.JobID, &a.UserID, &a.Status, &a.Resume, &coverLetter, &a.CreatedAt}

	var jobTitle, jobCompany, userName, userEmail sql.NullString
	if joined {
		dests = append(dests, &jobTitle, &jobCompany, &userName, &userEmail)
	}

	if err := rows.Scan(dests...); err != nil {
		return nil, nil, nil, err
	}

	if len(coverLetter) > 0 {
		var doc models.Document
		if err := json.Unmarshal(coverLetter, &doc); err == nil {
			a.CoverLetter = &doc
		}
	}

	var job *models.JobSummary
	var applicant *models.UserSummary
	if jobTitle.Valid {
		job = &models.JobSummary{Title: jobTitle.String, Company: jobCompany.String}
	}
	if userName.Valid {
		applicant = &models.UserSummary{Name: userName.String, Email: userEmail.String}
	}

	return &a, job, applicant, nil
}

// ---------------------- ADMIN: UPDATE STATUS ----------------------

type updateApplicationReq struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (h *ApplicationHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanReviewApplications(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	var body updateApplicationReq
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.ID == "" || !models.ValidApplicationStatus(body.Status) {
		utils.JSONError(w, http.StatusBadRequest, "valid id and status are required")
		return
	}

	res, err := h.DB.Exec(`UPDATE applications SET status=$1 WHERE id=$2`, body.Status, body.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.JSONError(w, http.StatusNotFound, "application not found")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "application status updated"})
}

// ---------------------- ADMIN: DELETE ----------------------

func (h *ApplicationHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if err := authz.CanReviewApplications(caller); err != nil {
		utils.AuthzError(w, err)
		return
	}

	id := chi.URLParam(r, "id")

	res, err := h.DB.Exec(`DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		utils.JSONError(w, http.StatusNotFound, "application not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
