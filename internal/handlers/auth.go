package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/bomalink/bomalink/internal/config"
	"github.com/bomalink/bomalink/internal/mailer"
	"github.com/bomalink/bomalink/internal/models"
	"github.com/bomalink/bomalink/internal/utils"
)

const resetTokenTTL = 24 * time.Hour

type AuthHandler struct {
	DB     *sqlx.DB
	Config *config.Config
	Mailer mailer.Mailer
}

func NewAuthHandler(db *sqlx.DB, cfg *config.Config, m mailer.Mailer) *AuthHandler {
	return &AuthHandler{DB: db, Config: cfg, Mailer: m}
}

// ----------- Request/Response DTOs -------------

type signUpReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ----------- Helper: Write JSON -------------

func (h *AuthHandler) json(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *AuthHandler) error(w http.ResponseWriter, code int, msg string) {
	h.json(w, code, map[string]string{"error": msg})
}

// -------------- SIGN UP ----------------------

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.error(w, http.StatusBadRequest, "name, email and password required")
		return
	}

	if len(req.Password) < 6 {
		h.error(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	role := models.RoleBuyer
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			h.error(w, http.StatusBadRequest, "invalid role")
			return
		}
		// admin accounts are never self-service
		if parsed == models.RoleAdmin {
			h.error(w, http.StatusBadRequest, "invalid role")
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.error(w, http.StatusInternalServerError, "internal error")
		return
	}

	_, err = h.DB.Exec(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, req.Name, req.Email, string(hash), role)

	if err != nil {
		h.error(w, http.StatusBadRequest, "email already exists")
		return
	}

	h.json(w, http.StatusCreated, map[string]string{
		"message": "user created",
	})
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	var u models.User

	err := h.DB.Get(&u, `
		SELECT id, name, email, password_hash, role
		FROM users
		WHERE email=$1
	`, strings.ToLower(strings.TrimSpace(req.Email)))

	// same response for unknown email and wrong password
	if errors.Is(err, sql.ErrNoRows) {
		h.error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		h.error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	access, expAccess, err := utils.GenerateToken(u.ID, u.Email, u.Role, h.Config.AccessSecret, h.Config.AccessTTL.String())
	if err != nil {
		h.error(w, http.StatusInternalServerError, "token error")
		return
	}

	refresh, expRefresh, err := utils.GenerateToken(u.ID, u.Email, u.Role, h.Config.RefreshSecret, h.Config.RefreshTTL.String())
	if err != nil {
		h.error(w, http.StatusInternalServerError, "token error")
		return
	}

	_, err = h.DB.Exec(`
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, u.ID, refresh, time.Unix(expRefresh, 0))

	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	h.json(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expAccess,
	})
}

// ---------------- REFRESH ---------------------

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	claims, err := utils.VerifyToken(req.RefreshToken, h.Config.RefreshSecret)
	if err != nil {
		h.error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var exists bool
	err = h.DB.Get(&exists, `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE token=$1 AND user_id=$2 AND expires_at > NOW()
		)
	`, req.RefreshToken, claims.Subject)

	if err != nil || !exists {
		h.error(w, http.StatusUnauthorized, "refresh token expired or invalid")
		return
	}

	tx, err := h.DB.Beginx()
	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}
	defer tx.Rollback()

	_, _ = tx.Exec(`DELETE FROM refresh_tokens WHERE token=$1`, req.RefreshToken)

	access, expAccess, err := utils.GenerateToken(claims.Subject, claims.Email, claims.Role, h.Config.AccessSecret, h.Config.AccessTTL.String())
	if err != nil {
		h.error(w, http.StatusInternalServerError, "token error")
		return
	}

	refresh, expRefresh, err := utils.GenerateToken(claims.Subject, claims.Email, claims.Role, h.Config.RefreshSecret, h.Config.RefreshTTL.String())
	if err != nil {
		h.error(w, http.StatusInternalServerError, "token error")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, claims.Subject, refresh, time.Unix(expRefresh, 0))

	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	if err := tx.Commit(); err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	h.json(w, http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expAccess,
	})
}

// -------------- LOGOUT -----------------------

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshReq

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	_, err := h.DB.Exec(`DELETE FROM refresh_tokens WHERE token=$1`, req.RefreshToken)
	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := utils.Caller(r.Context())
	if caller.Anonymous() {
		h.error(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var user models.User
	err := h.DB.Get(&user, `
		SELECT id, name, email, role, profile, created_at
		FROM users
		WHERE id=$1
	`, caller.ID)

	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	h.json(w, http.StatusOK, user)
}

// -------------- FORGOT PASSWORD ---------------

type forgotPasswordReq struct {
	Email string `json:"email"`
}

// ForgotPassword stores a single-use reset token on the account and emails a
// reset link. The response does not reveal whether the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		h.error(w, http.StatusBadRequest, "email is required")
		return
	}

	accepted := map[string]string{
		"message": "If that account exists, a reset link has been sent",
	}

	var u models.User
	err := h.DB.Get(&u, `SELECT id, email FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		h.json(w, http.StatusOK, accepted)
		return
	}
	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		h.error(w, http.StatusInternalServerError, "internal error")
		return
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().Add(resetTokenTTL)

	_, err = h.DB.Exec(`
		UPDATE users SET reset_token=$1, reset_token_expiry=$2 WHERE id=$3
	`, token, expiry, u.ID)
	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	resetURL := h.Config.PublicBaseURL + "/auth/reset-password?token=" + token
	if err := h.Mailer.Send(u.Email, "Reset Your Password - Boma Link", mailer.PasswordResetHTML(resetURL)); err != nil {
		slog.Error("reset email send failed", "error", err)
		h.error(w, http.StatusInternalServerError, "failed to send reset email")
		return
	}

	h.json(w, http.StatusOK, accepted)
}

// -------------- RESET PASSWORD ----------------

type resetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token: the new password is stored and the
// token cleared in one statement, so a token can never be used twice.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Token == "" || req.Password == "" {
		h.error(w, http.StatusBadRequest, "token and password are required")
		return
	}

	if len(req.Password) < 6 {
		h.error(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.error(w, http.StatusInternalServerError, "internal error")
		return
	}

	res, err := h.DB.Exec(`
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_token_expiry=NULL
		WHERE reset_token=$2 AND reset_token_expiry > NOW()
	`, string(hash), req.Token)
	if err != nil {
		h.error(w, http.StatusInternalServerError, "db error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		h.error(w, http.StatusBadRequest, "invalid or expired reset token")
		return
	}

	h.json(w, http.StatusOK, map[string]string{"message": "password reset successfully"})
}
