package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hopenest/hopenest-api/internal/model"
	"github.com/hopenest/hopenest-api/internal/repository"
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Users      *repository.UserRepo
	Orphanages *repository.OrphanageRepo
	Log        zerolog.Logger
}

func NewAuthHandler(u *repository.UserRepo, o *repository.OrphanageRepo, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Users: u, Orphanages: o, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	DOB           string `json:"dob"`
	Gender        string `json:"gender"`
	OrphanageName string `json:"orphanageName"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a new user account. For orphanage admins the account and
// its blank orphanage are written in one transaction, so a failure on either
// insert leaves no partial state behind: both rows exist afterwards or
// neither does.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, "Email, password, and role are required")
	}
	if req.Role == model.RoleDonor && (req.DOB == "" || req.Gender == "") {
		return fail(c, http.StatusBadRequest, "Date of birth and gender are required for donors")
	}
	if req.Role == model.RoleOrphanageAdmin && req.OrphanageName == "" {
		return fail(c, http.StatusBadRequest, "Orphanage name is required for orphanage admins")
	}
	if req.Role != model.RoleDonor && req.Role != model.RoleOrphanageAdmin {
		return fail(c, http.StatusBadRequest, `Invalid role. Must be "donor" or "orphanage_admin"`)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Users.EmailTaken(ctx, req.Email)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Server error while checking email")
	}
	if taken {
		return fail(c, http.StatusConflict, "Email already exists")
	}

	u := model.User{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		DOB:      optional(req.DOB),
		Gender:   optional(req.Gender),
	}

	tx, err := h.Users.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Server error during signup")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	userID, err := h.Users.CreateTx(ctx, tx, &u)
	if err != nil {
		// The EmailTaken pre-check races with concurrent signups; the unique
		// constraint on users.email closes the window and reports the same
		// conflict.
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "Email already exists")
		}
		return failStorage(c, "Failed to create user", err)
	}

	if req.Role == model.RoleOrphanageAdmin {
		if err := h.Orphanages.CreateForAdminTx(ctx, tx, req.OrphanageName, req.Email, userID); err != nil {
			h.Log.Error().Err(err).Uint64("user_id", userID).
				Msg("orphanage insert failed, rolling back signup")
			return failStorage(c, "Failed to create orphanage", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return failStorage(c, "Failed to create user", err)
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "userId": userID})
}

// Login verifies credentials and returns the matching user row. The match is
// exact string equality on both email and password, performed in the query
// itself; there is no session or token issuance.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return fail(c, http.StatusInternalServerError, "Server error during login")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// optional maps an absent form value to NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
