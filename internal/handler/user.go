package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hopenest/hopenest-api/internal/repository"
)

// UserHandler bundles dependencies for the user administration endpoints.
type UserHandler struct {
	Users *repository.UserRepo
	Log   zerolog.Logger
}

func NewUserHandler(u *repository.UserRepo, log zerolog.Logger) *UserHandler {
	return &UserHandler{Users: u, Log: log}
}

// Delete handles DELETE /api/users/:id. Super admin rows are shielded by the
// delete query's predicate, so they report not-found rather than forbidden.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "User not found or cannot delete super admin")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found or cannot delete super admin")
		}
		return fail(c, http.StatusInternalServerError, "Server error deleting user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Profile handles GET /api/user/:userId, returning only the public fields.
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "User not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	email, role, err := h.Users.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"email": email, "role": role})
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Users.ListAll(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("user list failed")
		return fail(c, http.StatusInternalServerError, "Server error fetching users")
	}
	return c.JSON(http.StatusOK, list)
}
