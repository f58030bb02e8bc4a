package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hopenest/hopenest-api/internal/model"
	"github.com/hopenest/hopenest-api/internal/repository"
)

// OrphanageHandler bundles dependencies for the orphanage endpoints.
type OrphanageHandler struct {
	Orphanages *repository.OrphanageRepo
	Log        zerolog.Logger
}

func NewOrphanageHandler(o *repository.OrphanageRepo, log zerolog.Logger) *OrphanageHandler {
	return &OrphanageHandler{Orphanages: o, Log: log}
}

type orphanageReq struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description *string  `json:"description"`
	Contact     string   `json:"contact"`
	Needs       []string `json:"needs"`
	ImageURL    *string  `json:"image_url"`
	UserID      *uint64  `json:"user_id"`
}

// Search handles GET /api/orphanages?location=. The location parameter is
// required; matching is a case-insensitive substring search.
func (h *OrphanageHandler) Search(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return fail(c, http.StatusBadRequest, "Location query parameter is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Orphanages.SearchByLocation(ctx, location)
	if err != nil {
		h.Log.Error().Err(err).Str("location", location).Msg("orphanage search failed")
		return fail(c, http.StatusInternalServerError, "Server error fetching orphanages")
	}
	return c.JSON(http.StatusOK, list)
}

// Create handles POST /api/orphanages.
func (h *OrphanageHandler) Create(c echo.Context) error {
	var req orphanageReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Location == "" || req.Contact == "" {
		return fail(c, http.StatusBadRequest, "Name, location, and contact are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o := model.Orphanage{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Contact:     req.Contact,
		Needs:       req.Needs,
		ImageURL:    req.ImageURL,
		UserID:      req.UserID,
	}
	id, err := h.Orphanages.Create(ctx, &o)
	if err != nil {
		return failStorage(c, "Failed to save orphanage", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "orphanageId": id})
}

// GetByAdmin handles GET /api/orphanage/admin/:adminId. When an admin owns
// several orphanages only the first is returned.
func (h *OrphanageHandler) GetByAdmin(c echo.Context) error {
	adminID, err := strconv.ParseUint(c.Param("adminId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "Orphanage not found for this admin")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orphanages.GetByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Orphanage not found for this admin")
		}
		return fail(c, http.StatusInternalServerError, "Server error fetching orphanage")
	}
	return c.JSON(http.StatusOK, o)
}

// Update handles PUT /api/orphanages/:id. The rating and owning user cannot
// be changed here.
func (h *OrphanageHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "Orphanage not found")
	}

	var req orphanageReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Location == "" || req.Contact == "" {
		return fail(c, http.StatusBadRequest, "Name, location, and contact are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o := model.Orphanage{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Contact:     req.Contact,
		Needs:       req.Needs,
		ImageURL:    req.ImageURL,
	}
	if err := h.Orphanages.Update(ctx, id, &o); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Orphanage not found")
		}
		return fail(c, http.StatusInternalServerError, "Server error updating orphanage")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
