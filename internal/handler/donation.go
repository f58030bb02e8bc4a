package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hopenest/hopenest-api/internal/model"
	"github.com/hopenest/hopenest-api/internal/queue"
	"github.com/hopenest/hopenest-api/internal/repository"
)

// EventPublisher publishes a donation event to the message broker. A nil
// publisher disables events entirely.
type EventPublisher func(ctx context.Context, ev queue.DonationRecordedEvent) error

// DonationHandler bundles dependencies for the donation endpoints.
type DonationHandler struct {
	Donations *repository.DonationRepo
	Publish   EventPublisher
	Log       zerolog.Logger
}

func NewDonationHandler(d *repository.DonationRepo, publish EventPublisher, log zerolog.Logger) *DonationHandler {
	return &DonationHandler{Donations: d, Publish: publish, Log: log}
}

type donationReq struct {
	OrphanageID uint64          `json:"orphanageId"`
	DonorID     uint64          `json:"donorId"`
	Items       json.RawMessage `json:"items"`
	Total       float64         `json:"total"`
	Status      string          `json:"status"`
}

type donationStatusReq struct {
	Status string `json:"status"`
}

// Create handles POST /api/donations. After the row is committed a
// donation.recorded event is published best-effort; a broker failure is
// logged and never fails the request.
func (h *DonationHandler) Create(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.OrphanageID == 0 || req.DonorID == 0 || emptyItems(req.Items) || req.Total == 0 || req.Status == "" {
		return fail(c, http.StatusBadRequest, "Missing required fields (orphanageId, donorId, items, total, status)")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d := model.Donation{
		OrphanageID: req.OrphanageID,
		DonorID:     req.DonorID,
		Items:       req.Items,
		Total:       req.Total,
		Status:      req.Status,
	}
	id, err := h.Donations.Create(ctx, &d)
	if err != nil {
		return failStorage(c, "Failed to save donation", err)
	}

	if h.Publish != nil {
		ev := queue.DonationRecordedEvent{
			DonationID:  id,
			OrphanageID: d.OrphanageID,
			DonorID:     d.DonorID,
			Total:       d.Total,
			Status:      d.Status,
			RecordedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			h.Log.Warn().Err(err).Uint64("donation_id", id).Msg("donation event publish failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "donationId": id})
}

// List handles GET /api/donations with an optional orphanage_id filter. Each
// row carries the donor's email from the users join.
func (h *DonationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Donations.List(ctx, c.QueryParam("orphanage_id"))
	if err != nil {
		h.Log.Error().Err(err).Msg("donation list failed")
		return fail(c, http.StatusInternalServerError, "Server error fetching donations")
	}
	return c.JSON(http.StatusOK, list)
}

// ListByDonor handles GET /api/donations/donor/:donorId.
func (h *DonationHandler) ListByDonor(c echo.Context) error {
	donorID, err := strconv.ParseUint(c.Param("donorId"), 10, 64)
	if err != nil {
		// a malformed id matches no donations
		return c.JSON(http.StatusOK, []model.Donation{})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Donations.ListByDonor(ctx, donorID)
	if err != nil {
		h.Log.Error().Err(err).Uint64("donor_id", donorID).Msg("donor donation list failed")
		return fail(c, http.StatusInternalServerError, "Server error fetching donations")
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateStatus handles PUT /api/donations/:id. Only the status label is
// touched; any string is accepted.
func (h *DonationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusNotFound, "Donation not found")
	}

	var req donationStatusReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Status == "" {
		return fail(c, http.StatusBadRequest, "Status is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Donations.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Donation not found")
		}
		return fail(c, http.StatusInternalServerError, "Server error updating donation status")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// emptyItems reports whether the submitted items field is missing or not a
// usable JSON value.
func emptyItems(items json.RawMessage) bool {
	trimmed := bytes.TrimSpace(items)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
