// Slot HTTP handlers.
//
// This file exposes REST endpoints for published session slots:
//   - GET  /slots  (open slots from now on; public to signed-in users)
//   - POST /slots  (coach publishes a new slot)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/services"
)

// CreateSlotRequest is the JSON payload for publishing a slot.
type CreateSlotRequest struct {
	// StartsAt is the session start time (RFC 3339).
	StartsAt time.Time `json:"starts_at" binding:"required" example:"2025-10-02T10:00:00Z"`
	// Minutes is the session length; defaults to 50 when omitted.
	Minutes int `json:"minutes" example:"50"`
}

// ListSlotsResponse wraps the open slots.
type ListSlotsResponse struct {
	Slots []domain.Slot `json:"slots"`
}

// ListSlots godoc
// @ID          listSlots
// @Summary     List open slots
// @Description Returns future slots that are not yet taken, soonest first.
// @Tags        Slots
// @Produce     json
// @Success     200 {object} handlers.ListSlotsResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /slots [get]
func (h *Handlers) ListSlots(c *gin.Context) {
	slots, err := h.slotSvc.ListOpen(c.Request.Context(), time.Now().UTC())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSlotsResponse{Slots: slots})
}

// CreateSlot godoc
// @ID          createSlot
// @Summary     Publish a session slot
// @Description Coach-only. Publishes a future slot users can propose in bookings.
// @Tags        Slots
// @Accept      json
// @Produce     json
// @Param       X-User-Email header string true "Coach email"
// @Param       body         body   handlers.CreateSlotRequest true "Slot payload"
// @Success     201 {object} domain.Slot
// @Failure     400 {object} handlers.ErrorResponse "Missing or past start time"
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /slots [post]
func (h *Handlers) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "starts_at (RFC 3339) required")
		return
	}

	slot, err := h.slotSvc.Create(c.Request.Context(), userEmail(c), req.StartsAt, req.Minutes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotCoach):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "coach role required")
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "starts_at must be in the future")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, slot)
}
