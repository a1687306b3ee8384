// Booking HTTP handlers.
//
// This file exposes REST endpoints for the booking lifecycle:
//   - POST /bookings               (request a session against a purchase)
//   - GET  /bookings               (list own, paginated, ETag support)
//   - POST /bookings/{id}/decision (coach confirms with a slot, or rejects)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
	"github.com/mindpath/go-coach-backend/internal/services"
)

// CreateBookingRequest is the JSON payload for requesting a session.
type CreateBookingRequest struct {
	// PurchaseID references the purchase the session belongs to.
	PurchaseID string `json:"purchase_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// SlotIDs proposes 1..3 candidate slots, in order of preference.
	SlotIDs []string `json:"slot_ids" binding:"required,min=1,max=3"`
}

// CreateBookingResponse reports the created booking request.
type CreateBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
}

// ListBookingsResponse wraps a page of bookings and pagination information.
type ListBookingsResponse struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination Pagination       `json:"pagination"`
}

// CreateBooking godoc
// @ID          createBooking
// @Summary     Request a coaching session
// @Description Creates a pending booking against an owned purchase, proposing up to three slots.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.CreateBookingRequest true "Booking request payload"
// @Success     201 {object} handlers.CreateBookingResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "Purchase or slot not found"
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /bookings [post]
func (h *Handlers) CreateBooking(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "purchase_id and 1..3 slot_ids required")
		return
	}
	if _, err := uuid.Parse(req.PurchaseID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "purchase id must be a UUID")
		return
	}

	b, err := h.bookingSvc.Request(c.Request.Context(), uid, req.PurchaseID, req.SlotIDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "1..3 distinct slot_ids required")
		case errors.Is(err, services.ErrPurchaseNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "purchase not found")
		case errors.Is(err, services.ErrSlotNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "one or more proposed slots are unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateBookingResponse{Booking: b})
}

// ListBookings godoc
// @ID          listBookings
// @Summary     List own bookings (paginated)
// @Description Returns a page of the caller's bookings. Supports weak ETag via If-None-Match.
// @Tags        Bookings
// @Produce     json
// @Param       X-User-ID header string true  "User ID"
// @Param       page      query  int    false "Page number"    minimum(1) default(1)
// @Param       page_size query  int    false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListBookingsResponse
// @Success     304 {string} string "Not Modified"
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /bookings [get]
func (h *Handlers) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okCast := h.bookingSvc.(*services.BookingService); okCast {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.BookingsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"bookings:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.bookingSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListBookingsResponse{
		Bookings:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// DecideBooking godoc
// @ID          decideBooking
// @Summary     Confirm or reject a booking
// @Description Coach-only. Confirming requires a slot id; the booking, slot, and parent purchase transition together.
// @Tags        Bookings
// @Accept      json
// @Produce     json
// @Param       X-User-Email header string true "Coach email"
// @Param       id           path   string true "Booking ID (UUID)" format(uuid)
// @Param       body         body   handlers.DecisionRequest true "Decision"
// @Success     200 {object} domain.Booking
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "Booking or slot not found"
// @Failure     409 {object} handlers.ErrorResponse "Already decided, or slot taken"
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /bookings/{id}/decision [post]
func (h *Handlers) DecideBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if _, err := uuid.Parse(bookingID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "booking id must be a UUID")
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Action) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action required (confirm|reject)")
		return
	}

	b, err := h.bookingSvc.Decide(c.Request.Context(), userEmail(c), bookingID, req.Action, req.SlotID, req.MeetLink)
	if err != nil {
		failBookingDecision(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// failBookingDecision maps booking-decision service errors to HTTP results.
func failBookingDecision(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotCoach):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "coach role required")
	case errors.Is(err, services.ErrInvalidAction):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action must be confirm or reject")
	case errors.Is(err, services.ErrSlotRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot_id required to confirm")
	case errors.Is(err, services.ErrBookingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "booking not found")
	case errors.Is(err, services.ErrSlotNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "slot not found")
	case errors.Is(err, services.ErrAlreadyDecided):
		fail(c, http.StatusConflict, ErrCodeAlreadyDecided, "booking already decided")
	case errors.Is(err, services.ErrSlotTaken):
		fail(c, http.StatusConflict, ErrCodeSlotTaken, "slot already taken")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
