// Purchase HTTP handlers.
//
// This file exposes REST endpoints for the purchase (payment intent)
// lifecycle:
//   - POST /purchases               (checkout, idempotent per report)
//   - GET  /purchases               (list own, paginated, ETag support)
//   - POST /purchases/{id}/decision (coach confirms or rejects a deposit)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/http/middleware"
	"github.com/mindpath/go-coach-backend/internal/repo"
	"github.com/mindpath/go-coach-backend/internal/services"
)

// CreatePurchaseRequest is the JSON payload for checkout.
type CreatePurchaseRequest struct {
	// ReportID references the assessment result being purchased against.
	ReportID string `json:"report_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Program is the program type (validated against configuration).
	Program string `json:"program" binding:"required" example:"standard"`
	// Amount is the price in minor units.
	Amount int64 `json:"amount" binding:"required" example:"99000"`
	// Method is a payment method hint; defaults to bank_transfer.
	Method string `json:"method" example:"bank_transfer"`
	// Depositor is the display name used to reconcile the bank transfer.
	Depositor string `json:"depositor" binding:"required" example:"Kim Minji"`
}

// CreatePurchaseResponse reports the created (or reused) purchase.
type CreatePurchaseResponse struct {
	PurchaseID string `json:"purchase_id"`
	OrderRef   string `json:"order_ref"`
	Status     string `json:"status"`
	Reused     bool   `json:"reused"`
}

// DecisionRequest is the JSON payload for coach decisions on purchases and
// bookings.
type DecisionRequest struct {
	// Action is "confirm" or "reject".
	Action string `json:"action" binding:"required" example:"confirm"`
	// SlotID is the chosen slot; mandatory when confirming a booking.
	SlotID string `json:"slot_id,omitempty"`
	// MeetLink optionally carries the external meeting URL.
	MeetLink string `json:"meet_link,omitempty"`
}

// ListPurchasesResponse wraps a page of purchases and pagination information.
type ListPurchasesResponse struct {
	Purchases  []domain.Purchase `json:"purchases"`
	Pagination Pagination        `json:"pagination"`
}

// CreatePurchase godoc
// @ID          createPurchase
// @Summary     Create a payment intent
// @Description Creates a pending purchase for a report, or returns the existing open one.
// @Tags        Purchases
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  true  "User ID"
// @Param       body       body    handlers.CreatePurchaseRequest  true  "Checkout payload"
// @Success     201  {object}  handlers.CreatePurchaseResponse
// @Success     200  {object}  handlers.CreatePurchaseResponse "Existing open intent reused"
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse "Report not found"
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /purchases [post]
func (h *Handlers) CreatePurchase(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.purchaseSvc.(*services.PurchaseService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, uid, req.ReportID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetPurchase(ctx, svc.DB, rec.PurchaseID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, CreatePurchaseResponse{
						PurchaseID: prev.ID,
						OrderRef:   prev.OrderRef,
						Status:     prev.Status,
						Reused:     true,
					})
					return
				}
			}
		}
	}

	res, err := h.purchaseSvc.CreateIntent(ctx, uid, req.ReportID, req.Program, req.Amount, req.Method, req.Depositor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "report not found")
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount, program, and depositor are required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if res.Reused {
		status = http.StatusOK
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.purchaseSvc.(*services.PurchaseService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, uid, req.ReportID, idemKey, res.Purchase.ID, status, ttl)
		}
	}

	ok(c, status, CreatePurchaseResponse{
		PurchaseID: res.Purchase.ID,
		OrderRef:   res.Purchase.OrderRef,
		Status:     res.Purchase.Status,
		Reused:     res.Reused,
	})
}

// ListPurchases godoc
// @ID          listPurchases
// @Summary     List own purchases (paginated)
// @Description Returns a page of the caller's purchases. Supports weak ETag via If-None-Match.
// @Tags        Purchases
// @Produce     json
// @Param       X-User-ID header string true  "User ID"
// @Param       page      query  int    false "Page number"    minimum(1) default(1)
// @Param       page_size query  int    false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListPurchasesResponse
// @Success     304 {string} string "Not Modified"
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /purchases [get]
func (h *Handlers) ListPurchases(c *gin.Context) {
	ctx := c.Request.Context()
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okCast := h.purchaseSvc.(*services.PurchaseService); okCast {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.PurchasesStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"purchases:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.purchaseSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListPurchasesResponse{
		Purchases:  items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// DecidePurchase godoc
// @ID          decidePurchase
// @Summary     Confirm or reject a deposit
// @Description Coach-only. Applies a one-time decision to a pending purchase.
// @Tags        Purchases
// @Accept      json
// @Produce     json
// @Param       X-User-Email header string true "Coach email"
// @Param       id           path   string true "Purchase ID (UUID)" format(uuid)
// @Param       body         body   handlers.DecisionRequest true "Decision"
// @Success     200 {object} domain.Purchase
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     409 {object} handlers.ErrorResponse "Already decided"
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /purchases/{id}/decision [post]
func (h *Handlers) DecidePurchase(c *gin.Context) {
	purchaseID := c.Param("id")
	if _, err := uuid.Parse(purchaseID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "purchase id must be a UUID")
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Action) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action required (confirm|reject)")
		return
	}

	p, err := h.purchaseSvc.Decide(c.Request.Context(), userEmail(c), purchaseID, req.Action)
	if err != nil {
		failPurchaseDecision(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// failPurchaseDecision maps purchase-decision service errors to HTTP results.
func failPurchaseDecision(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotCoach):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "coach role required")
	case errors.Is(err, services.ErrInvalidAction):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action must be confirm or reject")
	case errors.Is(err, services.ErrPurchaseNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "purchase not found")
	case errors.Is(err, services.ErrAlreadyDecided):
		fail(c, http.StatusConflict, ErrCodeAlreadyDecided, "purchase already decided")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
