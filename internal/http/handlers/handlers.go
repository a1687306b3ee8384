// Handler wiring and identity helpers.
//
// Handlers are transport-thin: they validate input, call application services
// through narrow interfaces, and translate results into HTTP responses. The
// authenticated identity arrives from the fronting proxy in the X-User-ID and
// X-User-Email headers; endpoints that need an identity reject requests
// without one (401) rather than assuming a demo user.
package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/payment"
	"github.com/mindpath/go-coach-backend/internal/services"
	"github.com/mindpath/go-coach-backend/internal/utils"
)

//
// Service contracts (context-aware). Implementations must be safe for
// concurrent use and honor the provided context.
//

// PurchaseService defines checkout and deposit-decision operations.
type PurchaseService interface {
	CreateIntent(ctx context.Context, userID, reportID, program string, amount int64, method, depositor string) (*services.IntentResult, error)
	Decide(ctx context.Context, coachEmail, purchaseID, action string) (*domain.Purchase, error)
	Get(ctx context.Context, userID, purchaseID string) (*domain.Purchase, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Purchase, int64, error)
}

// BookingService defines booking request and decision operations.
type BookingService interface {
	Request(ctx context.Context, userID, purchaseID string, slotIDs []string) (*domain.Booking, error)
	Decide(ctx context.Context, coachEmail, bookingID, action, slotID, meetLink string) (*domain.Booking, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Booking, int64, error)
}

// SlotService defines slot publication and lookup operations.
type SlotService interface {
	ListOpen(ctx context.Context, from time.Time) ([]domain.Slot, error)
	Create(ctx context.Context, coachEmail string, startsAt time.Time, minutes int) (*domain.Slot, error)
}

// ReportService defines personality-report operations.
type ReportService interface {
	Generate(ctx context.Context, userID string, channels []string) (*domain.Report, error)
	Get(ctx context.Context, userID, reportID string) (*domain.Report, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Report, int64, error)
}

// SubmissionService defines mission-submission operations.
type SubmissionService interface {
	Submit(ctx context.Context, userID, mission string, answers json.RawMessage) (*domain.Submission, error)
	Latest(ctx context.Context, userID, mission string) (*domain.Submission, error)
}

// Completer is the chat completion contract, shared with the services layer.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteVision(ctx context.Context, prompt, imageURL string) (string, error)
}

// PaymentGateway is the card-gateway contract.
type PaymentGateway interface {
	Configured() bool
	Approve(ctx context.Context, orderRef string) error
	Cancel(ctx context.Context, orderRef string) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the public API.
type Handlers struct {
	purchaseSvc   PurchaseService
	bookingSvc    BookingService
	slotSvc       SlotService
	reportSvc     ReportService
	submissionSvc SubmissionService
	ai            Completer
	gateway       PaymentGateway
	manual        payment.ManualTransfer
}

// New constructs a Handlers instance bound to the given services.
func New(
	purchaseSvc PurchaseService,
	bookingSvc BookingService,
	slotSvc SlotService,
	reportSvc ReportService,
	submissionSvc SubmissionService,
	aiClient Completer,
	gateway PaymentGateway,
	manual payment.ManualTransfer,
) *Handlers {
	return &Handlers{
		purchaseSvc:   purchaseSvc,
		bookingSvc:    bookingSvc,
		slotSvc:       slotSvc,
		reportSvc:     reportSvc,
		submissionSvc: submissionSvc,
		ai:            aiClient,
		gateway:       gateway,
		manual:        manual,
	}
}

// userID extracts the authenticated user id set by upstream middleware,
// falling back to the X-User-ID header. Empty means unauthenticated.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return ""
}

// userEmail extracts the authenticated email, used for coach resolution.
func userEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader("X-User-Email"))
	}
	return ""
}

// requireUser returns the caller's user id, writing a 401 when absent.
func requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, 401, ErrCodeUnauthorized, "authentication required")
		return "", false
	}
	return uid, true
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination derives the metadata block from a total row count.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}
