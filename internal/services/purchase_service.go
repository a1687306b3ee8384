// Package services – PurchaseService
//
// This file implements the PurchaseService, which owns the purchase (payment
// intent) lifecycle. Checkout creates a pending purchase with a generated
// order reference; a coach later confirms or rejects it against the manual
// bank-transfer ledger. Duplicate suppression is atomic: the lookup for an
// existing open purchase and the insert run inside one transaction, so two
// concurrent checkouts for the same report cannot both create rows.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

// PurchaseService implements checkout and deposit-decision use cases.
type PurchaseService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Roles resolves coach privileges for the decision path.
	Roles RoleResolver
	// Programs is the accepted set of program type values.
	Programs []string
	// Currency is the ISO code stamped on new purchases.
	Currency string
}

// NewPurchaseService constructs a PurchaseService with the configured program
// set and currency.
func NewPurchaseService(db *gorm.DB, roles RoleResolver, programs []string, currency string) *PurchaseService {
	if currency == "" {
		currency = "KRW"
	}
	return &PurchaseService{DB: db, Roles: roles, Programs: programs, Currency: currency}
}

// IntentResult reports the outcome of CreateIntent: the purchase (new or
// previously created) and whether an existing open intent was reused.
type IntentResult struct {
	Purchase *domain.Purchase
	Reused   bool
}

// CreateIntent creates a pending purchase for reportID owned by userID, or
// returns the existing open (pending/confirmed) purchase for that report.
//
// Validation:
//   - reportID must reference a report owned by the caller (ErrReportNotFound).
//   - program must be in the configured set; amount > 0; depositor non-empty
//     (ErrInvalidInput).
//
// The depositor display name is whitespace-normalized and title-cased before
// storage so bank-ledger reconciliation sees a consistent form.
func (s *PurchaseService) CreateIntent(ctx context.Context, userID, reportID, program string, amount int64, method, depositor string) (*IntentResult, error) {
	tr := otel.Tracer("services/PurchaseService")
	ctx, span := tr.Start(ctx, "CreateIntent",
		trace.WithAttributes(
			attribute.String("report.id", reportID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	program = strings.ToLower(strings.TrimSpace(program))
	method = strings.ToLower(strings.TrimSpace(method))
	depositor = normalizeDepositor(depositor)
	if amount <= 0 || depositor == "" || !s.knownProgram(program) {
		return nil, ErrInvalidInput
	}
	if method == "" {
		method = "bank_transfer"
	}

	if _, err := repo.GetReport(ctx, s.DB, reportID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	var out IntentResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.FindOpenPurchaseByReport(ctx, tx, userID, reportID)
		switch {
		case err == nil:
			out = IntentResult{Purchase: existing, Reused: true}
			return nil
		case !errors.Is(err, repo.ErrNotFound):
			return err
		}

		p := &domain.Purchase{
			ID:        uuid.NewString(),
			UserID:    userID,
			ReportID:  reportID,
			Program:   program,
			Amount:    amount,
			Currency:  s.Currency,
			Method:    method,
			Depositor: depositor,
			OrderRef:  NewOrderRef(time.Now().UTC()),
			Status:    domain.StatusPending,
		}
		if err := repo.CreatePurchase(ctx, tx, p); err != nil {
			return err
		}
		out = IntentResult{Purchase: p, Reused: false}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Decide applies a coach decision to a pending purchase (manual deposit
// confirmation). Confirm stamps the decision and the program start date
// (decision date at UTC midnight); reject stamps the decision only. Decisions
// apply exactly once; a purchase that already left pending yields
// ErrAlreadyDecided.
func (s *PurchaseService) Decide(ctx context.Context, coachEmail, purchaseID, action string) (*domain.Purchase, error) {
	tr := otel.Tracer("services/PurchaseService")
	ctx, span := tr.Start(ctx, "Decide",
		trace.WithAttributes(
			attribute.String("purchase.id", purchaseID),
			attribute.String("action", action),
		),
	)
	defer span.End()

	if !s.Roles.IsCoach(coachEmail) {
		return nil, ErrNotCoach
	}
	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionConfirm && action != ActionReject {
		return nil, ErrInvalidAction
	}

	if _, err := repo.GetPurchase(ctx, s.DB, purchaseID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	status := domain.StatusRejected
	var start *time.Time
	if action == ActionConfirm {
		status = domain.StatusConfirmed
		d := now.Truncate(24 * time.Hour)
		start = &d
	}

	n, err := repo.DecidePurchase(ctx, s.DB, purchaseID, status, coachEmail, now, start)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrAlreadyDecided
	}
	return repo.GetPurchase(ctx, s.DB, purchaseID)
}

// Get returns a purchase owned by userID, or ErrPurchaseNotFound.
func (s *PurchaseService) Get(ctx context.Context, userID, purchaseID string) (*domain.Purchase, error) {
	p, err := repo.GetOwnPurchase(ctx, s.DB, purchaseID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPage returns a page of the user's purchases and the total count.
func (s *PurchaseService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Purchase, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountPurchases(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Purchase{}, 0, nil
	}

	items, err := repo.ListPurchasesPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// knownProgram reports whether program is one of the configured types.
func (s *PurchaseService) knownProgram(program string) bool {
	for _, p := range s.Programs {
		if strings.EqualFold(strings.TrimSpace(p), program) {
			return true
		}
	}
	return false
}

// NewOrderRef builds an external order identifier from a time-based prefix
// and a random hex suffix, e.g. "ORD-20240601T1000-3f9a21c4".
func NewOrderRef(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to a
		// uuid-derived suffix rather than panicking here.
		return "ORD-" + now.Format("20060102T1504") + "-" + uuid.NewString()[:8]
	}
	return "ORD-" + now.Format("20060102T1504") + "-" + hex.EncodeToString(buf)
}

// depositorCaser title-cases depositor names without locale-specific rules.
var depositorCaser = cases.Title(language.Und)

// depositorWS collapses consecutive whitespace to a single space.
var depositorWS = regexp.MustCompile(`\s+`)

// normalizeDepositor trims, collapses whitespace, and title-cases a depositor
// display name.
func normalizeDepositor(name string) string {
	name = depositorWS.ReplaceAllString(strings.TrimSpace(name), " ")
	if name == "" {
		return ""
	}
	return depositorCaser.String(name)
}
