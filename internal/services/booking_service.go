// Package services – BookingService
//
// This file implements the BookingService, which owns the booking lifecycle:
// users request a session against a purchase by proposing slots, and a coach
// decides the request. The decision is the one multi-record transition in the
// system: booking, slot, and parent purchase must move together, so the
// whole effect runs in a single database transaction. Either the booking is
// confirmed, the slot marked taken, and the purchase confirmed with its
// program start date, or none of them change.
//
// Service-level errors (ErrNotCoach, ErrSlotRequired, ErrSlotTaken, ...) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

// Decision actions accepted by Decide.
const (
	ActionConfirm = "confirm"
	ActionReject  = "reject"
)

// maxProposedSlots caps how many candidate slots a user may propose.
const maxProposedSlots = 3

// RoleResolver answers whether an email belongs to the coach role.
type RoleResolver interface {
	IsCoach(email string) bool
}

// BookingService coordinates booking creation and coach decisions.
type BookingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Roles resolves coach privileges from the configured allow-list.
	Roles RoleResolver
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB, roles RoleResolver) *BookingService {
	return &BookingService{DB: db, Roles: roles}
}

// Request creates a pending booking for purchaseID owned by userID, proposing
// 1..3 candidate slots. The purchase must exist, belong to the user, and not
// be rejected; every proposed slot must exist and be free at request time.
func (s *BookingService) Request(ctx context.Context, userID, purchaseID string, slotIDs []string) (*domain.Booking, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Request",
		trace.WithAttributes(
			attribute.String("purchase.id", purchaseID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	slotIDs = dedupeNonEmpty(slotIDs)
	if len(slotIDs) == 0 || len(slotIDs) > maxProposedSlots {
		return nil, ErrInvalidInput
	}

	p, err := repo.GetOwnPurchase(ctx, s.DB, purchaseID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	if p.Status == domain.StatusRejected {
		return nil, ErrPurchaseNotFound
	}

	free, err := repo.CountFreeSlots(ctx, s.DB, slotIDs)
	if err != nil {
		return nil, err
	}
	if free != int64(len(slotIDs)) {
		return nil, ErrSlotNotFound
	}

	proposed, err := json.Marshal(slotIDs)
	if err != nil {
		return nil, err
	}
	b := &domain.Booking{
		ID:            uuid.NewString(),
		PurchaseID:    purchaseID,
		UserID:        userID,
		ProposedSlots: string(proposed),
		Status:        domain.StatusPending,
	}
	if err := repo.CreateBooking(ctx, s.DB, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Decide applies a coach decision to a pending booking.
//
// Preconditions:
//   - coachEmail must resolve to the coach role (ErrNotCoach).
//   - action must be "confirm" or "reject" (ErrInvalidAction).
//   - confirm requires a slot id (ErrSlotRequired).
//
// Confirm runs as one transaction: booking -> confirmed (slot, link, decider,
// timestamp), slot -> taken, parent purchase -> confirmed with the program
// start date stamped to the decision date. A slot already held by another
// booking aborts the whole transition with ErrSlotTaken. Reject only moves
// the booking to rejected.
func (s *BookingService) Decide(ctx context.Context, coachEmail, bookingID, action, slotID, meetLink string) (*domain.Booking, error) {
	tr := otel.Tracer("services/BookingService")
	ctx, span := tr.Start(ctx, "Decide",
		trace.WithAttributes(
			attribute.String("booking.id", bookingID),
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
	if action == ActionConfirm && strings.TrimSpace(slotID) == "" {
		return nil, ErrSlotRequired
	}

	now := time.Now().UTC()
	var decided *domain.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := repo.GetBooking(ctx, tx, bookingID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.Status != domain.StatusPending {
			return ErrAlreadyDecided
		}

		if action == ActionReject {
			n, err := repo.RejectBooking(ctx, tx, bookingID, coachEmail, now)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrAlreadyDecided
			}
			decided, err = repo.GetBooking(ctx, tx, bookingID)
			return err
		}

		// Confirm path: slot must exist and still be free.
		if _, err := repo.GetSlot(ctx, tx, slotID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		n, err := repo.MarkSlotTaken(ctx, tx, slotID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSlotTaken
		}

		n, err = repo.ConfirmBooking(ctx, tx, bookingID, slotID, strings.TrimSpace(meetLink), coachEmail, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyDecided
		}

		// Program day 1 is the confirmation date at UTC midnight.
		start := now.Truncate(24 * time.Hour)
		if _, err := repo.DecidePurchase(ctx, tx, b.PurchaseID, domain.StatusConfirmed, coachEmail, now, &start); err != nil {
			return err
		}

		decided, err = repo.GetBooking(ctx, tx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}

// ListPage returns a page of the user's bookings and the total count.
func (s *BookingService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountBookings(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Booking{}, 0, nil
	}

	items, err := repo.ListBookingsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// dedupeNonEmpty trims, drops empties, and removes duplicate ids while
// preserving order.
func dedupeNonEmpty(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
