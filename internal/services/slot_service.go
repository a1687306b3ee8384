// Package services – SlotService
//
// Slots are the bookable session times coaches publish. Listing is public to
// authenticated users; creating slots is a coach-only operation.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

// defaultSlotMinutes is the session length used when none is given.
const defaultSlotMinutes = 50

// SlotService implements slot publication and lookup.
type SlotService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Roles resolves coach privileges for the create path.
	Roles RoleResolver
}

// ListOpen returns upcoming untaken slots starting at or after from.
func (s *SlotService) ListOpen(ctx context.Context, from time.Time) ([]domain.Slot, error) {
	if from.IsZero() {
		from = time.Now().UTC()
	}
	return repo.ListOpenSlots(ctx, s.DB, from)
}

// Create publishes a new bookable slot. Coach only; startsAt must be in the
// future and minutes positive (defaulted when zero).
func (s *SlotService) Create(ctx context.Context, coachEmail string, startsAt time.Time, minutes int) (*domain.Slot, error) {
	if !s.Roles.IsCoach(coachEmail) {
		return nil, ErrNotCoach
	}
	if minutes == 0 {
		minutes = defaultSlotMinutes
	}
	if minutes < 0 || startsAt.IsZero() || startsAt.Before(time.Now().UTC()) {
		return nil, ErrInvalidInput
	}
	return repo.CreateSlot(ctx, s.DB, startsAt, minutes)
}
