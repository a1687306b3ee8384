// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking and
// Slot models.
//
// The confirm path is split into small single-purpose updates so the service
// layer can compose them inside one transaction: ConfirmBooking,
// MarkSlotTaken, and DecidePurchase (purchase_repo.go) must all succeed
// together or roll back together.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
)

// CreateBooking inserts a new pending Booking row.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) error {
	b.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(b).Error
}

// GetBooking fetches a booking by id, or ErrNotFound.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ConfirmBooking moves a pending booking to confirmed, storing the chosen
// slot, meeting link, and decision stamp. The pending guard in the WHERE
// clause makes re-confirmation affect zero rows.
func ConfirmBooking(ctx context.Context, db *gorm.DB, id, slotID, meetLink, decidedBy string, decidedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusConfirmed,
			"slot_id":    slotID,
			"meet_link":  meetLink,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}

// RejectBooking moves a pending booking to rejected. No other record is
// touched on this path.
func RejectBooking(ctx context.Context, db *gorm.DB, id, decidedBy string, decidedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusRejected,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}

// CountBookings returns the total number of bookings owned by userID.
func CountBookings(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListBookingsPage returns a page of bookings for userID, newest first.
func ListBookingsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
