// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Slot model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
)

// CreateSlot inserts a new untaken slot and returns it.
func CreateSlot(ctx context.Context, db *gorm.DB, startsAt time.Time, minutes int) (*domain.Slot, error) {
	s := &domain.Slot{
		ID:        uuid.NewString(),
		StartsAt:  startsAt.UTC(),
		Minutes:   minutes,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSlot fetches a slot by id, or ErrNotFound.
func GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error) {
	var s domain.Slot
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListOpenSlots returns untaken slots starting at or after from, soonest
// first.
func ListOpenSlots(ctx context.Context, db *gorm.DB, from time.Time) ([]domain.Slot, error) {
	var out []domain.Slot
	err := db.WithContext(ctx).
		Where("taken = ? AND starts_at >= ?", false, from.UTC()).
		Order("starts_at asc").
		Find(&out).Error
	return out, err
}

// CountFreeSlots returns how many of the given slot ids exist and are still
// untaken. Used when validating a booking request's proposed slots.
func CountFreeSlots(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id IN ? AND taken = ?", ids, false).
		Count(&n).Error
	return n, err
}

// MarkSlotTaken flips an untaken slot to taken. The taken guard in the WHERE
// clause makes the update affect zero rows when another booking already holds
// the slot; callers treat that as a conflict and roll back.
func MarkSlotTaken(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ? AND taken = ?", id, false).
		Update("taken", true)
	return res.RowsAffected, res.Error
}
