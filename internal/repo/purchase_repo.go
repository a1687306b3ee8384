// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Purchase
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a purchase is not found, functions return ErrNotFound
//     (alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service layer
// and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreatePurchase inserts a new pending Purchase row. The caller supplies the
// fully populated struct (id, order ref, amounts); CreatedAt is set to UTC.
func CreatePurchase(ctx context.Context, db *gorm.DB, p *domain.Purchase) error {
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// GetPurchase fetches a purchase by id, or ErrNotFound.
func GetPurchase(ctx context.Context, db *gorm.DB, id string) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOwnPurchase fetches a purchase by id enforcing ownership, or ErrNotFound.
func GetOwnPurchase(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindOpenPurchaseByReport returns the existing pending or confirmed purchase
// tied to reportID, or ErrNotFound when none exists. This is the duplicate
// suppression lookup used at checkout; callers run it inside the same
// transaction as the insert so concurrent checkouts serialize.
func FindOpenPurchaseByReport(ctx context.Context, db *gorm.DB, userID, reportID string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := db.WithContext(ctx).
		Where("user_id = ? AND report_id = ? AND status IN ?", userID, reportID,
			[]string{domain.StatusPending, domain.StatusConfirmed}).
		Order("created_at asc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DecidePurchase stamps a pending purchase confirmed or rejected. The WHERE
// clause includes the pending status so a second decision affects zero rows;
// callers treat RowsAffected == 0 as "not found or already decided".
func DecidePurchase(ctx context.Context, db *gorm.DB, id, status, decidedBy string, decidedAt time.Time, startDate *time.Time) (int64, error) {
	updates := map[string]any{
		"status":       status,
		"confirmed_by": decidedBy,
		"confirmed_at": decidedAt,
	}
	if startDate != nil {
		updates["start_date"] = *startDate
	}
	res := db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// CountPurchases returns the total number of purchases owned by userID.
func CountPurchases(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListPurchasesPage returns a page of purchases for userID, newest first.
func ListPurchasesPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// IsDuplicate reports whether err is a unique-constraint violation in a
// driver-agnostic way. The glebarez sqlite driver often returns plain-text
// errors instead of gorm.ErrDuplicatedKey.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
