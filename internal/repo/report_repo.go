// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report
// model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
)

// CreateReport inserts a new Report row owned by userID. The report ID is a
// randomly generated UUID and CreatedAt is set to UTC.
func CreateReport(ctx context.Context, db *gorm.DB, userID, channels, body, model string) (*domain.Report, error) {
	r := &domain.Report{
		ID:        uuid.NewString(),
		UserID:    userID,
		Channels:  channels,
		Body:      body,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetReport fetches a report by its ID and owner, or ErrNotFound.
func GetReport(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Report, error) {
	var r domain.Report
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReports returns the total number of reports owned by userID.
func CountReports(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListReportsPage returns a page of reports for userID, newest first.
func ListReportsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Report, error) {
	var out []domain.Report
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
