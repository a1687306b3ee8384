// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Submission
// model. Submissions are append-only; there is no update path.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
)

// CreateSubmission appends a new answer blob for (userID, mission).
func CreateSubmission(ctx context.Context, db *gorm.DB, userID, mission, answers string) (*domain.Submission, error) {
	s := &domain.Submission{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mission:   mission,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// LatestSubmission returns the most recent submission for (userID, mission),
// or ErrNotFound when the user never submitted that mission.
func LatestSubmission(ctx context.Context, db *gorm.DB, userID, mission string) (*domain.Submission, error) {
	var s domain.Submission
	err := db.WithContext(ctx).
		Where("user_id = ? AND mission = ?", userID, mission).
		Order("created_at desc").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
