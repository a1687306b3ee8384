// Package services – SubmissionService
//
// Mission submissions are free-form per-user answer blobs (core belief work,
// cognitive error journaling, and similar coaching exercises). Rows are
// append-only; reads return the latest row per (user, mission).
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

// knownMissions is the accepted mission key set.
var knownMissions = map[string]struct{}{
	"core_belief":     {},
	"cognitive_error": {},
	"values_map":      {},
	"daily_review":    {},
}

// SubmissionService implements the mission submission use cases.
type SubmissionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Submit appends an answer blob for (userID, mission). The mission key must
// be known and answers must be a non-empty JSON object or array.
func (s *SubmissionService) Submit(ctx context.Context, userID, mission string, answers json.RawMessage) (*domain.Submission, error) {
	mission = strings.ToLower(strings.TrimSpace(mission))
	if _, ok := knownMissions[mission]; !ok {
		return nil, ErrUnknownMission
	}
	if len(answers) == 0 || string(answers) == "null" {
		return nil, ErrInvalidInput
	}
	if !json.Valid(answers) {
		return nil, ErrInvalidInput
	}
	return repo.CreateSubmission(ctx, s.DB, userID, mission, string(answers))
}

// Latest returns the most recent submission for (userID, mission), or
// ErrNotFound via repo when the user never submitted that mission.
func (s *SubmissionService) Latest(ctx context.Context, userID, mission string) (*domain.Submission, error) {
	mission = strings.ToLower(strings.TrimSpace(mission))
	if _, ok := knownMissions[mission]; !ok {
		return nil, ErrUnknownMission
	}
	sub, err := repo.LatestSubmission(ctx, s.DB, userID, mission)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}
