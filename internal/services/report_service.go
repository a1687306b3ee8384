// Package services – ReportService
//
// This file implements the ReportService, which turns a user's YouTube
// subscription list into a persisted personality report. The completion call
// is synchronous with no retry or streaming; a missing API key or an unusable
// response yields ErrAIUnavailable.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindpath/go-coach-backend/internal/ai"
	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

// reportPreamble is the fixed instructional preamble prepended to the
// caller-supplied channel list.
const reportPreamble = "You are a personality analyst. Given a list of YouTube channels a " +
	"person subscribes to, write a warm, specific personality report: their " +
	"likely interests, values, thinking style, and one gentle growth " +
	"suggestion. Write in second person. Do not mention YouTube explicitly."

// maxChannels caps how many subscription entries are sent to the completion
// service.
const maxChannels = 200

// Completer is the completion contract ReportService depends on. The ai
// package provides the production implementation.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ReportService generates and serves personality reports.
type ReportService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// AI is the completion client; a nil or unconfigured client makes
	// Generate return ErrAIUnavailable.
	AI Completer
	// Model is recorded on each generated report.
	Model string
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB, client Completer, model string) *ReportService {
	return &ReportService{DB: db, AI: client, Model: model}
}

// Generate builds the preamble plus channel list, invokes the completion
// service synchronously, and persists the resulting report for userID.
func (s *ReportService) Generate(ctx context.Context, userID string, channels []string) (*domain.Report, error) {
	tr := otel.Tracer("services/ReportService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("channels", len(channels)),
		),
	)
	defer span.End()

	channels = dedupeNonEmpty(channels)
	if len(channels) == 0 {
		return nil, ErrInvalidInput
	}
	if len(channels) > maxChannels {
		channels = channels[:maxChannels]
	}
	if s.AI == nil {
		return nil, ErrAIUnavailable
	}

	body, err := s.AI.Complete(ctx, reportPreamble, "Subscriptions:\n- "+strings.Join(channels, "\n- "))
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, ErrAIUnavailable
		}
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrAIUnavailable
	}

	snapshot, err := json.Marshal(channels)
	if err != nil {
		return nil, err
	}
	return repo.CreateReport(ctx, s.DB, userID, string(snapshot), body, s.Model)
}

// Get returns a report owned by userID, or ErrReportNotFound.
func (s *ReportService) Get(ctx context.Context, userID, reportID string) (*domain.Report, error) {
	r, err := repo.GetReport(ctx, s.DB, reportID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListPage returns a page of the user's reports and the total count.
func (s *ReportService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountReports(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Report{}, 0, nil
	}

	items, err := repo.ListReportsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}
