package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mindpath/go-coach-backend/internal/repo"
)

func TestSubmit_UnknownMission(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	_, err := svc.Submit(context.Background(), "u1", "world_domination", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownMission) {
		t.Fatalf("expected ErrUnknownMission, got %v", err)
	}
}

func TestSubmit_InvalidAnswers(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	for _, raw := range []json.RawMessage{nil, json.RawMessage(""), json.RawMessage("null"), json.RawMessage("{not json")} {
		_, err := svc.Submit(context.Background(), "u1", "core_belief", raw)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("answers=%q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestSubmit_NormalizesMissionKey(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	sub, err := svc.Submit(context.Background(), "u1", "  Core_Belief ", json.RawMessage(`{"q1":"a"}`))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Mission != "core_belief" {
		t.Fatalf("mission = %q, want core_belief", sub.Mission)
	}
}

func TestLatest_ReturnsNewestPerMission(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "u1", "daily_review", json.RawMessage(`{"day":1}`)); err != nil {
		t.Fatalf("Submit 1: %v", err)
	}
	second, err := svc.Submit(ctx, "u1", "daily_review", json.RawMessage(`{"day":2}`))
	if err != nil {
		t.Fatalf("Submit 2: %v", err)
	}

	got, err := svc.Latest(ctx, "u1", "daily_review")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("latest = %s, want %s", got.ID, second.ID)
	}
	if got.Answers != `{"day":2}` {
		t.Fatalf("answers = %q", got.Answers)
	}
}

func TestLatest_MissingAndUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}
	ctx := context.Background()

	if _, err := svc.Latest(ctx, "u1", "nope"); !errors.Is(err, ErrUnknownMission) {
		t.Fatalf("expected ErrUnknownMission, got %v", err)
	}
	if _, err := svc.Latest(ctx, "u1", "values_map"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected repo.ErrNotFound, got %v", err)
	}
}

func TestLatest_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}
	ctx := context.Background()

	if _, err := svc.Submit(ctx, "u1", "cognitive_error", json.RawMessage(`{"x":1}`)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := svc.Latest(ctx, "u2", "cognitive_error"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected repo.ErrNotFound for other user, got %v", err)
	}
}
