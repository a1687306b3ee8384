package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindpath/go-coach-backend/internal/repo"
)

func TestSlotCreate_NotCoach(t *testing.T) {
	db := newTestDB(t)
	svc := &SlotService{DB: db, Roles: denyAllRoles{}}

	_, err := svc.Create(context.Background(), "user@x.io", time.Now().UTC().Add(time.Hour), 50)
	if !errors.Is(err, ErrNotCoach) {
		t.Fatalf("expected ErrNotCoach, got %v", err)
	}
}

func TestSlotCreate_PastOrZeroStart(t *testing.T) {
	db := newTestDB(t)
	svc := &SlotService{DB: db, Roles: allowAllRoles{}}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "coach@x.io", time.Time{}, 50); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero start: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "coach@x.io", time.Now().UTC().Add(-time.Hour), 50); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("past start: expected ErrInvalidInput, got %v", err)
	}
}

func TestSlotCreate_DefaultMinutes(t *testing.T) {
	db := newTestDB(t)
	svc := &SlotService{DB: db, Roles: allowAllRoles{}}

	s, err := svc.Create(context.Background(), "coach@x.io", time.Now().UTC().Add(time.Hour), 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Minutes != 50 {
		t.Fatalf("minutes = %d, want 50", s.Minutes)
	}
	if s.Taken {
		t.Fatalf("new slot marked taken")
	}
}

func TestSlotListOpen_ExcludesTakenAndPast(t *testing.T) {
	db := newTestDB(t)
	svc := &SlotService{DB: db, Roles: allowAllRoles{}}
	ctx := context.Background()

	future, err := svc.Create(ctx, "coach@x.io", time.Now().UTC().Add(2*time.Hour), 50)
	if err != nil {
		t.Fatalf("Create future: %v", err)
	}
	taken, err := svc.Create(ctx, "coach@x.io", time.Now().UTC().Add(3*time.Hour), 50)
	if err != nil {
		t.Fatalf("Create taken: %v", err)
	}
	if n, err := repo.MarkSlotTaken(ctx, db, taken.ID); err != nil || n != 1 {
		t.Fatalf("mark taken: n=%d err=%v", n, err)
	}
	// Past slots can only exist via direct insert; the service refuses them.
	if _, err := repo.CreateSlot(ctx, db, time.Now().UTC().Add(-time.Hour), 50); err != nil {
		t.Fatalf("insert past slot: %v", err)
	}

	open, err := svc.ListOpen(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 1 || open[0].ID != future.ID {
		t.Fatalf("open = %+v, want only %s", open, future.ID)
	}
}

func TestSlotListOpen_ZeroFromDefaultsToNow(t *testing.T) {
	db := newTestDB(t)
	svc := &SlotService{DB: db, Roles: allowAllRoles{}}

	if _, err := svc.Create(context.Background(), "coach@x.io", time.Now().UTC().Add(time.Hour), 50); err != nil {
		t.Fatalf("Create: %v", err)
	}
	open, err := svc.ListOpen(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open len = %d, want 1", len(open))
	}
}
