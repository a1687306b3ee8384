package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:coachsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(
		&domain.Report{}, &domain.Purchase{}, &domain.Booking{},
		&domain.Slot{}, &domain.Submission{}, &domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// allowAllRoles treats every non-empty email as a coach.
type allowAllRoles struct{}

func (allowAllRoles) IsCoach(email string) bool { return email != "" }

// denyAllRoles never grants the coach role.
type denyAllRoles struct{}

func (denyAllRoles) IsCoach(string) bool { return false }

func seedReport(t *testing.T, db *gorm.DB, userID string) *domain.Report {
	t.Helper()
	r, err := repo.CreateReport(context.Background(), db, userID, `["ch"]`, "body", "test-model")
	if err != nil {
		t.Fatalf("seed report: %v", err)
	}
	return r
}

func testPurchaseService(db *gorm.DB) *PurchaseService {
	return NewPurchaseService(db, allowAllRoles{}, []string{"starter", "standard", "intensive"}, "KRW")
}

func TestNewPurchaseService_CurrencyDefault(t *testing.T) {
	s := NewPurchaseService(nil, allowAllRoles{}, nil, "")
	if s.Currency != "KRW" {
		t.Fatalf("Currency default = KRW, got %q", s.Currency)
	}
}

func TestCreateIntent_InvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	cases := []struct {
		name      string
		program   string
		amount    int64
		depositor string
	}{
		{"unknown program", "platinum", 1000, "Kim"},
		{"zero amount", "standard", 0, "Kim"},
		{"negative amount", "standard", -5, "Kim"},
		{"blank depositor", "standard", 1000, "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateIntent(context.Background(), "u1", r.ID, tc.program, tc.amount, "", tc.depositor)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateIntent_ReportNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)

	_, err := svc.CreateIntent(context.Background(), "u1", uuid.NewString(), "standard", 1000, "", "Kim")
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestCreateIntent_ReportOwnedByAnotherUser(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "owner")

	_, err := svc.CreateIntent(context.Background(), "intruder", r.ID, "standard", 1000, "", "Kim")
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestCreateIntent_CreatesPending(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	res, err := svc.CreateIntent(context.Background(), "u1", r.ID, "Standard", 99000, "", "  kim   minji ")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if res.Reused {
		t.Fatalf("fresh intent flagged as reused")
	}
	p := res.Purchase
	if p.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", p.Status)
	}
	if p.Program != "standard" {
		t.Fatalf("program not normalized: %q", p.Program)
	}
	if p.Method != "bank_transfer" {
		t.Fatalf("method default = %q, want bank_transfer", p.Method)
	}
	if p.Depositor != "Kim Minji" {
		t.Fatalf("depositor not normalized: %q", p.Depositor)
	}
	if !strings.HasPrefix(p.OrderRef, "ORD-") {
		t.Fatalf("order ref %q missing prefix", p.OrderRef)
	}
}

func TestCreateIntent_ReusesOpenIntent(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	first, err := svc.CreateIntent(context.Background(), "u1", r.ID, "standard", 99000, "", "Kim")
	if err != nil {
		t.Fatalf("first CreateIntent: %v", err)
	}
	second, err := svc.CreateIntent(context.Background(), "u1", r.ID, "intensive", 150000, "card", "Lee")
	if err != nil {
		t.Fatalf("second CreateIntent: %v", err)
	}
	if !second.Reused {
		t.Fatalf("expected reuse of open intent")
	}
	if second.Purchase.ID != first.Purchase.ID {
		t.Fatalf("reused different purchase: %s vs %s", second.Purchase.ID, first.Purchase.ID)
	}

	var count int64
	db.Model(&domain.Purchase{}).Where("report_id = ?", r.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 purchase row, got %d", count)
	}
}

func TestCreateIntent_RejectedIntentDoesNotBlockNewOne(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	first, err := svc.CreateIntent(context.Background(), "u1", r.ID, "standard", 99000, "", "Kim")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if _, err := svc.Decide(context.Background(), "coach@x.io", first.Purchase.ID, "reject"); err != nil {
		t.Fatalf("Decide reject: %v", err)
	}

	second, err := svc.CreateIntent(context.Background(), "u1", r.ID, "standard", 99000, "", "Kim")
	if err != nil {
		t.Fatalf("CreateIntent after reject: %v", err)
	}
	if second.Reused {
		t.Fatalf("rejected intent must not be reused")
	}
}

func TestPurchaseDecide_NotCoach(t *testing.T) {
	db := newTestDB(t)
	svc := NewPurchaseService(db, denyAllRoles{}, []string{"standard"}, "KRW")

	_, err := svc.Decide(context.Background(), "user@x.io", uuid.NewString(), "confirm")
	if !errors.Is(err, ErrNotCoach) {
		t.Fatalf("expected ErrNotCoach, got %v", err)
	}
}

func TestPurchaseDecide_InvalidAction(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)

	_, err := svc.Decide(context.Background(), "coach@x.io", uuid.NewString(), "approve")
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestPurchaseDecide_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)

	_, err := svc.Decide(context.Background(), "coach@x.io", uuid.NewString(), "confirm")
	if !errors.Is(err, ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
}

func TestPurchaseDecide_ConfirmStampsStartDate(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	res, err := svc.CreateIntent(context.Background(), "u1", r.ID, "standard", 99000, "", "Kim")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	p, err := svc.Decide(context.Background(), "coach@x.io", res.Purchase.ID, "Confirm")
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if p.Status != domain.StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", p.Status)
	}
	if p.ConfirmedAt == nil || p.ConfirmedBy != "coach@x.io" {
		t.Fatalf("decision stamp missing: at=%v by=%q", p.ConfirmedAt, p.ConfirmedBy)
	}
	if p.StartDate == nil {
		t.Fatalf("start date not set on confirm")
	}
	want := time.Now().UTC().Truncate(24 * time.Hour)
	if !p.StartDate.Equal(want) {
		t.Fatalf("start date = %v, want %v", p.StartDate, want)
	}
}

func TestPurchaseDecide_AppliesOnce(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	r := seedReport(t, db, "u1")

	res, err := svc.CreateIntent(context.Background(), "u1", r.ID, "standard", 99000, "", "Kim")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if _, err := svc.Decide(context.Background(), "coach@x.io", res.Purchase.ID, "confirm"); err != nil {
		t.Fatalf("first Decide: %v", err)
	}

	_, err = svc.Decide(context.Background(), "coach@x.io", res.Purchase.ID, "reject")
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}

	// First outcome stands.
	p, err := svc.Get(context.Background(), "u1", res.Purchase.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Status != domain.StatusConfirmed {
		t.Fatalf("status flipped to %q after duplicate decision", p.Status)
	}
}

func TestPurchaseListPage(t *testing.T) {
	db := newTestDB(t)
	svc := testPurchaseService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := seedReport(t, db, "u1")
		if _, err := svc.CreateIntent(ctx, "u1", r.ID, "standard", 1000, "", "Kim"); err != nil {
			t.Fatalf("CreateIntent: %v", err)
		}
	}

	items, total, err := svc.ListPage(ctx, "u1", 1, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("page1 total=%d len=%d, want 3/2", total, len(items))
	}

	items, total, err = svc.ListPage(ctx, "u1", 2, 2)
	if err != nil {
		t.Fatalf("ListPage p2: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("page2 total=%d len=%d, want 3/1", total, len(items))
	}

	items, total, err = svc.ListPage(ctx, "nobody", 1, 10)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("empty user: items=%d total=%d err=%v", len(items), total, err)
	}
}

func TestNewOrderRef_Format(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ref := NewOrderRef(now)
	if !strings.HasPrefix(ref, "ORD-20250601T1000-") {
		t.Fatalf("unexpected prefix: %q", ref)
	}
	if len(ref) != len("ORD-20250601T1000-")+8 {
		t.Fatalf("unexpected suffix length: %q", ref)
	}
	if ref == NewOrderRef(now) {
		t.Fatalf("order refs for same instant should differ")
	}
}

func TestNormalizeDepositor(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"   ":            "",
		"kim minji":      "Kim Minji",
		"  kim   minji ": "Kim Minji",
		"LEE":            "Lee",
	}
	for in, want := range cases {
		if got := normalizeDepositor(in); got != want {
			t.Errorf("normalizeDepositor(%q) = %q; want %q", in, got, want)
		}
	}
}
