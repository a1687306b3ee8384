// Package domain defines the persistence models for reports, purchases,
// bookings, slots, and mission submissions. These types are mapped with GORM
// and form the core data layer of the coaching platform.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Purchase and Booking status values. A record is created pending and is
// decided exactly once; there is no cancellation path.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// Report is the personality assessment generated from a user's YouTube
// subscription list. Purchases reference the report they were bought against.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the owning user; indexed for retrieval.
//   - Channels: JSON snapshot of the subscription list the report was built from.
//   - Body: the generated report text.
//   - Model: completion model that produced the body.
type Report struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_reports"`
	Channels  string         `json:"channels"   gorm:"type:text;not null"`
	Body      string         `json:"body"       gorm:"type:text;not null"`
	Model     string         `json:"model"      gorm:"type:varchar(64);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }

// Purchase records a monetary intent against a report. It is created pending
// at checkout and mutated exactly once (confirm or reject) by a coach.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner identity.
//   - ReportID: the assessment result this purchase pays for (indexed; at most
//     one pending/confirmed purchase per report is kept).
//   - Program: program type bought (validated against configuration).
//   - Amount: integer minor units; Currency: ISO code.
//   - Method: payment method hint ("bank_transfer", "card").
//   - Depositor: display name used to reconcile manual bank transfers.
//   - OrderRef: external order identifier (time prefix + random suffix).
//   - Status: pending|confirmed|rejected (enforced by DB constraint).
//   - ConfirmedAt / ConfirmedBy: decision stamp, set once.
//   - StartDate: program day-1 date derived at confirmation.
type Purchase struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string         `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_user_purchases"`
	ReportID    string         `json:"report_id"    gorm:"type:char(36);not null;index:idx_report_purchases"`
	Program     string         `json:"program"      gorm:"type:varchar(32);not null"`
	Amount      int64          `json:"amount"       gorm:"not null"`
	Currency    string         `json:"currency"     gorm:"type:varchar(8);not null;default:'KRW'"`
	Method      string         `json:"method"       gorm:"type:varchar(32);not null"`
	Depositor   string         `json:"depositor"    gorm:"type:varchar(128);not null"`
	OrderRef    string         `json:"order_ref"    gorm:"type:varchar(64);not null;uniqueIndex:ux_purchase_order_ref"`
	Status      string         `json:"status"       gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','confirmed','rejected')"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
	ConfirmedBy string         `json:"confirmed_by,omitempty" gorm:"type:varchar(128)"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	// Report is the assessment result the purchase was made against.
	Report Report `json:"-" gorm:"foreignKey:ReportID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Purchase.
func (Purchase) TableName() string { return "purchases" }

// Booking is a scheduling request for a counseling session tied to a
// Purchase. Users propose up to three slots; a coach confirms exactly one
// (stamping the meeting link) or rejects the request. Confirmation is only
// permitted while the booking is pending.
type Booking struct {
	ID            string         `json:"id"              gorm:"type:char(36);primaryKey"`
	PurchaseID    string         `json:"purchase_id"     gorm:"type:char(36);not null;index:idx_purchase_bookings"`
	UserID        string         `json:"user_id"         gorm:"type:varchar(64);not null;index:idx_user_bookings"`
	ProposedSlots string         `json:"proposed_slots"  gorm:"type:text;not null"` // JSON array of slot ids
	Status        string         `json:"status"          gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','confirmed','rejected')"`
	SlotID        *string        `json:"slot_id,omitempty"   gorm:"type:char(36)"`
	MeetLink      string         `json:"meet_link,omitempty" gorm:"type:varchar(255)"`
	DecidedBy     string         `json:"decided_by,omitempty" gorm:"type:varchar(128)"`
	DecidedAt     *time.Time     `json:"decided_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"               gorm:"index"`

	// Purchase is the monetary intent this booking belongs to.
	Purchase Purchase `json:"-" gorm:"foreignKey:PurchaseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// Slot is a bookable session time. At most one confirmed booking may hold a
// slot; Taken is flipped inside the same transaction that confirms the
// booking so the pair can never diverge.
type Slot struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	StartsAt  time.Time      `json:"starts_at"  gorm:"not null;index:idx_slot_starts"`
	Minutes   int            `json:"minutes"    gorm:"not null;default:50"`
	Taken     bool           `json:"taken"      gorm:"not null;default:false;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Slot.
func (Slot) TableName() string { return "slots" }

// Submission is a free-form per-user answer blob for a coaching mission
// (core_belief, cognitive_error, ...). Rows are append-only; the latest row
// per (user, mission) wins on read.
type Submission struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_mission,priority:1"`
	Mission   string         `json:"mission"    gorm:"type:varchar(64);not null;index:idx_user_mission,priority:2"`
	Answers   string         `json:"answers"    gorm:"type:text;not null"` // JSON blob
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "submissions" }
