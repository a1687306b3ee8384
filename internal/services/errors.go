// Package services defines the business logic for purchases, bookings,
// reports, and mission submissions. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrNotCoach is returned when the caller's identity does not resolve to
	// the coach role for a privileged operation.
	ErrNotCoach = errors.New("caller is not a coach")

	// ErrInvalidAction is returned when a decision action is neither
	// "confirm" nor "reject".
	ErrInvalidAction = errors.New("action must be confirm or reject")

	// ErrSlotRequired is returned when a booking confirmation carries no slot.
	ErrSlotRequired = errors.New("slot is required to confirm a booking")

	// ErrSlotTaken is returned when the chosen slot is already held by
	// another confirmed booking.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrSlotNotFound is returned when a referenced slot does not exist or a
	// proposed slot is no longer available.
	ErrSlotNotFound = errors.New("slot not found or unavailable")

	// ErrBookingNotFound indicates that the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyDecided is returned when a purchase or booking has left the
	// pending state; decisions are applied exactly once.
	ErrAlreadyDecided = errors.New("record already decided")

	// ErrPurchaseNotFound indicates that the requested purchase does not
	// exist or is not accessible to the caller.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrReportNotFound indicates that the referenced report does not exist
	// or is not owned by the caller.
	ErrReportNotFound = errors.New("report not found")

	// ErrInvalidInput is returned for missing or malformed request fields
	// that survive transport-level binding.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownMission is returned when a submission names a mission key
	// outside the known mission set.
	ErrUnknownMission = errors.New("unknown mission")

	// ErrAIUnavailable is returned when the completion service is not
	// configured or its response cannot be used.
	ErrAIUnavailable = errors.New("ai service unavailable")
)
