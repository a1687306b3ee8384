// Package handlers defines HTTP-layer error codes used across all API
// endpoints. The constants give clients a stable, machine-readable taxonomy
// supplementing the human-readable message in every error envelope. Codes are
// lowercase snake_case; generic codes mirror common HTTP status semantics,
// domain-specific ones cover outcomes a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeRateLimited   = "too_many_requests"
	ErrCodeInternal      = "internal_error"
	ErrCodeNotConfigured = "not_configured"

	// Domain-specific:
	ErrCodeSlotTaken        = "slot_taken"
	ErrCodeAlreadyDecided   = "already_decided"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeAnswerFailed     = "answer_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeGenerateFailed   = "generate_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
