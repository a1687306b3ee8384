// Mission submission HTTP handlers.
//
// This file exposes REST endpoints for program mission answers:
//   - POST /submissions           (save answers for a mission)
//   - GET  /submissions/{mission} (fetch the latest answers for a mission)
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/repo"
	"github.com/mindpath/go-coach-backend/internal/services"
)

// CreateSubmissionRequest is the JSON payload for saving mission answers.
type CreateSubmissionRequest struct {
	// Mission is the mission key (e.g. core_belief, daily_review).
	Mission string `json:"mission" binding:"required" example:"core_belief"`
	// Answers is the free-form answers document, stored verbatim.
	Answers json.RawMessage `json:"answers" binding:"required"`
}

// SubmissionResponse wraps a single stored submission.
type SubmissionResponse struct {
	Submission *domain.Submission `json:"submission"`
}

// CreateSubmission godoc
// @ID          createSubmission
// @Summary     Save mission answers
// @Description Stores a new answers document for one of the known program missions.
// @Tags        Submissions
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.CreateSubmissionRequest true "Mission answers"
// @Success     201 {object} handlers.SubmissionResponse
// @Failure     400 {object} handlers.ErrorResponse "Unknown mission or malformed answers"
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /submissions [post]
func (h *Handlers) CreateSubmission(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mission and answers required")
		return
	}

	sub, err := h.submissionSvc.Submit(c.Request.Context(), uid, req.Mission, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMission):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown mission")
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "answers must be a JSON document")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, SubmissionResponse{Submission: sub})
}

// GetSubmission godoc
// @ID          getSubmission
// @Summary     Fetch latest mission answers
// @Description Returns the caller's most recent submission for the mission, if any.
// @Tags        Submissions
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       mission   path   string true "Mission key" example(core_belief)
// @Success     200 {object} handlers.SubmissionResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse "No submission yet"
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /submissions/{mission} [get]
func (h *Handlers) GetSubmission(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	mission := c.Param("mission")

	sub, err := h.submissionSvc.Latest(c.Request.Context(), uid, mission)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMission):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown mission")
		case errors.Is(err, repo.ErrNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no submission for mission")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, SubmissionResponse{Submission: sub})
}
