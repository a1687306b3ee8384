// Report HTTP handlers.
//
// This file exposes REST endpoints for personality reports:
//   - POST /reports      (generate a report from subscribed channel titles)
//   - GET  /reports      (list own, paginated)
//   - GET  /reports/{id} (fetch one owned report)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/services"
)

// CreateReportRequest is the JSON payload for generating a report.
type CreateReportRequest struct {
	// Channels are the subscribed channel titles the analysis is based on.
	Channels []string `json:"channels" binding:"required,min=1"`
}

// CreateReportResponse reports the generated analysis.
type CreateReportResponse struct {
	Report *domain.Report `json:"report"`
}

// ListReportsResponse wraps a page of reports and pagination information.
type ListReportsResponse struct {
	Reports    []domain.Report `json:"reports"`
	Pagination Pagination      `json:"pagination"`
}

// CreateReport godoc
// @ID          createReport
// @Summary     Generate a personality report
// @Description Runs the AI analysis over the caller's channel titles and persists the result.
// @Tags        Reports
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.CreateReportRequest true "Channel titles"
// @Success     201 {object} handlers.CreateReportResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Failure     503 {object} handlers.ErrorResponse "AI service not configured or unusable"
// @Router      /reports [post]
func (h *Handlers) CreateReport(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "channels required")
		return
	}

	r, err := h.reportSvc.Generate(c.Request.Context(), uid, req.Channels)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one channel title required")
		case errors.Is(err, services.ErrAIUnavailable):
			fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "report generation unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateReportResponse{Report: r})
}

// ListReports godoc
// @ID          listReports
// @Summary     List own reports (paginated)
// @Tags        Reports
// @Produce     json
// @Param       X-User-ID header string true  "User ID"
// @Param       page      query  int    false "Page number"    minimum(1) default(1)
// @Param       page_size query  int    false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListReportsResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /reports [get]
func (h *Handlers) ListReports(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	page, pageSize := clampPagination(c)

	items, total, err := h.reportSvc.ListPage(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListReportsResponse{
		Reports:    items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetReport godoc
// @ID          getReport
// @Summary     Fetch one report
// @Description Returns an owned report by id.
// @Tags        Reports
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       id        path   string true "Report ID (UUID)" format(uuid)
// @Success     200 {object} domain.Report
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /reports/{id} [get]
func (h *Handlers) GetReport(c *gin.Context) {
	uid, authed := requireUser(c)
	if !authed {
		return
	}
	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "report id must be a UUID")
		return
	}

	r, err := h.reportSvc.Get(c.Request.Context(), uid, reportID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "report not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}
