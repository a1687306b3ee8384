// AI chat HTTP handler.
//
// POST /ai/chat proxies a single-turn coaching question to the completion
// backend. An optional image URL switches to the vision variant, used by the
// daily-review mission to read journaling photos.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/ai"
)

// chatPreamble frames the assistant for in-program coaching questions.
const chatPreamble = "You are a supportive psychological coaching assistant. " +
	"Answer briefly and practically, in the language the user writes in. " +
	"Do not give medical diagnoses; suggest professional help for crisis topics."

// ChatRequest is the JSON payload for an assistant question.
type ChatRequest struct {
	// Message is the user's question. It must be non-empty.
	Message string `json:"message" binding:"required,min=1"`
	// ImageURL optionally attaches an image to analyze with the message.
	ImageURL string `json:"image_url,omitempty"`
}

// ChatResponse carries the assistant answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Chat godoc
// @ID          aiChat
// @Summary     Ask the coaching assistant
// @Description Single-turn completion; attach image_url for vision analysis.
// @Tags        AI
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.ChatRequest true "Question payload"
// @Success     200 {object} handlers.ChatResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Failure     503 {object} handlers.ErrorResponse "Completion backend not configured"
// @Router      /ai/chat [post]
func (h *Handlers) Chat(c *gin.Context) {
	if _, authed := requireUser(c); !authed {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}
	if h.ai == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "assistant unavailable")
		return
	}

	ctx := c.Request.Context()
	var (
		answer string
		err    error
	)
	if strings.TrimSpace(req.ImageURL) != "" {
		answer, err = h.ai.CompleteVision(ctx, req.Message, req.ImageURL)
	} else {
		answer, err = h.ai.Complete(ctx, chatPreamble, req.Message)
	}
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNotConfigured), errors.Is(err, ai.ErrEmptyCompletion):
			fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "assistant unavailable")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeAnswerFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ChatResponse{Answer: answer})
}
