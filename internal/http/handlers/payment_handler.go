// Payment HTTP handlers.
//
// This file exposes payment-channel endpoints:
//   - GET  /payments/manual          (bank transfer instructions)
//   - POST /payments/gateway/approve (card gateway capture)
//   - POST /payments/gateway/cancel  (card gateway cancel)
//
// The card gateway is an optional integration; until merchant credentials are
// configured both gateway endpoints answer 503 so clients can fall back to
// the manual transfer flow.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/payment"
)

// GatewayRequest is the JSON payload for gateway approve/cancel calls.
type GatewayRequest struct {
	// OrderRef is the order reference issued at checkout.
	OrderRef string `json:"order_ref" binding:"required" example:"ORD-20250902T1015-3fa85f64"`
}

// GatewayResponse acknowledges a gateway operation.
type GatewayResponse struct {
	OrderRef string `json:"order_ref"`
	Result   string `json:"result"`
}

// ManualTransfer godoc
// @ID          manualTransfer
// @Summary     Bank transfer instructions
// @Description Returns the account details and instructions for paying by bank transfer.
// @Tags        Payments
// @Produce     json
// @Success     200 {object} payment.ManualTransfer
// @Router      /payments/manual [get]
func (h *Handlers) ManualTransferDetails(c *gin.Context) {
	ok(c, http.StatusOK, h.manual)
}

// GatewayApprove godoc
// @ID          gatewayApprove
// @Summary     Approve a card payment
// @Description Captures a gateway payment for the given order reference.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.GatewayRequest true "Order reference"
// @Success     200 {object} handlers.GatewayResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Failure     503 {object} handlers.ErrorResponse "Gateway not configured"
// @Router      /payments/gateway/approve [post]
func (h *Handlers) GatewayApprove(c *gin.Context) {
	h.gatewayCall(c, "approve", func(c *gin.Context, orderRef string) error {
		return h.gateway.Approve(c.Request.Context(), orderRef)
	})
}

// GatewayCancel godoc
// @ID          gatewayCancel
// @Summary     Cancel a card payment
// @Description Voids a gateway payment for the given order reference.
// @Tags        Payments
// @Accept      json
// @Produce     json
// @Param       X-User-ID header string true "User ID"
// @Param       body      body   handlers.GatewayRequest true "Order reference"
// @Success     200 {object} handlers.GatewayResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Failure     503 {object} handlers.ErrorResponse "Gateway not configured"
// @Router      /payments/gateway/cancel [post]
func (h *Handlers) GatewayCancel(c *gin.Context) {
	h.gatewayCall(c, "cancel", func(c *gin.Context, orderRef string) error {
		return h.gateway.Cancel(c.Request.Context(), orderRef)
	})
}

// gatewayCall factors the shared validation and error mapping of the two
// gateway endpoints.
func (h *Handlers) gatewayCall(c *gin.Context, result string, call func(*gin.Context, string) error) {
	if _, authed := requireUser(c); !authed {
		return
	}
	if h.gateway == nil || !h.gateway.Configured() {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "payment gateway not configured")
		return
	}
	var req GatewayRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.OrderRef) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order_ref required")
		return
	}

	if err := call(c, req.OrderRef); err != nil {
		switch {
		case errors.Is(err, payment.ErrNotConfigured):
			fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "payment gateway not configured")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, GatewayResponse{OrderRef: req.OrderRef, Result: result})
}
