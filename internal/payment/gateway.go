// Package payment holds the card-gateway adapter and the manual bank-transfer
// fallback. The gateway is a placeholder until vendor credentials are
// provisioned: every call on an unconfigured gateway returns ErrNotConfigured,
// which handlers translate to 503 with guidance to use the manual path.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/mindpath/go-coach-backend/internal/config"
)

// ErrNotConfigured signals that gateway credentials are absent and the card
// path is disabled.
var ErrNotConfigured = errors.New("payment gateway not configured")

// Gateway is the card-payment adapter. MerchantID/MerchantKey come from
// configuration; empty credentials disable the gateway.
type Gateway struct {
	merchantID  string
	merchantKey string
}

// NewGateway builds a Gateway from application configuration.
func NewGateway(cfg config.PaymentConfig) *Gateway {
	return &Gateway{
		merchantID:  strings.TrimSpace(cfg.MerchantID),
		merchantKey: strings.TrimSpace(cfg.MerchantKey),
	}
}

// Configured reports whether full vendor credentials are present.
func (g *Gateway) Configured() bool {
	return g.merchantID != "" && g.merchantKey != ""
}

// Approve would capture an authorized card payment for orderRef. The vendor
// integration is not yet enabled; the method exists so the HTTP surface and
// its 503 behavior are stable for clients.
func (g *Gateway) Approve(ctx context.Context, orderRef string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	// TODO: wire the vendor capture call once merchant credentials ship.
	return ErrNotConfigured
}

// Cancel would void an authorized card payment for orderRef. Same placeholder
// status as Approve.
func (g *Gateway) Cancel(ctx context.Context, orderRef string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	return ErrNotConfigured
}

// ManualTransfer describes the static bank account users wire deposits to,
// plus the depositor-name instruction used for reconciliation.
type ManualTransfer struct {
	BankName      string `json:"bank_name"`
	Account       string `json:"account"`
	AccountHolder string `json:"account_holder"`
	Instructions  string `json:"instructions"`
}

// ManualTransferDetails returns the configured fallback account details.
func ManualTransferDetails(cfg config.PaymentConfig) ManualTransfer {
	return ManualTransfer{
		BankName:      cfg.BankName,
		Account:       cfg.BankAccount,
		AccountHolder: cfg.AccountHolder,
		Instructions:  "Transfer the exact amount and use the depositor name you entered at checkout.",
	}
}
