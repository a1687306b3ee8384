// YouTube OAuth HTTP handlers.
//
// This file exposes the account-linking endpoints:
//   - GET /oauth/youtube          (redirect to the provider consent page)
//   - GET /oauth/youtube/callback (exchange the code, hand the token to the
//     onboarding page via redirect)
//
// Both error and success paths end in a redirect to the frontend: errors go
// to /onboarding?error=<code>, success goes to /onboarding/channels with the
// encoded token pair in the query string.
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/http/middleware"
	"github.com/mindpath/go-coach-backend/internal/oauth"
)

// stateCookie names the CSRF-state cookie set before redirecting out.
const stateCookie = "yt_oauth_state"

// stateCookieMaxAge bounds how long the handshake may take, in seconds.
const stateCookieMaxAge = 600

// OAuthHandlers groups the account-linking endpoints. They live outside the
// Handlers service wiring because they carry no API identity; the flow is
// pre-signup.
type OAuthHandlers struct {
	flow       *oauth.Flow
	baseURL    string
	configured bool
}

// NewOAuthHandlers constructs the linking endpoints. When configured is
// false (missing client credentials) both endpoints answer 503.
func NewOAuthHandlers(flow *oauth.Flow, baseURL string, configured bool) *OAuthHandlers {
	return &OAuthHandlers{flow: flow, baseURL: baseURL, configured: configured}
}

// Start godoc
// @ID          oauthStart
// @Summary     Begin YouTube account linking
// @Description Sets a state cookie and redirects to the Google consent page.
// @Tags        OAuth
// @Success     302 {string} string "Redirect to provider"
// @Failure     503 {object} handlers.ErrorResponse "OAuth not configured"
// @Router      /oauth/youtube [get]
func (h *OAuthHandlers) Start(c *gin.Context) {
	if !h.configured {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "youtube linking not configured")
		return
	}
	state := newState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", middleware.RequestIsHTTPS(c), true)
	c.Redirect(http.StatusFound, h.flow.AuthURL(state))
}

// Callback godoc
// @ID          oauthCallback
// @Summary     Complete YouTube account linking
// @Description Validates state, exchanges the code, and redirects to the onboarding page with the token.
// @Tags        OAuth
// @Success     302 {string} string "Redirect to onboarding"
// @Failure     503 {object} handlers.ErrorResponse "OAuth not configured"
// @Router      /oauth/youtube/callback [get]
func (h *OAuthHandlers) Callback(c *gin.Context) {
	if !h.configured {
		fail(c, http.StatusServiceUnavailable, ErrCodeNotConfigured, "youtube linking not configured")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "no_code")
		return
	}
	want, err := c.Cookie(stateCookie)
	if err != nil || want == "" || c.Query("state") != want {
		h.redirectError(c, "bad_state")
		return
	}
	// One-shot cookie; clear it regardless of the exchange outcome.
	c.SetCookie(stateCookie, "", -1, "/", "", middleware.RequestIsHTTPS(c), true)

	tok, err := h.flow.Exchange(c.Request.Context(), code)
	if err != nil {
		h.redirectError(c, "exchange_failed")
		return
	}
	packed, err := oauth.EncodeToken(tok)
	if err != nil {
		h.redirectError(c, "exchange_failed")
		return
	}

	c.Redirect(http.StatusFound,
		h.baseURL+"/onboarding/channels?token="+url.QueryEscape(packed))
}

// redirectError sends the browser back to the onboarding page with a stable
// error code in the query string.
func (h *OAuthHandlers) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.baseURL+"/onboarding?error="+url.QueryEscape(code))
}

// newState returns a 32-hex-char random state value.
func newState() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
