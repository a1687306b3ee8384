// Package oauth implements the YouTube account-linking flow on top of
// golang.org/x/oauth2. The handshake itself is delegated to the library; this
// package only assembles the authorization URL, exchanges the one-time code,
// and packs the resulting token pair for the client redirect.
//
// Nothing is persisted server-side: the access/refresh pair is base64-encoded
// into a redirect parameter and handed to the onboarding page, a deliberate
// simplification of this system.
package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mindpath/go-coach-backend/internal/config"
)

// youtubeReadonlyScope grants read access to the user's subscription list.
const youtubeReadonlyScope = "https://www.googleapis.com/auth/youtube.readonly"

// Flow holds the provider configuration for the linking dance.
type Flow struct {
	cfg *oauth2.Config
}

// NewFlow builds a Flow from application configuration. The redirect URL is
// BaseURL + OAuth.RedirectPath.
func NewFlow(cfg config.Config) *Flow {
	return &Flow{
		cfg: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.BaseURL + cfg.OAuth.RedirectPath,
			Scopes:       []string{youtubeReadonlyScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the provider authorization URL for the given state,
// requesting offline access so a refresh token is issued.
func (f *Flow) AuthURL(state string) string {
	return f.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange trades a one-time authorization code for a token pair.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return f.cfg.Exchange(ctx, code)
}

// tokenEnvelope is the JSON shape handed to the client page.
type tokenEnvelope struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// EncodeToken packs a token pair into a URL-safe base64 string for the
// redirect parameter.
func EncodeToken(tok *oauth2.Token) (string, error) {
	raw, err := json.Marshal(tokenEnvelope{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
