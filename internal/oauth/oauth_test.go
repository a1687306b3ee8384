package oauth

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/mindpath/go-coach-backend/internal/config"
)

func testFlow() *Flow {
	return NewFlow(config.Config{
		BaseURL: "https://coach.example",
		OAuth: config.OAuthConfig{
			ClientID:     "client-1",
			ClientSecret: "secret",
			RedirectPath: "/oauth/youtube/callback",
		},
	})
}

func TestAuthURL(t *testing.T) {
	raw := testFlow().AuthURL("state-xyz")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-1" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-xyz" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "https://coach.example/oauth/youtube/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("access_type") != "offline" || q.Get("prompt") != "consent" {
		t.Errorf("offline/consent params missing: %v", q)
	}
	if !strings.Contains(q.Get("scope"), "youtube.readonly") {
		t.Errorf("scope = %q", q.Get("scope"))
	}
}

func TestEncodeToken_RoundTrips(t *testing.T) {
	expiry := time.Date(2025, 9, 2, 12, 0, 0, 0, time.UTC)
	packed, err := EncodeToken(&oauth2.Token{
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		Expiry:       expiry,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(packed)
	if err != nil {
		t.Fatalf("packed value is not raw-url base64: %v", err)
	}
	var env struct {
		AccessToken  string    `json:"access_token"`
		RefreshToken string    `json:"refresh_token"`
		Expiry       time.Time `json:"expiry"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.AccessToken != "at-1" || env.RefreshToken != "rt-1" || !env.Expiry.Equal(expiry) {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestEncodeToken_OmitsEmptyRefreshToken(t *testing.T) {
	packed, err := EncodeToken(&oauth2.Token{AccessToken: "at-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(packed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(string(raw), "refresh_token") {
		t.Fatalf("empty refresh token serialized: %s", raw)
	}
}
