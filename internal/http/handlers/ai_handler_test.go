package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mindpath/go-coach-backend/internal/ai"
)

func TestChat_AnswersTextQuestion(t *testing.T) {
	d := defaultDeps()
	d.ai.out = "Take a short walk and write down the thought."
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/ai/chat", gin.H{"message": "I keep ruminating"}, userHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != d.ai.out {
		t.Fatalf("answer = %q", resp.Answer)
	}
}

func TestChat_ImageURLUsesVision(t *testing.T) {
	d := defaultDeps()
	d.ai.out = "text path"
	d.ai.visionOut = "vision path"
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/ai/chat",
		gin.H{"message": "read my journal page", "image_url": "https://img.example/j.png"}, userHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "vision path" {
		t.Fatalf("answer = %q, want vision output", resp.Answer)
	}
}

func TestChat_BackendErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"not configured", ai.ErrNotConfigured, http.StatusServiceUnavailable, ErrCodeNotConfigured},
		{"empty completion", ai.ErrEmptyCompletion, http.StatusServiceUnavailable, ErrCodeNotConfigured},
		{"upstream failure", errors.New("rate limited"), http.StatusInternalServerError, ErrCodeAnswerFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.ai.err = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/ai/chat", gin.H{"message": "hi"}, userHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if e := decodeErr(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestChat_RejectsBlankMessage(t *testing.T) {
	r := newTestRouter(defaultDeps())

	for _, body := range []gin.H{{}, {"message": "   "}} {
		w := doJSON(t, r, http.MethodPost, "/ai/chat", body, userHdr())
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v = %d, want 400", body, w.Code)
		}
	}
}
