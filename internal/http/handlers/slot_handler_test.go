package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/services"
)

func TestListSlots_NoIdentityRequired(t *testing.T) {
	d := defaultDeps()
	d.slot.slots = []domain.Slot{{ID: uuid.NewString(), Minutes: 50}}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodGet, "/slots", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ListSlotsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(resp.Slots))
	}
}

func TestCreateSlot_Success(t *testing.T) {
	d := defaultDeps()
	d.slot.created = &domain.Slot{ID: uuid.NewString(), Minutes: 50}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/slots",
		gin.H{"starts_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)}, coachHdr())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
}

func TestCreateSlot_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not coach", services.ErrNotCoach, http.StatusForbidden},
		{"past start", services.ErrInvalidInput, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.slot.createErr = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/slots",
				gin.H{"starts_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339)}, coachHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestCreateSlot_RejectsMissingStartsAt(t *testing.T) {
	r := newTestRouter(defaultDeps())

	w := doJSON(t, r, http.MethodPost, "/slots", gin.H{"minutes": 50}, coachHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
