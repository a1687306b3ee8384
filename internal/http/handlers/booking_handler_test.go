package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindpath/go-coach-backend/internal/domain"
	"github.com/mindpath/go-coach-backend/internal/services"
)

func TestCreateBooking_Validation(t *testing.T) {
	d := defaultDeps()
	r := newTestRouter(d)

	// malformed body
	w := doJSON(t, r, http.MethodPost, "/bookings", gin.H{"purchase_id": ""}, userHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields = %d, want 400", w.Code)
	}

	// non-uuid purchase id
	w = doJSON(t, r, http.MethodPost, "/bookings",
		gin.H{"purchase_id": "not-a-uuid", "slot_ids": []string{"s1"}}, userHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid = %d, want 400", w.Code)
	}
}

func TestCreateBooking_ServiceErrorMapping(t *testing.T) {
	pid := uuid.NewString()
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
		{"purchase missing", services.ErrPurchaseNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"slot unavailable", services.ErrSlotNotFound, http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.booking.requestErr = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/bookings",
				gin.H{"purchase_id": pid, "slot_ids": []string{"s1"}}, userHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if e := decodeErr(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestCreateBooking_Success(t *testing.T) {
	d := defaultDeps()
	d.booking.booking = &domain.Booking{ID: uuid.NewString(), Status: domain.StatusPending}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/bookings",
		gin.H{"purchase_id": uuid.NewString(), "slot_ids": []string{"s1", "s2"}}, userHdr())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if len(d.booking.gotSlotIDs) != 2 {
		t.Fatalf("slot ids not forwarded: %v", d.booking.gotSlotIDs)
	}
}

func TestDecideBooking_Validation(t *testing.T) {
	r := newTestRouter(defaultDeps())

	w := doJSON(t, r, http.MethodPost, "/bookings/not-a-uuid/decision",
		gin.H{"action": "confirm"}, coachHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/bookings/"+uuid.NewString()+"/decision",
		gin.H{"action": "  "}, coachHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank action = %d, want 400", w.Code)
	}
}

func TestDecideBooking_ServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"not coach", services.ErrNotCoach, http.StatusForbidden, ErrCodeForbidden},
		{"invalid action", services.ErrInvalidAction, http.StatusBadRequest, ErrCodeBadRequest},
		{"slot required", services.ErrSlotRequired, http.StatusBadRequest, ErrCodeBadRequest},
		{"booking missing", services.ErrBookingNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"slot missing", services.ErrSlotNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"already decided", services.ErrAlreadyDecided, http.StatusConflict, ErrCodeAlreadyDecided},
		{"slot taken", services.ErrSlotTaken, http.StatusConflict, ErrCodeSlotTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.booking.decideErr = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/bookings/"+uuid.NewString()+"/decision",
				gin.H{"action": "confirm", "slot_id": "s1"}, coachHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if e := decodeErr(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestDecideBooking_ForwardsSlotAndLink(t *testing.T) {
	d := defaultDeps()
	sid := uuid.NewString()
	d.booking.decided = &domain.Booking{ID: uuid.NewString(), Status: domain.StatusConfirmed, SlotID: &sid}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/bookings/"+uuid.NewString()+"/decision",
		gin.H{"action": "confirm", "slot_id": sid, "meet_link": "https://meet.example/x"}, coachHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if d.booking.gotSlotID != sid || d.booking.gotLink != "https://meet.example/x" {
		t.Fatalf("decision args not forwarded: slot=%q link=%q", d.booking.gotSlotID, d.booking.gotLink)
	}
}

func TestListBookings_Pagination(t *testing.T) {
	d := defaultDeps()
	d.booking.items = []domain.Booking{{ID: "b1"}, {ID: "b2"}}
	d.booking.total = 5
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodGet, "/bookings?page=1&page_size=2", nil, userHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ListBookingsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookings) != 2 || resp.Pagination.Total != 5 || resp.Pagination.TotalPages != 3 || !resp.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", resp.Pagination)
	}
}
