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

func checkoutBody() gin.H {
	return gin.H{
		"report_id": uuid.NewString(),
		"program":   "standard",
		"amount":    99000,
		"depositor": "Kim Minji",
	}
}

func TestCreatePurchase_NewIntent(t *testing.T) {
	d := defaultDeps()
	d.purchase.intent = &services.IntentResult{
		Purchase: &domain.Purchase{ID: uuid.NewString(), OrderRef: "ORD-20250901T1200-deadbeef", Status: domain.StatusPending},
	}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/purchases", checkoutBody(), userHdr())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var resp CreatePurchaseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reused || resp.Status != domain.StatusPending || resp.OrderRef == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreatePurchase_ReusedIntentReturns200(t *testing.T) {
	d := defaultDeps()
	d.purchase.intent = &services.IntentResult{
		Purchase: &domain.Purchase{ID: uuid.NewString(), OrderRef: "ORD-20250901T1200-deadbeef", Status: domain.StatusPending},
		Reused:   true,
	}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/purchases", checkoutBody(), userHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp CreatePurchaseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Reused {
		t.Fatalf("reused flag not propagated: %+v", resp)
	}
}

func TestCreatePurchase_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"report missing", services.ErrReportNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.purchase.intentErr = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/purchases", checkoutBody(), userHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if e := decodeErr(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestCreatePurchase_RejectsIncompleteBody(t *testing.T) {
	r := newTestRouter(defaultDeps())

	w := doJSON(t, r, http.MethodPost, "/purchases", gin.H{"program": "standard"}, userHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDecidePurchase_Validation(t *testing.T) {
	r := newTestRouter(defaultDeps())

	w := doJSON(t, r, http.MethodPost, "/purchases/nope/decision", gin.H{"action": "confirm"}, coachHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/purchases/"+uuid.NewString()+"/decision", gin.H{}, coachHdr())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing action = %d, want 400", w.Code)
	}
}

func TestDecidePurchase_ServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"not coach", services.ErrNotCoach, http.StatusForbidden, ErrCodeForbidden},
		{"invalid action", services.ErrInvalidAction, http.StatusBadRequest, ErrCodeBadRequest},
		{"purchase missing", services.ErrPurchaseNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"already decided", services.ErrAlreadyDecided, http.StatusConflict, ErrCodeAlreadyDecided},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := defaultDeps()
			d.purchase.decideErr = tc.err
			r := newTestRouter(d)

			w := doJSON(t, r, http.MethodPost, "/purchases/"+uuid.NewString()+"/decision",
				gin.H{"action": "reject"}, coachHdr())
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if e := decodeErr(t, w); e.Code != tc.code {
				t.Fatalf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestDecidePurchase_ReturnsDecidedPurchase(t *testing.T) {
	d := defaultDeps()
	d.purchase.decided = &domain.Purchase{ID: uuid.NewString(), Status: domain.StatusConfirmed}
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodPost, "/purchases/"+uuid.NewString()+"/decision",
		gin.H{"action": "confirm"}, coachHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if d.purchase.gotAction != "confirm" {
		t.Fatalf("action not forwarded: %q", d.purchase.gotAction)
	}
	var p domain.Purchase
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Status != domain.StatusConfirmed {
		t.Fatalf("status = %q, want confirmed", p.Status)
	}
}

func TestListPurchases_Pagination(t *testing.T) {
	d := defaultDeps()
	d.purchase.items = []domain.Purchase{{ID: "p1"}}
	d.purchase.total = 1
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodGet, "/purchases", nil, userHdr())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ListPurchasesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Purchases) != 1 || resp.Pagination.Total != 1 || resp.Pagination.HasNext {
		t.Fatalf("unexpected page: %+v", resp.Pagination)
	}
}
