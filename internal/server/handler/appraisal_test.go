package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/confignsk/EVE-Nexus-sub009/internal/domain"
)

var testHub = domain.TradeHub{RegionID: 10000002, SystemID: 30000142}

// fakeAppraisalService records the last create request and returns canned
// results.
type fakeAppraisalService struct {
	lastReq   domain.AppraisalRequest
	createErr error
	appraisal domain.Appraisal
	getErr    error
	list      []domain.Appraisal
	total     int64
}

func (f *fakeAppraisalService) Create(_ context.Context, req domain.AppraisalRequest) (domain.Appraisal, error) {
	f.lastReq = req
	if f.createErr != nil {
		return domain.Appraisal{}, f.createErr
	}
	return f.appraisal, nil
}

func (f *fakeAppraisalService) Get(_ context.Context, id string) (domain.Appraisal, error) {
	if f.getErr != nil {
		return domain.Appraisal{}, f.getErr
	}
	return f.appraisal, nil
}

func (f *fakeAppraisalService) List(_ context.Context, _ domain.ListOpts) ([]domain.Appraisal, error) {
	return f.list, nil
}

func (f *fakeAppraisalService) Count(_ context.Context) (int64, error) {
	return f.total, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCreateAppraisalDefaultsHub(t *testing.T) {
	svc := &fakeAppraisalService{
		appraisal: domain.Appraisal{ID: "a1", Hub: testHub},
	}
	h := NewAppraisalHandler(svc, testHub, discardLogger())

	body := `{"items":[{"type_id":34,"quantity":1000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/appraisals", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateAppraisal(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body)
	}
	if svc.lastReq.Hub != testHub {
		t.Errorf("hub = %+v, want default %+v", svc.lastReq.Hub, testHub)
	}
	if len(svc.lastReq.Items) != 1 || svc.lastReq.Items[0].TypeID != 34 {
		t.Errorf("items = %+v", svc.lastReq.Items)
	}
}

func TestCreateAppraisalExplicitHub(t *testing.T) {
	svc := &fakeAppraisalService{appraisal: domain.Appraisal{ID: "a1"}}
	h := NewAppraisalHandler(svc, testHub, discardLogger())

	body := `{"items":[{"type_id":34,"quantity":1}],"hub":{"region_id":10000043,"system_id":30002187}}`
	req := httptest.NewRequest(http.MethodPost, "/api/appraisals", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateAppraisal(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	want := domain.TradeHub{RegionID: 10000043, SystemID: 30002187}
	if svc.lastReq.Hub != want {
		t.Errorf("hub = %+v, want %+v", svc.lastReq.Hub, want)
	}
}

func TestCreateAppraisalBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"items":`},
		{"empty items", `{"items":[]}`},
		{"missing items", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAppraisalService{}
			h := NewAppraisalHandler(svc, testHub, discardLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/appraisals", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			h.CreateAppraisal(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCreateAppraisalErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid hub", domain.ErrInvalidHub, http.StatusBadRequest},
		{"invalid discount", domain.ErrInvalidDiscount, http.StatusBadRequest},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAppraisalService{createErr: tc.err}
			h := NewAppraisalHandler(svc, testHub, discardLogger())

			body := `{"items":[{"type_id":34,"quantity":1}]}`
			req := httptest.NewRequest(http.MethodPost, "/api/appraisals", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.CreateAppraisal(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestGetAppraisalNotFound(t *testing.T) {
	svc := &fakeAppraisalService{getErr: domain.ErrNotFound}
	h := NewAppraisalHandler(svc, testHub, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/appraisals/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	h.GetAppraisal(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListAppraisalsEmpty(t *testing.T) {
	svc := &fakeAppraisalService{}
	h := NewAppraisalHandler(svc, testHub, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/appraisals", nil)
	rec := httptest.NewRecorder()

	h.ListAppraisals(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listAppraisalsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Appraisals == nil {
		t.Error("appraisals should be an empty array, not null")
	}
	if resp.Limit != 50 || resp.Offset != 0 {
		t.Errorf("pagination = limit %d offset %d, want defaults 50/0", resp.Limit, resp.Offset)
	}
}
