package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"profverify/internal/domain"
)

type fakeHistoryStore struct {
	records  []domain.HistoryRecord
	err      error
	gotLimit int
}

func (f *fakeHistoryStore) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	return f.err
}

func (f *fakeHistoryStore) ListByPerson(ctx context.Context, name, university string, limit int) ([]domain.HistoryRecord, error) {
	f.gotLimit = limit
	return f.records, f.err
}

func TestHistoryHandler_List(t *testing.T) {
	fake := &fakeHistoryStore{records: []domain.HistoryRecord{
		{Name: "Jane Doe", University: "MIT", Verified: true, Score: 85},
	}}
	h := NewHistoryHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/v1/history?name=Jane+Doe&university=MIT", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fake.gotLimit != defaultHistoryLimit {
		t.Fatalf("expected default limit %d, got %d", defaultHistoryLimit, fake.gotLimit)
	}

	var resp struct {
		Name       string                 `json:"name"`
		University string                 `json:"university"`
		Records    []domain.HistoryRecord `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Records) != 1 || resp.Records[0].Score != 85 {
		t.Fatalf("unexpected records: %+v", resp.Records)
	}
}

func TestHistoryHandler_List_EmptyIsArray(t *testing.T) {
	h := NewHistoryHandler(&fakeHistoryStore{})

	req := httptest.NewRequest(http.MethodGet, "/v1/history?name=Nobody&university=Nowhere+U", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if string(resp["records"]) != "[]" {
		t.Fatalf("expected empty array, got %s", resp["records"])
	}
}

func TestHistoryHandler_List_Validation(t *testing.T) {
	h := NewHistoryHandler(&fakeHistoryStore{})

	tests := []struct {
		name  string
		query string
	}{
		{"missing name", "university=MIT"},
		{"missing university", "name=Jane+Doe"},
		{"bad limit", "name=Jane+Doe&university=MIT&limit=abc"},
		{"zero limit", "name=Jane+Doe&university=MIT&limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/history?"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHistoryHandler_List_LimitCapped(t *testing.T) {
	fake := &fakeHistoryStore{}
	h := NewHistoryHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/v1/history?name=Jane+Doe&university=MIT&limit=5000", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fake.gotLimit != maxHistoryLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxHistoryLimit, fake.gotLimit)
	}
}

func TestHistoryHandler_List_StoreError(t *testing.T) {
	h := NewHistoryHandler(&fakeHistoryStore{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/v1/history?name=Jane+Doe&university=MIT", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
