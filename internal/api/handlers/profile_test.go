package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"profverify/internal/domain"
	"profverify/internal/service"
	"profverify/internal/store"
)

type singleProfileStore struct {
	rec *domain.ProfileRecord
}

func (s singleProfileStore) FindProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	if s.rec != nil && s.rec.Name == name && s.rec.University == university {
		return s.rec, nil
	}
	return nil, store.ErrNotFound
}

func (s singleProfileStore) FindLegacyProfile(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return nil, store.ErrNotFound
}

func (s singleProfileStore) FindDirectoryProfessor(ctx context.Context, name, university string) (*domain.ProfileRecord, error) {
	return nil, store.ErrNotFound
}

func newTestProfileHandler(rec *domain.ProfileRecord) *ProfileHandler {
	resolver := service.NewProfileResolver(
		service.DefaultLookupStrategies(singleProfileStore{rec: rec}),
		zap.NewNop(),
	)
	return NewProfileHandler(resolver)
}

func TestProfileHandler_Get(t *testing.T) {
	h := newTestProfileHandler(&domain.ProfileRecord{
		Name: "Jane Doe", University: "MIT", Department: "CS", Title: "Professor",
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles?name=Jane+Doe&university=MIT", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got domain.ProfileRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Title != "Professor" || got.Department != "CS" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestProfileHandler_Get_NotFound(t *testing.T) {
	h := newTestProfileHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles?name=Nobody&university=Nowhere+U", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProfileHandler_Get_Validation(t *testing.T) {
	h := newTestProfileHandler(nil)

	for _, query := range []string{"", "name=Jane+Doe", "university=MIT"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/profiles?"+query, nil)
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for query %q, got %d", query, rec.Code)
		}
	}
}
