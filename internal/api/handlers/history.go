package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"profverify/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	store domain.HistoryStore
}

func NewHistoryHandler(store domain.HistoryStore) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// List returns past verification outcomes for one person, newest
// first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	university := strings.TrimSpace(r.URL.Query().Get("university"))

	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if university == "" {
		writeError(w, http.StatusBadRequest, "university is required")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	records, err := h.store.ListByPerson(r.Context(), name, university, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":       name,
		"university": university,
		"records":    records,
	})
}
