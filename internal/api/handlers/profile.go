package handlers

import (
	"net/http"
	"strings"

	"profverify/internal/service"
)

type ProfileHandler struct {
	resolver *service.ProfileResolver
}

func NewProfileHandler(resolver *service.ProfileResolver) *ProfileHandler {
	return &ProfileHandler{resolver: resolver}
}

// Get returns the stored profile for one person, consulting each
// storage layout in priority order.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	profile := h.resolver.Resolve(r.Context(), name, university)
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
