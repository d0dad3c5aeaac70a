package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"profverify/internal/service"
)

type VerifyHandler struct {
	svc *service.VerificationService
}

func NewVerifyHandler(svc *service.VerificationService) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

type verifyRequest struct {
	Name       string `json:"name"`
	University string `json:"university"`
}

func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.University = strings.TrimSpace(req.University)

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.University == "" {
		writeError(w, http.StatusBadRequest, "university is required")
		return
	}

	verdict := h.svc.Verify(r.Context(), req.Name, req.University)
	writeJSON(w, http.StatusOK, verdict)
}
