package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kinboard-api/internal/application/assistant"
	"github.com/kinboard-api/internal/pkg/validate"
	"github.com/kinboard-api/internal/transport/http/middleware"
)

// AssistantHandler exposes the calendar-aware chat endpoint.
type AssistantHandler struct {
	svc assistant.Service
}

func NewAssistantHandler(svc assistant.Service) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	var req assistant.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	reply, err := h.svc.Chat(r.Context(), claims.FamilyID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatEnvelope{Reply: reply})
}
