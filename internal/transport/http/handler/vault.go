package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kinboard-api/internal/application/vault"
	"github.com/kinboard-api/internal/domain"
	"github.com/kinboard-api/internal/pkg/validate"
	"github.com/kinboard-api/internal/transport/http/middleware"
)

// VaultHandler handles the secure vault endpoints: masked CRUD on secrets,
// PIN management and the PIN-gated reveal path.
type VaultHandler struct {
	secrets *vault.SecretService
	pins    *vault.PinManager
	access  *vault.AccessController
}

func NewVaultHandler(secrets *vault.SecretService, pins *vault.PinManager, access *vault.AccessController) *VaultHandler {
	return &VaultHandler{secrets: secrets, pins: pins, access: access}
}

// ListSecrets returns the caller's masked secret entries. No PIN required:
// everything in the response is already redacted.
func (h *VaultHandler) ListSecrets(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	entries, err := h.secrets.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.SecretEntry{}
	}
	writeJSON(w, http.StatusOK, SecretListEnvelope{Data: entries})
}

func (h *VaultHandler) SaveSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	var req domain.SaveSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.secrets.Save(r.Context(), claims.UserID, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "secret saved"})
}

func (h *VaultHandler) DeleteSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	category := chi.URLParam(r, "category")
	key := chi.URLParam(r, "key")
	if err := h.secrets.Delete(r.Context(), claims.UserID, category, key); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "secret deleted"})
}

func (h *VaultHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	var req domain.SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.pins.SetPin(r.Context(), claims.UserID, req.Pin); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "PIN set"})
}

func (h *VaultHandler) PinStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	has, err := h.pins.HasPin(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PinStatusEnvelope{HasPin: has})
}

// VerifyPin checks the supplied PIN without revealing anything.
func (h *VaultHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	var req domain.VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.access.VerifyPin(r.Context(), claims.UserID, req.Pin)
	if err != nil {
		httpError(w, err)
		return
	}
	status, env := verifyEnvelope(res)
	writeJSON(w, status, env)
}

// RevealSecret is the verify-and-fetch path: the only endpoint that returns
// an unmasked secret value.
func (h *VaultHandler) RevealSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	var req domain.RevealSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := h.access.GetSecretWithPin(r.Context(), claims.UserID, req.Pin, req.Category, req.Key)
	if err != nil {
		httpError(w, err)
		return
	}
	if !res.Success && res.NotFound {
		// Verification passed but the secret is absent: plain not-found,
		// without any lockout bookkeeping in the response.
		writeJSON(w, http.StatusNotFound, VaultEnvelope{Success: false, Error: "secret not found"})
		return
	}
	if !res.Success {
		status, env := verifyEnvelope(res.Verify)
		writeJSON(w, status, env)
		return
	}
	writeJSON(w, http.StatusOK, VaultEnvelope{Success: true, Value: res.Value})
}

// verifyEnvelope maps a verification result to a status code and response
// body: 200 on success, 429 while locked, 401 otherwise.
func verifyEnvelope(res domain.VerifyResult) (int, VaultEnvelope) {
	if res.Valid {
		return http.StatusOK, VaultEnvelope{Success: true}
	}
	env := VaultEnvelope{
		Success: false,
		Error:   res.Message,
		Locked:  res.Locked,
	}
	if res.Locked {
		t := res.UnlockTime
		env.UnlockTime = &t
		zero := 0
		env.AttemptsLeft = &zero
		return http.StatusTooManyRequests, env
	}
	if !res.NoPinSet {
		left := res.AttemptsLeft
		env.AttemptsLeft = &left
	}
	return http.StatusUnauthorized, env
}
