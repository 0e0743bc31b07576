package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kinboard-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VaultEnvelope wraps PIN verification and secret retrieval responses.
// AttemptsLeft is a pointer so "0 attempts left" survives serialization
// while non-verification responses omit the field entirely.
type VaultEnvelope struct {
	Success      bool       `json:"success"`
	Value        string     `json:"value,omitempty"`
	Error        string     `json:"error,omitempty"`
	Locked       bool       `json:"locked,omitempty"`
	AttemptsLeft *int       `json:"attempts_left,omitempty"`
	UnlockTime   *time.Time `json:"unlock_time,omitempty"`
}

// PinStatusEnvelope wraps the has-PIN status response.
type PinStatusEnvelope struct {
	HasPin bool `json:"has_pin"`
}

// SecretListEnvelope wraps masked secret listings.
type SecretListEnvelope struct {
	Data []domain.SecretEntry `json:"data"`
}

// EventListEnvelope wraps event listings.
type EventListEnvelope struct {
	Data []domain.Event `json:"data"`
}

// AttachmentEnvelope wraps attachment upload/download responses.
type AttachmentEnvelope struct {
	URL string `json:"url"`
}

// ChatEnvelope wraps assistant replies.
type ChatEnvelope struct {
	Reply string `json:"reply"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Unrecognized
// errors become opaque 500s so infrastructure detail never leaks to clients.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrLocked):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "backing store unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
