// Package handler exposes the chore tracker as a JSON API. Handlers decode
// the request, call one domain operation, broadcast a change notification
// and encode the result.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/completion"
	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/shop"
	"github.com/dukerupert/chorequest/internal/sidequest"
	"github.com/dukerupert/chorequest/internal/websocket"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

// statusFor maps domain sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, family.ErrNotFound),
		errors.Is(err, completion.ErrNotFound),
		errors.Is(err, sidequest.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, shop.ErrNotFound),
		errors.Is(err, shop.ErrUnknownAccessory):
		return http.StatusNotFound
	case errors.Is(err, family.ErrValidation),
		errors.Is(err, sidequest.ErrValidation),
		errors.Is(err, shop.ErrValidation),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInsufficientPoints),
		errors.Is(err, shop.ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, completion.ErrInvalidTransition),
		errors.Is(err, completion.ErrAlreadyPending),
		errors.Is(err, sidequest.ErrInvalidTransition),
		errors.Is(err, ledger.ErrAlreadyClaimed),
		errors.Is(err, family.ErrAlreadyInitialized),
		errors.Is(err, family.ErrNotInitialized),
		errors.Is(err, shop.ErrUnavailable),
		errors.Is(err, shop.ErrNotOwned):
		return http.StatusConflict
	case errors.Is(err, shop.ErrStoreClosed):
		return http.StatusForbidden
	case errors.Is(err, family.ErrInvalidPIN):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError reports err to the client. Unmapped errors are logged and
// hidden behind a generic message.
func writeError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(op, "error", err)
		writeJSON(w, status, map[string]string{"error": "failed to " + op})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// notifier broadcasts change notifications when a hub is attached.
type notifier struct {
	hub *websocket.Hub
}

func (n notifier) publish(entity, action, id string) {
	if n.hub != nil {
		n.hub.Publish(entity, action, id)
	}
}

// emptyIfNil keeps list endpoints returning [] rather than null.
func emptyIfNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
