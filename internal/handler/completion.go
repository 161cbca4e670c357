package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/completion"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// CompletionHandler serves marking chores done and the verification center.
type CompletionHandler struct {
	notifier
	wf     *completion.Workflow
	logger *slog.Logger
}

func NewCompletionHandler(wf *completion.Workflow, hub *websocket.Hub, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{notifier: notifier{hub}, wf: wf, logger: logger}
}

// Complete marks an assignment's chore done for today.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	c, err := h.wf.MarkComplete(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "mark chore complete", err)
		return
	}
	h.publish(websocket.EntityCompletion, websocket.ActionCreated, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// Undo lets a child take back a completion that has not been verified.
func (h *CompletionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.wf.MarkIncomplete(id); err != nil {
		writeError(w, h.logger, "mark chore incomplete", err)
		return
	}
	h.publish(websocket.EntityCompletion, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompletionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.wf.ListPending()
	if err != nil {
		writeError(w, h.logger, "list pending completions", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(pending))
}

func (h *CompletionHandler) Today(w http.ResponseWriter, r *http.Request) {
	cs, err := h.wf.Today()
	if err != nil {
		writeError(w, h.logger, "list today's completions", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(cs))
}

func (h *CompletionHandler) History(w http.ResponseWriter, r *http.Request) {
	cs, err := h.wf.History(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "list completion history", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(cs))
}

// Verify awards points for a pending completion. An optional body
// {"points": n} overrides the chore's value.
func (h *CompletionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Points *int `json:"points"`
	}
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	c, err := h.wf.Verify(r.PathValue("id"), req.Points)
	if err != nil {
		writeError(w, h.logger, "verify completion", err)
		return
	}
	h.publish(websocket.EntityCompletion, websocket.ActionVerified, c.ID)
	h.publish(websocket.EntityChild, websocket.ActionUpdated, c.ChildID)
	writeJSON(w, http.StatusOK, c)
}

func (h *CompletionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.wf.Reject(id); err != nil {
		writeError(w, h.logger, "reject completion", err)
		return
	}
	h.publish(websocket.EntityCompletion, websocket.ActionRejected, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompletionHandler) VerifyAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.wf.VerifyAll()
	if n > 0 {
		h.publish(websocket.EntityCompletion, websocket.ActionVerified, "")
		h.publish(websocket.EntityChild, websocket.ActionUpdated, "")
	}
	if err != nil {
		writeError(w, h.logger, "verify all completions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"verified": n})
}

// decodeOptional decodes a JSON body, treating an empty body as no input.
func decodeOptional(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
