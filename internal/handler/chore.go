package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// ChoreHandler serves the chore catalog and its assignments to children.
type ChoreHandler struct {
	notifier
	svc    *family.Service
	logger *slog.Logger
}

func NewChoreHandler(svc *family.Service, hub *websocket.Hub, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{notifier: notifier{hub}, svc: svc, logger: logger}
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.svc.Chores()
	if err != nil {
		writeError(w, h.logger, "list chores", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(chores))
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req family.ChoreInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateChore(req)
	if err != nil {
		writeError(w, h.logger, "create chore", err)
		return
	}
	h.publish(websocket.EntityChore, websocket.ActionCreated, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req family.ChoreInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateChore(r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, "update chore", err)
		return
	}
	h.publish(websocket.EntityChore, websocket.ActionUpdated, c.ID)
	writeJSON(w, http.StatusOK, c)
}

// Delete removes the chore and its assignments. Completion history stays.
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteChoreCascade(id); err != nil {
		writeError(w, h.logger, "delete chore", err)
		return
	}
	h.publish(websocket.EntityChore, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChoreHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	as, err := h.svc.Assignments()
	if err != nil {
		writeError(w, h.logger, "list assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(as))
}

func (h *ChoreHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req family.AssignmentInput
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.CreateAssignment(req)
	if err != nil {
		writeError(w, h.logger, "create assignment", err)
		return
	}
	h.publish(websocket.EntityAssignment, websocket.ActionCreated, a.ID)
	writeJSON(w, http.StatusCreated, a)
}

func (h *ChoreHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req family.AssignmentInput
	if !decode(w, r, &req) {
		return
	}
	a, err := h.svc.UpdateAssignment(r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, "update assignment", err)
		return
	}
	h.publish(websocket.EntityAssignment, websocket.ActionUpdated, a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (h *ChoreHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteAssignment(id); err != nil {
		writeError(w, h.logger, "delete assignment", err)
		return
	}
	h.publish(websocket.EntityAssignment, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
