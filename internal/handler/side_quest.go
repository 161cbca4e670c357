package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sidequest"
	"github.com/dukerupert/chorequest/internal/websocket"
)

type SideQuestHandler struct {
	notifier
	wf     *sidequest.Workflow
	logger *slog.Logger
}

func NewSideQuestHandler(wf *sidequest.Workflow, hub *websocket.Hub, logger *slog.Logger) *SideQuestHandler {
	return &SideQuestHandler{notifier: notifier{hub}, wf: wf, logger: logger}
}

func (h *SideQuestHandler) List(w http.ResponseWriter, r *http.Request) {
	qs, err := h.wf.List()
	if err != nil {
		writeError(w, h.logger, "list side quests", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(qs))
}

func (h *SideQuestHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	qs, err := h.wf.ListByChild(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "list side quests", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(qs))
}

func (h *SideQuestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	qs, err := h.wf.ListPending()
	if err != nil {
		writeError(w, h.logger, "list pending side quests", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(qs))
}

func (h *SideQuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sidequest.Input
	if !decode(w, r, &req) {
		return
	}
	q, err := h.wf.Create(req)
	if err != nil {
		writeError(w, h.logger, "create side quest", err)
		return
	}
	h.publish(websocket.EntitySideQuest, websocket.ActionCreated, q.ID)
	writeJSON(w, http.StatusCreated, q)
}

func (h *SideQuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req sidequest.Input
	if !decode(w, r, &req) {
		return
	}
	q, err := h.wf.Update(r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, "update side quest", err)
		return
	}
	h.publish(websocket.EntitySideQuest, websocket.ActionUpdated, q.ID)
	writeJSON(w, http.StatusOK, q)
}

func (h *SideQuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.wf.Delete(id); err != nil {
		writeError(w, h.logger, "delete side quest", err)
		return
	}
	h.publish(websocket.EntitySideQuest, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SideQuestHandler) MarkDone(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "mark side quest done", websocket.ActionUpdated, h.wf.MarkDone)
}

func (h *SideQuestHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "undo side quest", websocket.ActionUpdated, h.wf.Undo)
}

func (h *SideQuestHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "verify side quest", websocket.ActionVerified, h.wf.Verify)
}

func (h *SideQuestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, "reject side quest", websocket.ActionRejected, h.wf.Reject)
}

// step runs one status transition on the quest named in the path.
func (h *SideQuestHandler) step(w http.ResponseWriter, r *http.Request, op, action string, fn func(id string) (*model.SideQuest, error)) {
	q, err := fn(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, op, err)
		return
	}
	h.publish(websocket.EntitySideQuest, action, q.ID)
	if action == websocket.ActionVerified {
		h.publish(websocket.EntityChild, websocket.ActionUpdated, q.ChildID)
	}
	writeJSON(w, http.StatusOK, q)
}
