package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// RewardHandler serves the shared family rewards paid from the point pool.
type RewardHandler struct {
	notifier
	ledger *ledger.Ledger
	logger *slog.Logger
}

func NewRewardHandler(l *ledger.Ledger, hub *websocket.Hub, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{notifier: notifier{hub}, ledger: l, logger: logger}
}

type rewardRequest struct {
	Description    string `json:"description"`
	PointThreshold int    `json:"point_threshold"`
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.ledger.Rewards()
	if err != nil {
		writeError(w, h.logger, "list rewards", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(rewards))
}

// Next reports progress toward the cheapest unclaimed reward; the
// progress is null when every reward is claimed.
func (h *RewardHandler) Next(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.NextReward()
	if err != nil {
		writeError(w, h.logger, "get next reward", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"next": p})
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decode(w, r, &req) {
		return
	}
	rw, err := h.ledger.CreateReward(req.Description, req.PointThreshold)
	if err != nil {
		writeError(w, h.logger, "create reward", err)
		return
	}
	h.publish(websocket.EntityFamilyReward, websocket.ActionCreated, rw.ID)
	writeJSON(w, http.StatusCreated, rw)
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !decode(w, r, &req) {
		return
	}
	rw, err := h.ledger.UpdateReward(r.PathValue("id"), req.Description, req.PointThreshold)
	if err != nil {
		writeError(w, h.logger, "update reward", err)
		return
	}
	h.publish(websocket.EntityFamilyReward, websocket.ActionUpdated, rw.ID)
	writeJSON(w, http.StatusOK, rw)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.ledger.DeleteReward(id); err != nil {
		writeError(w, h.logger, "delete reward", err)
		return
	}
	h.publish(websocket.EntityFamilyReward, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Claim spends the reward's threshold from the family pool.
func (h *RewardHandler) Claim(w http.ResponseWriter, r *http.Request) {
	rw, err := h.ledger.ClaimFamilyReward(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "claim reward", err)
		return
	}
	h.publish(websocket.EntityFamilyReward, websocket.ActionClaimed, rw.ID)
	h.publish(websocket.EntityFamily, websocket.ActionUpdated, rw.FamilyID)
	writeJSON(w, http.StatusOK, rw)
}

func (h *RewardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	rw, err := h.ledger.ResetFamilyReward(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "reset reward", err)
		return
	}
	h.publish(websocket.EntityFamilyReward, websocket.ActionReset, rw.ID)
	writeJSON(w, http.StatusOK, rw)
}
