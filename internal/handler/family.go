package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorequest/internal/auth"
	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/middleware"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// FamilyHandler serves setup, admin login, children, time periods and
// family-wide settings.
type FamilyHandler struct {
	notifier
	svc        *family.Service
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewFamilyHandler(svc *family.Service, hub *websocket.Hub, sessionTTL time.Duration, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{notifier: notifier{hub}, svc: svc, sessionTTL: sessionTTL, logger: logger}
}

func (h *FamilyHandler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.Initialized()
	if err != nil {
		writeError(w, h.logger, "check setup", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"initialized": ok})
}

func (h *FamilyHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req family.SetupInput
	if !decode(w, r, &req) {
		return
	}
	f, err := h.svc.Setup(req)
	if err != nil {
		writeError(w, h.logger, "set up family", err)
		return
	}
	h.publish(websocket.EntityFamily, websocket.ActionCreated, f.ID)
	writeJSON(w, http.StatusCreated, f)
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// Login exchanges the admin PIN for a session token, returned in the body
// and as a cookie.
func (h *FamilyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.svc.Login(req.PIN, h.sessionTTL)
	if err != nil {
		writeError(w, h.logger, "log in", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sess)
}

func (h *FamilyHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := middleware.TokenFromRequest(r); tok != "" {
		if err := h.svc.Logout(tok); err != nil {
			writeError(w, h.logger, "log out", err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// VerifyPIN checks the PIN without opening a session.
func (h *FamilyHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.VerifyAdminPIN(req.PIN); err != nil {
		writeError(w, h.logger, "verify PIN", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// AdminStatus reports whether the caller holds an admin session.
func (h *FamilyHandler) AdminStatus(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	resp := map[string]any{"admin": ok}
	if ok {
		resp["expires_at"] = ac.ExpiresAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *FamilyHandler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current_pin"`
		New     string `json:"new_pin"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ChangeAdminPIN(req.Current, req.New); err != nil {
		writeError(w, h.logger, "change PIN", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		writeError(w, h.logger, "load family", err)
		return
	}
	snap.Children = emptyIfNil(snap.Children)
	snap.Chores = emptyIfNil(snap.Chores)
	snap.Assignments = emptyIfNil(snap.Assignments)
	snap.Rewards = emptyIfNil(snap.Rewards)
	writeJSON(w, http.StatusOK, snap)
}

func (h *FamilyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StreakBonusPoints int `json:"streak_bonus_points"`
	}
	if !decode(w, r, &req) {
		return
	}
	f, err := h.svc.SetStreakBonusPoints(req.StreakBonusPoints)
	if err != nil {
		writeError(w, h.logger, "update settings", err)
		return
	}
	h.publish(websocket.EntityFamily, websocket.ActionUpdated, f.ID)
	writeJSON(w, http.StatusOK, f)
}

// Archive stamps completions older than the given number of days.
func (h *FamilyHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OlderThanDays int `json:"older_than_days"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.OlderThanDays < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "older_than_days must be positive"})
		return
	}
	n, err := h.svc.ArchiveOlderThan(time.Duration(req.OlderThanDays) * 24 * time.Hour)
	if err != nil {
		writeError(w, h.logger, "archive completions", err)
		return
	}
	if n > 0 {
		h.publish(websocket.EntityCompletion, websocket.ActionUpdated, "")
	}
	writeJSON(w, http.StatusOK, map[string]int64{"archived": n})
}

func (h *FamilyHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(); err != nil {
		writeError(w, h.logger, "reset data", err)
		return
	}
	h.publish(websocket.EntityFamily, websocket.ActionReset, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.svc.Children()
	if err != nil {
		writeError(w, h.logger, "list children", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(children))
}

func (h *FamilyHandler) GetChild(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Child(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "get child", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *FamilyHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req family.ChildInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateChild(req)
	if err != nil {
		writeError(w, h.logger, "create child", err)
		return
	}
	h.publish(websocket.EntityChild, websocket.ActionCreated, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *FamilyHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	var req family.ChildInput
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateChild(r.PathValue("id"), req)
	if err != nil {
		writeError(w, h.logger, "update child", err)
		return
	}
	h.publish(websocket.EntityChild, websocket.ActionUpdated, c.ID)
	writeJSON(w, http.StatusOK, c)
}

func (h *FamilyHandler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteChildCascade(id); err != nil {
		writeError(w, h.logger, "delete child", err)
		return
	}
	h.publish(websocket.EntityChild, websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyHandler) Board(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Board(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "load board", err)
		return
	}
	b.Current = emptyIfNil(b.Current)
	b.Today = emptyIfNil(b.Today)
	writeJSON(w, http.StatusOK, b)
}

func (h *FamilyHandler) ListTimePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.TimePeriods()
	if err != nil {
		writeError(w, h.logger, "list time periods", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(periods))
}

func (h *FamilyHandler) ActivePeriod(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ActivePeriod()
	if err != nil {
		writeError(w, h.logger, "get active period", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.TimePeriod{"active_period": p})
}

func (h *FamilyHandler) UpdateTimePeriod(w http.ResponseWriter, r *http.Request) {
	var req family.PeriodInput
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdateTimePeriod(model.TimePeriodID(r.PathValue("id")), req)
	if err != nil {
		writeError(w, h.logger, "update time period", err)
		return
	}
	h.publish(websocket.EntityTimePeriod, websocket.ActionUpdated, string(p.ID))
	writeJSON(w, http.StatusOK, p)
}
