package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/shop"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// ShopHandler serves the avatar store.
type ShopHandler struct {
	notifier
	shop   *shop.Shop
	logger *slog.Logger
}

func NewShopHandler(s *shop.Shop, hub *websocket.Hub, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{notifier: notifier{hub}, shop: s, logger: logger}
}

// Status reports whether the store is open and its schedule, if any.
func (h *ShopHandler) Status(w http.ResponseWriter, r *http.Request) {
	open, err := h.shop.IsOpen()
	if err != nil {
		writeError(w, h.logger, "check store hours", err)
		return
	}
	sched, err := h.shop.Schedule()
	if err != nil {
		writeError(w, h.logger, "load store schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"open": open, "schedule": sched})
}

// Catalog lists accessories with the family's overrides; without a child
// nothing is flagged as owned.
func (h *ShopHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	h.accessories(w, "")
}

func (h *ShopHandler) ChildAccessories(w http.ResponseWriter, r *http.Request) {
	h.accessories(w, r.PathValue("id"))
}

func (h *ShopHandler) accessories(w http.ResponseWriter, childID string) {
	items, err := h.shop.Accessories(childID)
	if err != nil {
		writeError(w, h.logger, "list accessories", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(items))
}

func (h *ShopHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	ps, err := h.shop.Purchases(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "list purchases", err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(ps))
}

func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	res, err := h.shop.Purchase(r.PathValue("id"), r.PathValue("accessory"))
	if err != nil {
		writeError(w, h.logger, "purchase accessory", err)
		return
	}
	h.publish(websocket.EntityChild, websocket.ActionUpdated, res.Child.ID)
	writeJSON(w, http.StatusOK, res)
}

func (h *ShopHandler) Select(w http.ResponseWriter, r *http.Request) {
	res, err := h.shop.Select(r.PathValue("id"), r.PathValue("accessory"))
	if err != nil {
		writeError(w, h.logger, "select accessory", err)
		return
	}
	h.publish(websocket.EntityChild, websocket.ActionUpdated, res.Child.ID)
	writeJSON(w, http.StatusOK, res)
}

// UpdateSetting overrides an accessory's price or availability.
func (h *ShopHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PointCost *int  `json:"point_cost"`
		Available *bool `json:"available"`
	}
	if !decode(w, r, &req) {
		return
	}
	st := model.AccessorySetting{
		AccessoryID: r.PathValue("accessory"),
		PointCost:   req.PointCost,
		Available:   req.Available == nil || *req.Available,
	}
	if err := h.shop.SetAccessorySetting(st); err != nil {
		writeError(w, h.logger, "update accessory", err)
		return
	}
	h.publish(websocket.EntityAccessory, websocket.ActionUpdated, st.AccessoryID)
	writeJSON(w, http.StatusOK, st)
}

func (h *ShopHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DaysOfWeek model.Weekdays `json:"days_of_week"`
		StartTime  string         `json:"start_time"`
		EndTime    string         `json:"end_time"`
	}
	if !decode(w, r, &req) {
		return
	}
	sched, err := h.shop.SetSchedule(req.DaysOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, h.logger, "set store schedule", err)
		return
	}
	h.publish(websocket.EntityStoreSchedule, websocket.ActionUpdated, sched.FamilyID)
	writeJSON(w, http.StatusOK, sched)
}

// ClearSchedule leaves the store open at all times.
func (h *ShopHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.ClearSchedule(); err != nil {
		writeError(w, h.logger, "clear store schedule", err)
		return
	}
	h.publish(websocket.EntityStoreSchedule, websocket.ActionDeleted, "")
	w.WriteHeader(http.StatusNoContent)
}
