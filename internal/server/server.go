// Package server wires the domain services to HTTP routes.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/completion"
	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/handler"
	"github.com/dukerupert/chorequest/internal/ledger"
	"github.com/dukerupert/chorequest/internal/middleware"
	"github.com/dukerupert/chorequest/internal/shop"
	"github.com/dukerupert/chorequest/internal/sidequest"
	"github.com/dukerupert/chorequest/internal/store"
	ws "github.com/dukerupert/chorequest/internal/websocket"
)

// PIN attempts allowed per client per minute.
const pinAttemptsPerMinute = 10

// Services are the domain components behind the API.
type Services struct {
	Family      *family.Service
	Completions *completion.Workflow
	SideQuests  *sidequest.Workflow
	Ledger      *ledger.Ledger
	Shop        *shop.Shop
}

// NewServices builds every domain service over one set of stores.
func NewServices(stores *store.Stores, catalog *shop.Catalog, clk clock.Clock, logger *slog.Logger) Services {
	return Services{
		Family:      family.New(stores, clk, logger.With("component", "family")),
		Completions: completion.New(stores, clk, logger.With("component", "completion")),
		SideQuests:  sidequest.New(stores, clk, logger.With("component", "sidequest")),
		Ledger:      ledger.New(stores, clk, logger.With("component", "ledger")),
		Shop:        shop.New(stores, catalog, clk, logger.With("component", "shop")),
	}
}

type Server struct {
	svc         Services
	hub         *ws.Hub
	familyH     *handler.FamilyHandler
	choreH      *handler.ChoreHandler
	completionH *handler.CompletionHandler
	sideQuestH  *handler.SideQuestHandler
	rewardH     *handler.RewardHandler
	shopH       *handler.ShopHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(svc Services, hub *ws.Hub, sessionTTL time.Duration, logger *slog.Logger) *Server {
	return &Server{
		svc:         svc,
		hub:         hub,
		familyH:     handler.NewFamilyHandler(svc.Family, hub, sessionTTL, logger.With("component", "family_handler")),
		choreH:      handler.NewChoreHandler(svc.Family, hub, logger.With("component", "chore_handler")),
		completionH: handler.NewCompletionHandler(svc.Completions, hub, logger.With("component", "completion_handler")),
		sideQuestH:  handler.NewSideQuestHandler(svc.SideQuests, hub, logger.With("component", "side_quest_handler")),
		rewardH:     handler.NewRewardHandler(svc.Ledger, hub, logger.With("component", "reward_handler")),
		shopH:       handler.NewShopHandler(svc.Shop, hub, logger.With("component", "shop_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the PIN rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	s.registerPublicRoutes(mux)
	s.registerAdminRoutes(mux)

	h := middleware.LoadSession(s.svc.Family, s.logger.With("component", "auth"))(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP, pinAttemptsPerMinute, time.Minute)(h)
}

// registerPublicRoutes covers what the child-facing views use without a
// PIN: reading boards, marking chores and quests done, and the store.
func (s *Server) registerPublicRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	mux.HandleFunc("GET /api/setup", s.familyH.SetupStatus)
	mux.HandleFunc("POST /api/setup", s.familyH.Setup)
	mux.Handle("POST /api/admin/login", s.rateLimited(s.familyH.Login))
	mux.Handle("POST /api/admin/verify-pin", s.rateLimited(s.familyH.VerifyPIN))
	mux.HandleFunc("POST /api/admin/logout", s.familyH.Logout)
	mux.HandleFunc("GET /api/admin/session", s.familyH.AdminStatus)

	mux.HandleFunc("GET /api/family", s.familyH.Snapshot)
	mux.HandleFunc("GET /api/children", s.familyH.ListChildren)
	mux.HandleFunc("GET /api/children/{id}", s.familyH.GetChild)
	mux.HandleFunc("GET /api/children/{id}/board", s.familyH.Board)
	mux.HandleFunc("GET /api/time-periods", s.familyH.ListTimePeriods)
	mux.HandleFunc("GET /api/time-periods/active", s.familyH.ActivePeriod)
	mux.HandleFunc("GET /api/chores", s.choreH.List)

	mux.HandleFunc("POST /api/assignments/{id}/complete", s.completionH.Complete)
	mux.HandleFunc("DELETE /api/completions/{id}", s.completionH.Undo)
	mux.HandleFunc("GET /api/completions/today", s.completionH.Today)

	mux.HandleFunc("GET /api/children/{id}/side-quests", s.sideQuestH.ListByChild)
	mux.HandleFunc("POST /api/side-quests/{id}/done", s.sideQuestH.MarkDone)
	mux.HandleFunc("POST /api/side-quests/{id}/undo", s.sideQuestH.Undo)

	mux.HandleFunc("GET /api/rewards", s.rewardH.List)
	mux.HandleFunc("GET /api/rewards/next", s.rewardH.Next)

	mux.HandleFunc("GET /api/store", s.shopH.Status)
	mux.HandleFunc("GET /api/accessories", s.shopH.Catalog)
	mux.HandleFunc("GET /api/children/{id}/accessories", s.shopH.ChildAccessories)
	mux.HandleFunc("GET /api/children/{id}/purchases", s.shopH.Purchases)
	mux.HandleFunc("POST /api/children/{id}/accessories/{accessory}/purchase", s.shopH.Purchase)
	mux.HandleFunc("POST /api/children/{id}/accessories/{accessory}/select", s.shopH.Select)
}

// registerAdminRoutes covers every mutation gated behind the admin PIN.
func (s *Server) registerAdminRoutes(mux *http.ServeMux) {
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}

	admin("PUT /api/admin/pin", s.familyH.ChangePIN)
	admin("PUT /api/settings", s.familyH.UpdateSettings)
	admin("POST /api/admin/archive", s.familyH.Archive)
	admin("POST /api/admin/reset", s.familyH.Reset)

	admin("POST /api/children", s.familyH.CreateChild)
	admin("PUT /api/children/{id}", s.familyH.UpdateChild)
	admin("DELETE /api/children/{id}", s.familyH.DeleteChild)
	admin("GET /api/children/{id}/completions", s.completionH.History)
	admin("PUT /api/time-periods/{id}", s.familyH.UpdateTimePeriod)

	admin("POST /api/chores", s.choreH.Create)
	admin("PUT /api/chores/{id}", s.choreH.Update)
	admin("DELETE /api/chores/{id}", s.choreH.Delete)
	admin("GET /api/assignments", s.choreH.ListAssignments)
	admin("POST /api/assignments", s.choreH.CreateAssignment)
	admin("PUT /api/assignments/{id}", s.choreH.UpdateAssignment)
	admin("DELETE /api/assignments/{id}", s.choreH.DeleteAssignment)

	admin("GET /api/completions/pending", s.completionH.ListPending)
	admin("POST /api/completions/verify-all", s.completionH.VerifyAll)
	admin("POST /api/completions/{id}/verify", s.completionH.Verify)
	admin("POST /api/completions/{id}/reject", s.completionH.Reject)

	admin("GET /api/side-quests", s.sideQuestH.List)
	admin("GET /api/side-quests/pending", s.sideQuestH.ListPending)
	admin("POST /api/side-quests", s.sideQuestH.Create)
	admin("PUT /api/side-quests/{id}", s.sideQuestH.Update)
	admin("DELETE /api/side-quests/{id}", s.sideQuestH.Delete)
	admin("POST /api/side-quests/{id}/verify", s.sideQuestH.Verify)
	admin("POST /api/side-quests/{id}/reject", s.sideQuestH.Reject)

	admin("POST /api/rewards", s.rewardH.Create)
	admin("PUT /api/rewards/{id}", s.rewardH.Update)
	admin("DELETE /api/rewards/{id}", s.rewardH.Delete)
	admin("POST /api/rewards/{id}/claim", s.rewardH.Claim)
	admin("POST /api/rewards/{id}/reset", s.rewardH.Reset)

	admin("PUT /api/accessories/{accessory}", s.shopH.UpdateSetting)
	admin("PUT /api/store/schedule", s.shopH.SetSchedule)
	admin("DELETE /api/store/schedule", s.shopH.ClearSchedule)
}
