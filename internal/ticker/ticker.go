// Package ticker re-evaluates time-dependent state on an interval: it
// announces time period transitions, archives old completions once a day
// and purges expired admin sessions.
package ticker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/schedule"
	"github.com/dukerupert/chorequest/internal/websocket"
)

// Publisher receives change notifications. *websocket.Hub implements it.
type Publisher interface {
	Publish(entity, action, id string)
}

type Ticker struct {
	mu           sync.RWMutex
	family       *family.Service
	pub          Publisher
	clock        clock.Clock
	logger       *slog.Logger
	interval     time.Duration
	archiveAfter time.Duration
	cancel       context.CancelFunc
	done         chan struct{}

	seen        bool
	period      string
	archivedDay string
}

func New(svc *family.Service, pub Publisher, clk clock.Clock, logger *slog.Logger, interval time.Duration, archiveAfterDays int) *Ticker {
	return &Ticker{
		family:       svc,
		pub:          pub,
		clock:        clk,
		logger:       logger,
		interval:     interval,
		archiveAfter: time.Duration(archiveAfterDays) * 24 * time.Hour,
	}
}

// Start runs one tick immediately and then one per interval until ctx is
// cancelled or Stop is called.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	t.mu.Unlock()

	go func() {
		defer close(t.done)
		t.tick()

		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				t.tick()
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight tick to finish.
func (t *Ticker) Stop() {
	t.mu.RLock()
	cancel := t.cancel
	done := t.done
	t.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (t *Ticker) tick() {
	ok, err := t.family.Initialized()
	if err != nil {
		t.logger.Error("check initialized", "error", err)
		return
	}
	if !ok {
		return
	}
	t.checkPeriod()
	t.archive()
	t.purgeSessions()
}

func (t *Ticker) checkPeriod() {
	p, err := t.family.ActivePeriod()
	if err != nil {
		if !errors.Is(err, family.ErrNotInitialized) {
			t.logger.Error("evaluate active period", "error", err)
		}
		return
	}
	id := ""
	if p != nil {
		id = string(p.ID)
	}
	if t.seen && id == t.period {
		return
	}
	first := !t.seen
	t.seen = true
	t.period = id
	if first {
		return
	}
	t.logger.Info("time period changed", "period", id)
	t.pub.Publish(websocket.EntityPeriod, websocket.ActionChanged, id)
}

func (t *Ticker) archive() {
	now := t.clock.Now()
	day := schedule.DateKey(now)
	if day == t.archivedDay {
		return
	}
	n, err := t.family.ArchiveOlderThan(t.archiveAfter)
	if err != nil {
		t.logger.Error("archive completions", "error", err)
		return
	}
	t.archivedDay = day
	if n > 0 {
		t.pub.Publish(websocket.EntityCompletion, websocket.ActionUpdated, "")
	}
}

func (t *Ticker) purgeSessions() {
	n, err := t.family.PurgeExpiredSessions()
	if err != nil {
		t.logger.Error("purge sessions", "error", err)
		return
	}
	if n > 0 {
		t.logger.Debug("expired sessions purged", "count", n)
	}
}
