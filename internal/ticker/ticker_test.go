package ticker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/chorequest/internal/database"
	"github.com/dukerupert/chorequest/internal/family"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/store"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Publish(entity, action, id string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, entity+"_"+action+":"+id)
	r.mu.Unlock()
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

// 2026-10-19 is a Monday.
func at(hour, min int) time.Time {
	return time.Date(2026, 10, 19, hour, min, 0, 0, time.UTC)
}

func setup(t *testing.T, start time.Time, initialize bool) (*Ticker, *stepClock, *recorder, *store.Stores) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := &stepClock{now: start}
	stores := store.New(db)
	svc := family.New(stores, clk, logger)
	if initialize {
		if _, err := svc.Setup(family.SetupInput{PIN: "1234"}); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	rec := &recorder{}
	return New(svc, rec, clk, logger, time.Minute, 30), clk, rec, stores
}

func TestPeriodTransitions(t *testing.T) {
	tk, clk, rec, _ := setup(t, at(8, 0), true)

	tk.tick()
	if got := rec.take(); len(got) != 0 {
		t.Errorf("first tick published %v, want nothing", got)
	}

	clk.Set(at(8, 59))
	tk.tick()
	if got := rec.take(); len(got) != 0 {
		t.Errorf("same period published %v, want nothing", got)
	}

	clk.Set(at(9, 0))
	tk.tick()
	if got := rec.take(); len(got) != 1 || got[0] != "period_changed:daytime" {
		t.Errorf("published %v, want [period_changed:daytime]", got)
	}

	clk.Set(at(21, 30))
	tk.tick()
	if got := rec.take(); len(got) != 1 || got[0] != "period_changed:" {
		t.Errorf("published %v, want [period_changed:]", got)
	}
}

func TestArchivesOncePerDay(t *testing.T) {
	tk, clk, rec, stores := setup(t, at(8, 0), true)
	f, _ := stores.Families.Get()
	old, err := stores.Completions.Create(&model.Completion{
		FamilyID: f.ID, AssignmentID: "a", ChildID: "c", ChoreID: "x", CompletedAt: at(8, 0).AddDate(0, 0, -31),
	})
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}

	tk.tick()
	got, _ := stores.Completions.GetByID(old.ID)
	if got.ArchivedAt == nil {
		t.Fatal("expected completion archived")
	}
	if msgs := rec.take(); len(msgs) != 1 || msgs[0] != "completion_updated:" {
		t.Errorf("published %v, want [completion_updated:]", msgs)
	}

	// Becomes old enough later the same day, but archiving already ran.
	stale, _ := stores.Completions.Create(&model.Completion{
		FamilyID: f.ID, AssignmentID: "a", ChildID: "c", ChoreID: "x", CompletedAt: at(8, 30).AddDate(0, 0, -30),
	})
	clk.Set(at(8, 45))
	tk.tick()
	got, _ = stores.Completions.GetByID(stale.ID)
	if got.ArchivedAt != nil {
		t.Error("archived twice in one day")
	}

	clk.Set(at(8, 0).AddDate(0, 0, 1))
	tk.tick()
	got, _ = stores.Completions.GetByID(stale.ID)
	if got.ArchivedAt == nil {
		t.Error("expected archive on the next day")
	}
}

func TestPurgesExpiredSessions(t *testing.T) {
	tk, clk, _, stores := setup(t, at(8, 0), true)
	sess, err := stores.Sessions.Create(at(8, 0), time.Minute)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	clk.Set(at(8, 5))
	tk.tick()

	// Look up with a time before expiry so only deletion can hide it.
	got, err := stores.Sessions.Get(sess.Token, at(8, 0))
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got != nil {
		t.Error("expected expired session purged")
	}
}

func TestUninitializedIsQuiet(t *testing.T) {
	tk, _, rec, _ := setup(t, at(8, 0), false)
	tk.tick()
	if got := rec.take(); len(got) != 0 {
		t.Errorf("published %v, want nothing", got)
	}
}

func TestStartStop(t *testing.T) {
	tk, _, _, _ := setup(t, at(8, 0), true)
	tk.Start(context.Background())
	tk.Stop()
	// Stopping twice must not block.
	tk.Stop()
}
