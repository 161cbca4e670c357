package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInconsistent reports a unit of work whose outcome is unknown: the
// commit failed or the rollback after a failure did not complete.
var ErrInconsistent = errors.New("inconsistent state")

// DBTX is the subset of *sql.DB and *sql.Tx the stores need.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type scanner interface{ Scan(...any) error }

// Stores bundles every entity store over one connection or transaction.
type Stores struct {
	db *sql.DB
	tx *sql.Tx

	Families    *FamilyStore
	Children    *ChildStore
	Chores      *ChoreStore
	Assignments *AssignmentStore
	Completions *CompletionStore
	TimePeriods *TimePeriodStore
	SideQuests  *SideQuestStore
	Rewards     *RewardStore
	Shop        *ShopStore
	Sessions    *SessionStore
}

func New(db *sql.DB) *Stores {
	s := bind(db)
	s.db = db
	return s
}

func bind(conn DBTX) *Stores {
	return &Stores{
		Families:    NewFamilyStore(conn),
		Children:    NewChildStore(conn),
		Chores:      NewChoreStore(conn),
		Assignments: NewAssignmentStore(conn),
		Completions: NewCompletionStore(conn),
		TimePeriods: NewTimePeriodStore(conn),
		SideQuests:  NewSideQuestStore(conn),
		Rewards:     NewRewardStore(conn),
		Shop:        NewShopStore(conn),
		Sessions:    NewSessionStore(conn),
	}
}

// InTx runs fn against stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise. Calls
// nested inside an open transaction join it.
func (s *Stores) InTx(fn func(tx *Stores) error) error {
	if s.tx != nil || s.db == nil {
		return fn(s)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txs := bind(tx)
	txs.tx = tx

	if err := fn(txs); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: rollback: %v: %w", ErrInconsistent, rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrInconsistent, err)
	}
	return nil
}

// Reset deletes every record. Used for the full data wipe.
func (s *Stores) Reset() error {
	return s.InTx(func(tx *Stores) error {
		tables := []string{
			"admin_sessions",
			"purchased_accessories",
			"accessory_settings",
			"store_schedules",
			"family_rewards",
			"side_quests",
			"time_periods",
			"completions",
			"chore_assignments",
			"chores",
			"children",
			"families",
		}
		for _, t := range tables {
			if _, err := tx.conn().Exec(`DELETE FROM ` + t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}

func (s *Stores) conn() DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func newID() string {
	return uuid.NewString()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
