// Package family is the application's aggregate root. It owns first-run
// setup, the admin PIN, and every admin edit to children, chores,
// assignments and schedules, and builds the read models the views render.
package family

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/chorequest/internal/clock"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/schedule"
	"github.com/dukerupert/chorequest/internal/store"
)

const DefaultStreakBonusPoints = 50

type Service struct {
	stores  *store.Stores
	clock   clock.Clock
	logger  *slog.Logger
	pinCost int
}

func New(stores *store.Stores, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{stores: stores, clock: clk, logger: logger, pinCost: bcrypt.DefaultCost}
}

type ChildInput struct {
	Name         string             `json:"name"`
	AvatarConfig model.AvatarConfig `json:"avatar_config"`
}

type SetupInput struct {
	PIN               string       `json:"pin"`
	Children          []ChildInput `json:"children"`
	StreakBonusPoints *int         `json:"streak_bonus_points"`
}

// Initialized reports whether first-run setup has happened.
func (s *Service) Initialized() (bool, error) {
	f, err := s.stores.Families.Get()
	if err != nil {
		return false, err
	}
	return f != nil, nil
}

// Family returns the install's family.
func (s *Service) Family() (*model.Family, error) {
	f, err := s.stores.Families.Get()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotInitialized
	}
	return f, nil
}

// Setup creates the family, its default time periods and the first
// children in one transaction.
func (s *Service) Setup(in SetupInput) (*model.Family, error) {
	if err := ValidatePIN(in.PIN); err != nil {
		return nil, err
	}
	for _, c := range in.Children {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: child name is required", ErrValidation)
		}
	}
	bonus := DefaultStreakBonusPoints
	if in.StreakBonusPoints != nil {
		if *in.StreakBonusPoints < 0 {
			return nil, fmt.Errorf("%w: streak bonus must not be negative", ErrValidation)
		}
		bonus = *in.StreakBonusPoints
	}
	hash, err := hashPIN(in.PIN, s.pinCost)
	if err != nil {
		return nil, err
	}

	var created *model.Family
	err = s.stores.InTx(func(tx *store.Stores) error {
		existing, err := tx.Families.Get()
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyInitialized
		}
		created, err = tx.Families.Create(&model.Family{StreakBonusPoints: bonus, AdminPINHash: hash})
		if err != nil {
			return err
		}
		for _, p := range schedule.DefaultPeriods(created.ID) {
			if err := tx.TimePeriods.Upsert(p); err != nil {
				return err
			}
		}
		for _, c := range in.Children {
			if _, err := tx.Children.Create(newChild(created.ID, c)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("family set up", "family_id", created.ID, "children", len(in.Children))
	return created, nil
}

func newChild(familyID string, in ChildInput) *model.Child {
	name := strings.TrimSpace(in.Name)
	cfg := in.AvatarConfig
	if cfg == nil {
		cfg = model.AvatarConfig{}
	}
	if cfg["seed"] == "" {
		cfg = cfg.With("seed", name)
	}
	return &model.Child{FamilyID: familyID, Name: name, AvatarConfig: cfg}
}

// VerifyAdminPIN returns ErrInvalidPIN unless pin matches.
func (s *Service) VerifyAdminPIN(pin string) error {
	f, err := s.Family()
	if err != nil {
		return err
	}
	return checkPIN(f.AdminPINHash, pin)
}

func (s *Service) ChangeAdminPIN(current, next string) error {
	if err := ValidatePIN(next); err != nil {
		return err
	}
	f, err := s.Family()
	if err != nil {
		return err
	}
	if err := checkPIN(f.AdminPINHash, current); err != nil {
		return err
	}
	hash, err := hashPIN(next, s.pinCost)
	if err != nil {
		return err
	}
	if err := s.stores.Families.SetAdminPINHash(f.ID, hash); err != nil {
		return err
	}
	s.logger.Info("admin PIN changed")
	return nil
}

// Login checks the PIN and opens an admin session lasting ttl.
func (s *Service) Login(pin string, ttl time.Duration) (*model.AdminSession, error) {
	if err := s.VerifyAdminPIN(pin); err != nil {
		return nil, err
	}
	return s.stores.Sessions.Create(s.clock.Now(), ttl)
}

func (s *Service) Logout(token string) error {
	return s.stores.Sessions.Delete(token)
}

// Session returns the live admin session for token, or nil.
func (s *Service) Session(token string) (*model.AdminSession, error) {
	if token == "" {
		return nil, nil
	}
	return s.stores.Sessions.Get(token, s.clock.Now())
}

func (s *Service) PurgeExpiredSessions() (int64, error) {
	return s.stores.Sessions.DeleteExpired(s.clock.Now())
}

func (s *Service) SetStreakBonusPoints(points int) (*model.Family, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: streak bonus must not be negative", ErrValidation)
	}
	f, err := s.Family()
	if err != nil {
		return nil, err
	}
	if err := s.stores.Families.SetStreakBonusPoints(f.ID, points); err != nil {
		return nil, err
	}
	return s.Family()
}

// ArchiveCompletionsBefore stamps completions finished before cutoff so
// they leave the verification queue. History is kept.
func (s *Service) ArchiveCompletionsBefore(cutoff time.Time) (int64, error) {
	n, err := s.stores.Completions.ArchiveBefore(cutoff, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("completions archived", "count", n, "before", cutoff)
	}
	return n, nil
}

// ArchiveOlderThan archives completions finished more than age ago.
func (s *Service) ArchiveOlderThan(age time.Duration) (int64, error) {
	return s.ArchiveCompletionsBefore(s.clock.Now().Add(-age))
}

// Reset wipes every record, returning the install to first-run.
func (s *Service) Reset() error {
	if err := s.stores.Reset(); err != nil {
		return err
	}
	s.logger.Warn("all data reset")
	return nil
}
