package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

type FamilyStore struct {
	db DBTX
}

func NewFamilyStore(db DBTX) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamily(sc scanner) (*model.Family, error) {
	var f model.Family
	err := sc.Scan(&f.ID, &f.Points, &f.StreakBonusPoints, &f.AdminPINHash, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

const familyCols = `id, points, streak_bonus_points, admin_pin_hash, created_at, updated_at`

func (s *FamilyStore) Create(f *model.Family) (*model.Family, error) {
	if f.ID == "" {
		f.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO families (id, points, streak_bonus_points, admin_pin_hash) VALUES (?, ?, ?, ?)`,
		f.ID, f.Points, f.StreakBonusPoints, f.AdminPINHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	return s.GetByID(f.ID)
}

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

// Get returns the install's family, or nil before first-run setup.
func (s *FamilyStore) Get() (*model.Family, error) {
	row := s.db.QueryRow(`SELECT ` + familyCols + ` FROM families ORDER BY created_at ASC LIMIT 1`)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) SetPoints(id string, points int) error {
	_, err := s.db.Exec(`UPDATE families SET points = ? WHERE id = ?`, points, id)
	if err != nil {
		return fmt.Errorf("update family points: %w", err)
	}
	return nil
}

func (s *FamilyStore) SetStreakBonusPoints(id string, points int) error {
	_, err := s.db.Exec(`UPDATE families SET streak_bonus_points = ? WHERE id = ?`, points, id)
	if err != nil {
		return fmt.Errorf("update streak bonus: %w", err)
	}
	return nil
}

func (s *FamilyStore) SetAdminPINHash(id, hash string) error {
	_, err := s.db.Exec(`UPDATE families SET admin_pin_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update admin pin: %w", err)
	}
	return nil
}
