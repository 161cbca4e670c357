package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

type ChildStore struct {
	db DBTX
}

func NewChildStore(db DBTX) *ChildStore {
	return &ChildStore{db: db}
}

func scanChild(sc scanner) (*model.Child, error) {
	var c model.Child
	err := sc.Scan(
		&c.ID, &c.FamilyID, &c.Name, &c.AvatarConfig,
		&c.IndividualPoints, &c.TotalPointsEarned,
		&c.CurrentStreak, &c.LastStreakDate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.AvatarConfig == nil {
		c.AvatarConfig = model.AvatarConfig{}
	}
	return &c, nil
}

const childCols = `id, family_id, name, avatar_config, individual_points, total_points_earned, current_streak, last_streak_date, created_at, updated_at`

func (s *ChildStore) Create(c *model.Child) (*model.Child, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO children (id, family_id, name, avatar_config, individual_points, total_points_earned, current_streak, last_streak_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FamilyID, c.Name, c.AvatarConfig,
		c.IndividualPoints, c.TotalPointsEarned, c.CurrentStreak, c.LastStreakDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	return s.GetByID(c.ID)
}

func (s *ChildStore) GetByID(id string) (*model.Child, error) {
	row := s.db.QueryRow(`SELECT `+childCols+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return c, nil
}

func (s *ChildStore) List() ([]model.Child, error) {
	rows, err := s.db.Query(`SELECT ` + childCols + ` FROM children ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var children []model.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		children = append(children, *c)
	}
	return children, rows.Err()
}

func (s *ChildStore) Rename(id, name string) (*model.Child, error) {
	_, err := s.db.Exec(`UPDATE children SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename child: %w", err)
	}
	return s.GetByID(id)
}

// SetPoints writes both point counters.
func (s *ChildStore) SetPoints(id string, individual, totalEarned int) error {
	_, err := s.db.Exec(
		`UPDATE children SET individual_points = ?, total_points_earned = ? WHERE id = ?`,
		individual, totalEarned, id,
	)
	if err != nil {
		return fmt.Errorf("update child points: %w", err)
	}
	return nil
}

func (s *ChildStore) SetAvatarConfig(id string, cfg model.AvatarConfig) error {
	_, err := s.db.Exec(`UPDATE children SET avatar_config = ? WHERE id = ?`, cfg, id)
	if err != nil {
		return fmt.Errorf("update avatar config: %w", err)
	}
	return nil
}

func (s *ChildStore) SetStreak(id string, streak int, lastDate string) error {
	_, err := s.db.Exec(
		`UPDATE children SET current_streak = ?, last_streak_date = ? WHERE id = ?`,
		streak, lastDate, id,
	)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return nil
}

func (s *ChildStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}
