package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

type ChoreStore struct {
	db DBTX
}

func NewChoreStore(db DBTX) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(sc scanner) (*model.Chore, error) {
	var c model.Chore
	err := sc.Scan(&c.ID, &c.FamilyID, &c.Name, &c.Icon, &c.PointValue, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const choreCols = `id, family_id, name, icon, point_value, created_at, updated_at`

func (s *ChoreStore) Create(c *model.Chore) (*model.Chore, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO chores (id, family_id, name, icon, point_value) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.FamilyID, c.Name, c.Icon, c.PointValue,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	return s.GetByID(c.ID)
}

func (s *ChoreStore) GetByID(id string) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Update(c *model.Chore) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET name = ?, icon = ?, point_value = ? WHERE id = ?`,
		c.Name, c.Icon, c.PointValue, c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(c.ID)
}

func (s *ChoreStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// --- Assignments ---

type AssignmentStore struct {
	db DBTX
}

func NewAssignmentStore(db DBTX) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(sc scanner) (*model.ChoreAssignment, error) {
	var a model.ChoreAssignment
	err := sc.Scan(&a.ID, &a.FamilyID, &a.ChoreID, &a.ChildID, &a.DaysOfWeek, &a.TimePeriods, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const assignmentCols = `id, family_id, chore_id, child_id, days_of_week, time_periods, created_at`

func (s *AssignmentStore) Create(a *model.ChoreAssignment) (*model.ChoreAssignment, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO chore_assignments (id, family_id, chore_id, child_id, days_of_week, time_periods) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.FamilyID, a.ChoreID, a.ChildID, a.DaysOfWeek, a.TimePeriods,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return s.GetByID(a.ID)
}

func (s *AssignmentStore) GetByID(id string) (*model.ChoreAssignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM chore_assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *AssignmentStore) List() ([]model.ChoreAssignment, error) {
	return s.query(`SELECT ` + assignmentCols + ` FROM chore_assignments ORDER BY created_at ASC, id ASC`)
}

func (s *AssignmentStore) ListByChild(childID string) ([]model.ChoreAssignment, error) {
	return s.query(`SELECT `+assignmentCols+` FROM chore_assignments WHERE child_id = ? ORDER BY created_at ASC, id ASC`, childID)
}

func (s *AssignmentStore) query(q string, args ...any) ([]model.ChoreAssignment, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.ChoreAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (s *AssignmentStore) Update(a *model.ChoreAssignment) (*model.ChoreAssignment, error) {
	_, err := s.db.Exec(
		`UPDATE chore_assignments SET chore_id = ?, child_id = ?, days_of_week = ?, time_periods = ? WHERE id = ?`,
		a.ChoreID, a.ChildID, a.DaysOfWeek, a.TimePeriods, a.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return s.GetByID(a.ID)
}

func (s *AssignmentStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM chore_assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (s *AssignmentStore) DeleteByChild(childID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM chore_assignments WHERE child_id = ?`, childID)
	if err != nil {
		return 0, fmt.Errorf("delete assignments by child: %w", err)
	}
	return res.RowsAffected()
}

func (s *AssignmentStore) DeleteByChore(choreID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM chore_assignments WHERE chore_id = ?`, choreID)
	if err != nil {
		return 0, fmt.Errorf("delete assignments by chore: %w", err)
	}
	return res.RowsAffected()
}
