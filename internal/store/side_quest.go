package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

type SideQuestStore struct {
	db DBTX
}

func NewSideQuestStore(db DBTX) *SideQuestStore {
	return &SideQuestStore{db: db}
}

func scanSideQuest(sc scanner) (*model.SideQuest, error) {
	var q model.SideQuest
	var completedAt, verifiedAt sql.NullTime
	err := sc.Scan(
		&q.ID, &q.FamilyID, &q.ChildID, &q.Name, &q.Description, &q.Icon, &q.PointValue,
		&q.Status, &completedAt, &verifiedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.CompletedAt = timePtr(completedAt)
	q.VerifiedAt = timePtr(verifiedAt)
	return &q, nil
}

const sideQuestCols = `id, family_id, child_id, name, description, icon, point_value, status, completed_at, verified_at, created_at, updated_at`

func (s *SideQuestStore) Create(q *model.SideQuest) (*model.SideQuest, error) {
	if q.ID == "" {
		q.ID = newID()
	}
	if q.Status == "" {
		q.Status = model.SideQuestActive
	}
	_, err := s.db.Exec(
		`INSERT INTO side_quests (id, family_id, child_id, name, description, icon, point_value, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.FamilyID, q.ChildID, q.Name, q.Description, q.Icon, q.PointValue, q.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert side quest: %w", err)
	}
	return s.GetByID(q.ID)
}

func (s *SideQuestStore) GetByID(id string) (*model.SideQuest, error) {
	row := s.db.QueryRow(`SELECT `+sideQuestCols+` FROM side_quests WHERE id = ?`, id)
	q, err := scanSideQuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get side quest: %w", err)
	}
	return q, nil
}

func (s *SideQuestStore) List() ([]model.SideQuest, error) {
	return s.query(`SELECT ` + sideQuestCols + ` FROM side_quests ORDER BY created_at DESC, id ASC`)
}

func (s *SideQuestStore) ListByChild(childID string) ([]model.SideQuest, error) {
	return s.query(`SELECT `+sideQuestCols+` FROM side_quests WHERE child_id = ? ORDER BY created_at DESC, id ASC`, childID)
}

func (s *SideQuestStore) ListByStatus(status model.SideQuestStatus) ([]model.SideQuest, error) {
	return s.query(`SELECT `+sideQuestCols+` FROM side_quests WHERE status = ? ORDER BY completed_at ASC, id ASC`, status)
}

func (s *SideQuestStore) query(q string, args ...any) ([]model.SideQuest, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list side quests: %w", err)
	}
	defer rows.Close()

	var quests []model.SideQuest
	for rows.Next() {
		sq, err := scanSideQuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan side quest: %w", err)
		}
		quests = append(quests, *sq)
	}
	return quests, rows.Err()
}

// Update replaces the editable fields. Status is left alone.
func (s *SideQuestStore) Update(q *model.SideQuest) (*model.SideQuest, error) {
	_, err := s.db.Exec(
		`UPDATE side_quests SET child_id = ?, name = ?, description = ?, icon = ?, point_value = ? WHERE id = ?`,
		q.ChildID, q.Name, q.Description, q.Icon, q.PointValue, q.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update side quest: %w", err)
	}
	return s.GetByID(q.ID)
}

// Transition moves a quest from one status to another and reports whether
// the quest was in the expected status.
func (s *SideQuestStore) Transition(id string, from, to model.SideQuestStatus, completedAt, verifiedAt *time.Time) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE side_quests SET status = ?, completed_at = ?, verified_at = ? WHERE id = ? AND status = ?`,
		to, nullTime(completedAt), nullTime(verifiedAt), id, from,
	)
	if err != nil {
		return false, fmt.Errorf("transition side quest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *SideQuestStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM side_quests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete side quest: %w", err)
	}
	return nil
}

func (s *SideQuestStore) DeleteByChild(childID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM side_quests WHERE child_id = ?`, childID)
	if err != nil {
		return 0, fmt.Errorf("delete side quests by child: %w", err)
	}
	return res.RowsAffected()
}
