package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

type CompletionStore struct {
	db DBTX
}

func NewCompletionStore(db DBTX) *CompletionStore {
	return &CompletionStore{db: db}
}

func scanCompletion(sc scanner) (*model.Completion, error) {
	var c model.Completion
	var verifiedAt, archivedAt sql.NullTime
	var points sql.NullInt64

	err := sc.Scan(
		&c.ID, &c.FamilyID, &c.AssignmentID, &c.ChildID, &c.ChoreID,
		&c.ChoreName, &c.ChoreIcon, &c.ChorePoints, &c.Status,
		&c.CompletedAt, &verifiedAt, &points, &archivedAt,
	)
	if err != nil {
		return nil, err
	}

	c.VerifiedAt = timePtr(verifiedAt)
	c.ArchivedAt = timePtr(archivedAt)
	if points.Valid {
		p := int(points.Int64)
		c.PointsAwarded = &p
	}
	return &c, nil
}

const completionCols = `id, family_id, assignment_id, child_id, chore_id, chore_name, chore_icon, chore_points, status, completed_at, verified_at, points_awarded, archived_at`

func (s *CompletionStore) Create(c *model.Completion) (*model.Completion, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = model.CompletionPending
	}
	_, err := s.db.Exec(
		`INSERT INTO completions (`+completionCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FamilyID, c.AssignmentID, c.ChildID, c.ChoreID,
		c.ChoreName, c.ChoreIcon, c.ChorePoints, c.Status,
		c.CompletedAt.UTC(), nullTime(c.VerifiedAt), nullInt(c.PointsAwarded), nullTime(c.ArchivedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	return s.GetByID(c.ID)
}

func (s *CompletionStore) GetByID(id string) (*model.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return c, nil
}

func (s *CompletionStore) List() ([]model.Completion, error) {
	return s.query(`SELECT ` + completionCols + ` FROM completions ORDER BY completed_at DESC`)
}

func (s *CompletionStore) ListByChild(childID string) ([]model.Completion, error) {
	return s.query(`SELECT `+completionCols+` FROM completions WHERE child_id = ? ORDER BY completed_at DESC`, childID)
}

// ListPending returns unarchived pending completions, newest first.
func (s *CompletionStore) ListPending() ([]model.Completion, error) {
	return s.query(
		`SELECT `+completionCols+` FROM completions WHERE status = ? AND archived_at IS NULL ORDER BY completed_at DESC`,
		model.CompletionPending,
	)
}

// ListByDateRange returns completions with start <= completed_at < end.
func (s *CompletionStore) ListByDateRange(start, end time.Time) ([]model.Completion, error) {
	return s.query(
		`SELECT `+completionCols+` FROM completions WHERE completed_at >= ? AND completed_at < ? ORDER BY completed_at ASC`,
		start.UTC(), end.UTC(),
	)
}

// ListForAssignmentInRange returns completions of one assignment with
// start <= completed_at < end.
func (s *CompletionStore) ListForAssignmentInRange(assignmentID string, start, end time.Time) ([]model.Completion, error) {
	return s.query(
		`SELECT `+completionCols+` FROM completions WHERE assignment_id = ? AND completed_at >= ? AND completed_at < ? ORDER BY completed_at ASC`,
		assignmentID, start.UTC(), end.UTC(),
	)
}

func (s *CompletionStore) query(q string, args ...any) ([]model.Completion, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// MarkVerified moves a pending completion to a terminal status. It reports
// false when the row was not pending, so a concurrent verify cannot award
// points twice.
func (s *CompletionStore) MarkVerified(id string, status model.CompletionStatus, points int, at time.Time) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE completions SET status = ?, points_awarded = ?, verified_at = ? WHERE id = ? AND status = ?`,
		status, points, at.UTC(), id, model.CompletionPending,
	)
	if err != nil {
		return false, fmt.Errorf("verify completion: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func (s *CompletionStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

func (s *CompletionStore) DeleteByChild(childID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM completions WHERE child_id = ?`, childID)
	if err != nil {
		return 0, fmt.Errorf("delete completions by child: %w", err)
	}
	return res.RowsAffected()
}

// ArchiveBefore stamps archived_at on completions finished before cutoff.
func (s *CompletionStore) ArchiveBefore(cutoff, at time.Time) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE completions SET archived_at = ? WHERE completed_at < ? AND archived_at IS NULL`,
		at.UTC(), cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("archive completions: %w", err)
	}
	return res.RowsAffected()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
