package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lab-reservation/internal/model"
)

// ErrAssignmentNotFound is returned when an assignment lookup yields no rows.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentRepo maps lab assistants to the labs they prepare.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo constructs an AssignmentRepo with the given DB handle.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Assign links an assistant to a lab. The (lab_id, assistant_college_id)
// pair is unique; assigning twice returns ErrConflict.
func (r *AssignmentRepo) Assign(ctx context.Context, labID uint64, assistantCollegeID string) (*model.AssistantAssignment, error) {
	const q = `INSERT INTO lab_assistant_assignments (lab_id, assistant_college_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, labID, assistantCollegeID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	a := &model.AssistantAssignment{ID: uint64(id), LabID: labID, AssistantCollegeID: assistantCollegeID}
	const sel = `SELECT assigned_at FROM lab_assistant_assignments WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.AssignedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// Unassign removes the assistant's link to the lab.
func (r *AssignmentRepo) Unassign(ctx context.Context, labID uint64, assistantCollegeID string) error {
	const q = `DELETE FROM lab_assistant_assignments WHERE lab_id = ? AND assistant_college_id = ?`
	res, err := r.db.ExecContext(ctx, q, labID, assistantCollegeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// LabIDsByAssistant returns the IDs of labs assigned to an assistant,
// ordered by lab id.
func (r *AssignmentRepo) LabIDsByAssistant(ctx context.Context, assistantCollegeID string) ([]uint64, error) {
	const q = `SELECT lab_id FROM lab_assistant_assignments WHERE assistant_college_id = ? ORDER BY lab_id`
	rows, err := r.db.QueryContext(ctx, q, assistantCollegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByLab returns the assignments of a lab ordered by assistant ID.
func (r *AssignmentRepo) ListByLab(ctx context.Context, labID uint64) ([]model.AssistantAssignment, error) {
	const q = `SELECT id, lab_id, assistant_college_id, assigned_at
	           FROM lab_assistant_assignments
	           WHERE lab_id = ?
	           ORDER BY assistant_college_id`
	rows, err := r.db.QueryContext(ctx, q, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.AssistantAssignment
	for rows.Next() {
		var a model.AssistantAssignment
		if err := rows.Scan(&a.ID, &a.LabID, &a.AssistantCollegeID, &a.AssignedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
