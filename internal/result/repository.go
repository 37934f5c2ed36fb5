package result

import (
	"context"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, result *Result) (*Result, error)
	ListByStudent(ctx context.Context, studentID int) ([]StudentResult, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, result *Result) (*Result, error) {
	_, err := r.db.NewInsert().Model(result).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByStudent returns the student's results joined with session
// names, ordered the way the transcript screens group them.
func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]StudentResult, error) {
	var rows []StudentResult
	err := r.db.NewSelect().
		Model((*Result)(nil)).
		ColumnExpr("r.*").
		ColumnExpr("ses.session_name").
		Join("JOIN sessions AS ses ON ses.id = r.session_id").
		Where("r.student_id = ?", studentID).
		OrderExpr("ses.session_name DESC, r.semester ASC, r.course_code ASC").
		Scan(ctx, &rows)
	return rows, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Result)(nil)).Count(ctx)
}
