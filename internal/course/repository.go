package course

import (
	"context"

	"github.com/uptrace/bun"
)

// searchLimit caps autocomplete results.
const searchLimit = 20

type Repository interface {
	Search(ctx context.Context, query string) ([]Course, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, course *Course) (*Course, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

// Search matches the query as a case-insensitive substring of the
// course code or title.
func (r *repository) Search(ctx context.Context, query string) ([]Course, error) {
	var courses []Course
	pattern := "%" + query + "%"
	err := r.db.NewSelect().
		Model(&courses).
		Where("LOWER(course_code) LIKE LOWER(?)", pattern).
		WhereOr("LOWER(course_title) LIKE LOWER(?)", pattern).
		Order("course_code").
		Limit(searchLimit).
		Scan(ctx)
	return courses, err
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Course)(nil)).Count(ctx)
}

func (r *repository) Create(ctx context.Context, course *Course) (*Course, error) {
	_, err := r.db.NewInsert().Model(course).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return course, nil
}
