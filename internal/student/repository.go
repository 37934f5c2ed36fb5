package student

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	GetByMatric(ctx context.Context, matric string) (*Student, error)
	ExistsByEmailOrMatric(ctx context.Context, email, matric string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]Student, int, error)
	SetActive(ctx context.Context, id int, active bool) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	_, err := r.db.NewInsert().Model(student).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) GetByMatric(ctx context.Context, matric string) (*Student, error) {
	student := new(Student)
	err := r.db.NewSelect().Model(student).Where("matric_number = ?", matric).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (r *repository) ExistsByEmailOrMatric(ctx context.Context, email, matric string) (bool, error) {
	return r.db.NewSelect().
		Model((*Student)(nil)).
		Where("email = ? OR matric_number = ?", email, matric).
		Exists(ctx)
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Student, int, error) {
	var students []Student
	total, err := r.db.NewSelect().
		Model(&students).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.NewUpdate().
		Model((*Student)(nil)).
		Set("is_active = ?", active).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Student)(nil)).Count(ctx)
}
