package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var ErrAdminNotFound = errors.New("admin not found")

type Repository interface {
	GetByID(ctx context.Context, id int) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) (*Admin, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int) (*Admin, error) {
	admin := new(Admin)
	err := r.db.NewSelect().Model(admin).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	admin := new(Admin)
	err := r.db.NewSelect().Model(admin).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (r *repository) Create(ctx context.Context, admin *Admin) (*Admin, error) {
	_, err := r.db.NewInsert().Model(admin).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.db.NewSelect().
		Model((*Admin)(nil)).
		Where("username = ?", username).
		Exists(ctx)
}
