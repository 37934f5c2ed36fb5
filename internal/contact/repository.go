package contact

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var ErrContactNotFound = errors.New("contact message not found")

type Repository interface {
	Create(ctx context.Context, contact *Contact) (*Contact, error)
	GetByID(ctx context.Context, id int) (*Contact, error)
	List(ctx context.Context, limit, offset int) ([]Contact, int, error)
	ListAll(ctx context.Context) ([]Contact, error)
	Recent(ctx context.Context, limit int) ([]Contact, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, contact *Contact) (*Contact, error) {
	_, err := r.db.NewInsert().Model(contact).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Contact, error) {
	contact := new(Contact)
	err := r.db.NewSelect().Model(contact).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Contact, int, error) {
	var contacts []Contact
	total, err := r.db.NewSelect().
		Model(&contacts).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	err := r.db.NewSelect().
		Model(&contacts).
		Order("created_at DESC").
		Scan(ctx)
	return contacts, err
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Contact, error) {
	var contacts []Contact
	err := r.db.NewSelect().
		Model(&contacts).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return contacts, err
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.NewDelete().
		Model((*Contact)(nil)).
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
		return ErrContactNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Contact)(nil)).Count(ctx)
}
