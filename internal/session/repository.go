package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

var ErrSessionNotFound = errors.New("academic session not found")

type Repository interface {
	List(ctx context.Context) ([]Session, error)
	GetByID(ctx context.Context, id int) (*Session, error)
	GetCurrent(ctx context.Context) (*Session, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, ses *Session) (*Session, error)
}

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Session, error) {
	var sessions []Session
	err := r.db.NewSelect().
		Model(&sessions).
		Order("session_name DESC").
		Scan(ctx)
	return sessions, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	ses := new(Session)
	err := r.db.NewSelect().Model(ses).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return ses, nil
}

// GetCurrent returns the session flagged is_current. Exactly one row
// carrying the flag is an application convention, not a constraint, so
// pick the first match.
func (r *repository) GetCurrent(ctx context.Context) (*Session, error) {
	ses := new(Session)
	err := r.db.NewSelect().
		Model(ses).
		Where("is_current = TRUE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return ses, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.db.NewSelect().
		Model((*Session)(nil)).
		Where("session_name = ?", name).
		Exists(ctx)
}

func (r *repository) Create(ctx context.Context, ses *Session) (*Session, error) {
	_, err := r.db.NewInsert().Model(ses).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return ses, nil
}
