package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	ExistsByMatric(ctx context.Context, matric string) (bool, error)
	HasApprovedPayment(ctx context.Context, matric string) (bool, error)
	List(ctx context.Context, status string, limit, offset int) ([]Payment, int, error)
	ListAll(ctx context.Context) ([]Payment, error)
	Recent(ctx context.Context, limit int) ([]Payment, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	StatsByLevel(ctx context.Context) ([]LevelStat, error)
	StatsByStatus(ctx context.Context) ([]StatusStat, error)
	StatsByMonth(ctx context.Context) ([]MonthStat, error)
}

var ErrPaymentNotFound = errors.New("payment not found")

type repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) (*Payment, error) {
	_, err := r.db.NewInsert().Model(payment).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	payment := new(Payment)
	err := r.db.NewSelect().Model(payment).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (r *repository) ExistsByMatric(ctx context.Context, matric string) (bool, error) {
	return r.db.NewSelect().
		Model((*Payment)(nil)).
		Where("matric_number = ?", matric).
		Exists(ctx)
}

// HasApprovedPayment is the result-visibility predicate: true iff an
// approved payment row exists for the matric number. Callers query it
// on every dashboard load, so approvals take effect on the student's
// next request without invalidation.
func (r *repository) HasApprovedPayment(ctx context.Context, matric string) (bool, error) {
	return r.db.NewSelect().
		Model((*Payment)(nil)).
		Where("matric_number = ?", matric).
		Where("status = ?", StatusApproved).
		Exists(ctx)
}

func (r *repository) List(ctx context.Context, status string, limit, offset int) ([]Payment, int, error) {
	var payments []Payment
	q := r.db.NewSelect().Model(&payments)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	total, err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Order("created_at DESC").
		Scan(ctx)
	return payments, err
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Payment, error) {
	var payments []Payment
	err := r.db.NewSelect().
		Model(&payments).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return payments, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.NewUpdate().
		Model((*Payment)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
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
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) Update(ctx context.Context, payment *Payment) error {
	payment.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(payment).
		Column("full_name", "matric_number", "level", "email",
			"phone_number", "total_amount", "transaction_ref", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.NewDelete().
		Model((*Payment)(nil)).
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
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Payment)(nil)).Count(ctx)
}

func (r *repository) CountByStatus(ctx context.Context, status string) (int, error) {
	return r.db.NewSelect().
		Model((*Payment)(nil)).
		Where("status = ?", status).
		Count(ctx)
}

func (r *repository) StatsByLevel(ctx context.Context) ([]LevelStat, error) {
	var stats []LevelStat
	err := r.db.NewSelect().
		Model((*Payment)(nil)).
		ColumnExpr("level").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("SUM(total_amount) AS total").
		Group("level").
		Order("level").
		Scan(ctx, &stats)
	return stats, err
}

func (r *repository) StatsByStatus(ctx context.Context) ([]StatusStat, error) {
	var stats []StatusStat
	err := r.db.NewSelect().
		Model((*Payment)(nil)).
		ColumnExpr("status").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("SUM(total_amount) AS total").
		Group("status").
		Order("status").
		Scan(ctx, &stats)
	return stats, err
}

func (r *repository) StatsByMonth(ctx context.Context) ([]MonthStat, error) {
	var stats []MonthStat
	err := r.db.NewSelect().
		Model((*Payment)(nil)).
		ColumnExpr("TO_CHAR(created_at, 'YYYY-MM') AS month").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("SUM(total_amount) AS total").
		GroupExpr("TO_CHAR(created_at, 'YYYY-MM')").
		OrderExpr("month").
		Scan(ctx, &stats)
	return stats, err
}
