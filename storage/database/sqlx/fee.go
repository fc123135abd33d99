// Package sqlxrepos implements repositories on postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
)

const feeColumns = `id, student_key, category, label, cycle, amount_due, amount_paid, due_date`

type feeRow struct {
	ID         string      `db:"id"`
	StudentKey string      `db:"student_key"`
	Category   string      `db:"category"`
	Label      string      `db:"label"`
	Cycle      null.String `db:"cycle"`
	AmountDue  int64       `db:"amount_due"`
	AmountPaid int64       `db:"amount_paid"`
	DueDate    null.Time   `db:"due_date"`
}

func (row feeRow) toRecord() fee.Record {
	rec := fee.Record{
		ID:         row.ID,
		Category:   fee.ParseCategory(row.Category),
		Label:      row.Label,
		Cycle:      row.Cycle.String,
		AmountDue:  row.AmountDue,
		AmountPaid: row.AmountPaid,
	}
	if row.DueDate.Valid {
		rec.DueDate = row.DueDate.Time.UTC()
	}
	return rec
}

type feeRepository struct {
	db *sqlx.DB
}

func NewFeeRepository(db *sqlx.DB) fee.Repository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) ListFees(ctx context.Context, studentKey string) ([]fee.Record, error) {
	var rows []feeRow
	q := `SELECT ` + feeColumns + ` FROM fee WHERE student_key = $1 ORDER BY due_date NULLS LAST, id`
	if err := repo.db.SelectContext(ctx, &rows, q, studentKey); err != nil {
		return nil, errors.Wrap(err, "sqlxrepos.ListFees")
	}
	fees := make([]fee.Record, 0, len(rows))
	for _, row := range rows {
		fees = append(fees, row.toRecord())
	}
	return fees, nil
}

func (repo *feeRepository) GetFee(ctx context.Context, studentKey, id string) (fee.Record, error) {
	var row feeRow
	q := `SELECT ` + feeColumns + ` FROM fee WHERE student_key = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &row, q, studentKey, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fee.Record{}, fee.ErrNotFound
		}
		return fee.Record{}, errors.Wrap(err, "sqlxrepos.GetFee")
	}
	return row.toRecord(), nil
}
