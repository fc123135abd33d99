package inmemdb

import (
	"context"
	"time"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
)

type feeRepository struct {
	db *feeTable
}

func NewFeeRepository(db *DB) fee.Repository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) fees(studentKey string) []fee.Record {
	src, ok := repo.db.table[studentKey]
	if !ok {
		src = repo.db.schedule
	}
	fees := make([]fee.Record, len(src))
	copy(fees, src)
	return fees
}

func (repo *feeRepository) ListFees(_ context.Context, studentKey string) ([]fee.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.fees(studentKey), nil
}

func (repo *feeRepository) GetFee(_ context.Context, studentKey, id string) (fee.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, f := range repo.fees(studentKey) {
		if f.ID == id {
			return f, nil
		}
	}
	return fee.Record{}, fee.ErrNotFound
}

// SetFees replaces the fee lines of a student.
func (db *DB) SetFees(studentKey string, fees ...fee.Record) {
	db.fee.mutex.Lock()
	defer db.fee.mutex.Unlock()
	db.fee.table[studentKey] = append([]fee.Record(nil), fees...)
}

// DefaultFeeSchedule is the static fee schedule of the current academic year.
func DefaultFeeSchedule() []fee.Record {
	due := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
	}
	return []fee.Record{
		{ID: "fee-tuition-t1", Category: fee.CategoryTuition, Label: "Tuition Fee", Cycle: "Term 1", AmountDue: 45000, AmountPaid: 45000, DueDate: due(time.June, 15)},
		{ID: "fee-tuition-t2", Category: fee.CategoryTuition, Label: "Tuition Fee", Cycle: "Term 2", AmountDue: 45000, AmountPaid: 20000, DueDate: due(time.October, 15)},
		{ID: "fee-hostel", Category: fee.CategoryHostel, Label: "Hostel Fee", Cycle: "Annual", AmountDue: 60000, DueDate: due(time.July, 1)},
		{ID: "fee-transport", Category: fee.CategoryTransport, Label: "Transport Fee", Cycle: "Quarterly", AmountDue: 7500, AmountPaid: 2500, DueDate: due(time.September, 30)},
		{ID: "fee-sports", Category: fee.CategorySports, Label: "Sports & Activities", Cycle: "Annual", AmountDue: 3000, DueDate: due(time.August, 10)},
		{ID: "fee-library-dues", Category: fee.CategoryDues, Label: "Library Dues", Cycle: "One-time", AmountDue: 250, DueDate: due(time.November, 1)},
	}
}
