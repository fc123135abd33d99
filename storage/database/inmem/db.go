// Package inmemdb is a process-local storage backend for development and tests.
package inmemdb

import (
	"sync"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/fee"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

type (
	DB struct {
		identity *identityTable
		campus   *campusTable
		fee      *feeTable
	}

	identityTable struct {
		mutex sync.RWMutex
		pk    int
		table map[identity.Role][]*identity.Record
	}

	campusTable struct {
		mutex sync.RWMutex
		table []campus.Campus
	}

	feeTable struct {
		mutex    sync.RWMutex
		table    map[string][]fee.Record // {student key: fees}
		schedule []fee.Record            // served to students without fee lines of their own
	}
)

func Open() (*DB, error) {
	db := &DB{
		identity: &identityTable{table: make(map[identity.Role][]*identity.Record)},
		campus:   &campusTable{},
		fee:      &feeTable{table: make(map[string][]fee.Record)},
	}
	return db, nil
}

// OpenSeeded opens a DB loaded with the default campuses and fee schedule.
func OpenSeeded() (*DB, error) {
	db, err := Open()
	if err != nil {
		return nil, err
	}
	db.campus.table = append(db.campus.table, campus.FallbackCampuses...)
	db.fee.schedule = DefaultFeeSchedule()
	return db, nil
}
