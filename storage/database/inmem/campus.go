package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
)

type campusRepository struct {
	db *campusTable
}

func NewCampusRepository(db *DB) campus.Repository {
	return &campusRepository{db: db.campus}
}

func (repo *campusRepository) QueryCampuses(_ context.Context, limit int) ([]campus.Campus, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	campuses := make([]campus.Campus, len(repo.db.table))
	copy(campuses, repo.db.table)
	sort.SliceStable(campuses, func(i, j int) bool {
		return strings.ToLower(campuses[i].Name) < strings.ToLower(campuses[j].Name)
	})
	if limit > 0 && len(campuses) > limit {
		campuses = campuses[:limit]
	}
	return campuses, nil
}

// AddCampuses appends campuses to the table.
func (db *DB) AddCampuses(campuses ...campus.Campus) {
	db.campus.mutex.Lock()
	defer db.campus.mutex.Unlock()
	db.campus.table = append(db.campus.table, campuses...)
}
