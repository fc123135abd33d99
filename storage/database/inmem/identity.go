package inmemdb

import (
	"context"
	"fmt"
	"time"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

type identityRepository struct {
	db *identityTable
}

func NewIdentityRepository(db *DB) identity.Repository {
	return &identityRepository{db: db.identity}
}

func (repo *identityRepository) FindRecords(_ context.Context, role identity.Role, q identity.Query) ([]identity.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]identity.Record, 0)
	for _, rec := range repo.db.table[role] {
		if rec.Handle != q.Handle {
			continue
		}
		if q.Secret != nil && rec.Secret != *q.Secret {
			continue
		}
		recs = append(recs, *rec)
		if q.MaxRecords > 0 && len(recs) == q.MaxRecords {
			break
		}
	}
	return recs, nil
}

func (repo *identityRepository) CreateRecord(_ context.Context, role identity.Role, rec identity.Record) (identity.Record, error) {
	switch role {
	case identity.RoleStudent, identity.RoleTeacher:
	default:
		return identity.Record{}, identity.ErrUnknownRole
	}

	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	rec.ID = fmt.Sprintf("rec%06d", repo.db.pk)
	rec.CreatedAt = time.Now().UTC()
	repo.db.table[role] = append(repo.db.table[role], &rec)
	return rec, nil
}
