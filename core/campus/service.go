package campus

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

// ErrNotFound is returned when a campus id or code is unknown.
var ErrNotFound = errors.New("campus not found")

type Service struct {
	repo     Repository
	log      core.Logger
	pageSize int
}

func NewService(repo Repository, logger core.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Service{repo: repo, log: logger, pageSize: pageSize}
}

// List never fails: any remote error degrades to FallbackCampuses.
func (svc *Service) List(ctx context.Context) []Campus {
	campuses, err := svc.query(ctx)
	if err != nil {
		svc.log.Warn("campus list unavailable, serving fallback campuses", err)
		return fallback()
	}
	return campuses
}

func (svc *Service) query(ctx context.Context) ([]Campus, error) {
	campuses, err := svc.repo.QueryCampuses(ctx, svc.pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "campus.query")
	}
	sort.SliceStable(campuses, func(i, j int) bool {
		return strings.ToLower(campuses[i].Name) < strings.ToLower(campuses[j].Name)
	})
	return campuses, nil
}

// Find looks up a campus by id or code in the current list.
func (svc *Service) Find(ctx context.Context, key string) (Campus, error) {
	key = core.CleanString(key)
	for _, c := range svc.List(ctx) {
		if key != "" && (c.ID == key || strings.EqualFold(c.Code, key)) {
			return c, nil
		}
	}
	return Campus{}, ErrNotFound
}

func fallback() []Campus {
	campuses := make([]Campus, len(FallbackCampuses))
	copy(campuses, FallbackCampuses)
	return campuses
}
