package airtable

import (
	"context"
	"strconv"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
)

type campusRepository struct {
	client *Client
	table  string
}

var _ campus.Repository = (*campusRepository)(nil)

func NewCampusRepository(client *Client, table string) campus.Repository {
	vala.BeginValidation().Validate(
		vala.IsNotNil(client, "client"),
		vala.StringNotEmpty(table, "table"),
	).CheckAndPanic()
	return &campusRepository{client: client, table: table}
}

func (repo *campusRepository) QueryCampuses(ctx context.Context, limit int) ([]campus.Campus, error) {
	pageSize := limit
	if pageSize <= 0 || pageSize > pageLimit {
		pageSize = pageLimit
	}
	query := map[string]string{
		"sort[0][field]":     "name",
		"sort[0][direction]": "asc",
		"pageSize":           strconv.Itoa(pageSize),
	}
	if limit > 0 {
		query["maxRecords"] = strconv.Itoa(limit)
	}

	res, err := repo.client.Request(ctx, repo.table, RequestOptions{Query: query})
	if err != nil {
		return nil, errors.Wrap(err, "airtable.QueryCampuses")
	}
	campuses := make([]campus.Campus, 0, len(res.Records))
	for _, rec := range res.Records {
		campuses = append(campuses, campus.Campus{
			ID:     rec.ID,
			Code:   stringField(rec.Fields, "school_code"),
			Name:   stringField(rec.Fields, "name"),
			Campus: stringField(rec.Fields, "campus"),
			Photo:  attachmentURL(rec.Fields, "photo"),
			Logo:   attachmentURL(rec.Fields, "logo"),
		})
	}
	return campuses, nil
}
