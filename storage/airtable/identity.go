package airtable

import (
	"context"
	"strconv"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

// pageLimit is the largest page the record store serves.
const pageLimit = 100

type tableSchema struct {
	table  string
	handle string
	secret string
	name   string
	group  string
	scope  string
	email  string
}

var identityTables = map[identity.Role]tableSchema{
	identity.RoleStudent: {
		table:  "Students",
		handle: "roll_no",
		secret: "password",
		name:   "name",
		group:  "class",
		scope:  "school_id",
		email:  "email",
	},
	identity.RoleTeacher: {
		table:  "Teachers",
		handle: "email",
		secret: "password",
		name:   "name",
		group:  "department",
		scope:  "school_id",
	},
}

type identityRepository struct {
	client *Client
}

var _ identity.Repository = (*identityRepository)(nil)

func NewIdentityRepository(client *Client) identity.Repository {
	vala.BeginValidation().Validate(
		vala.IsNotNil(client, "client"),
	).CheckAndPanic()
	return &identityRepository{client: client}
}

func schemaFor(role identity.Role) (tableSchema, error) {
	schema, ok := identityTables[role]
	if !ok {
		return tableSchema{}, identity.ErrUnknownRole
	}
	return schema, nil
}

func (repo *identityRepository) FindRecords(ctx context.Context, role identity.Role, q identity.Query) ([]identity.Record, error) {
	schema, err := schemaFor(role)
	if err != nil {
		return nil, err
	}

	formula := Eq(schema.handle, q.Handle)
	if q.Secret != nil {
		formula = And(formula, Eq(schema.secret, *q.Secret))
	}
	query := map[string]string{"filterByFormula": formula}
	if q.MaxRecords > 0 {
		query["maxRecords"] = strconv.Itoa(q.MaxRecords)
	}

	var records []identity.Record
	for {
		res, err := repo.client.Request(ctx, schema.table, RequestOptions{Query: query})
		if err != nil {
			return nil, errors.Wrapf(err, "airtable.FindRecords(%s)", role)
		}
		for _, rec := range res.Records {
			records = append(records, schema.toRecord(rec))
		}
		if res.Offset == "" || (q.MaxRecords > 0 && len(records) >= q.MaxRecords) {
			break
		}
		query["offset"] = res.Offset
	}
	if q.MaxRecords > 0 && len(records) > q.MaxRecords {
		records = records[:q.MaxRecords]
	}
	return records, nil
}

func (repo *identityRepository) CreateRecord(ctx context.Context, role identity.Role, rec identity.Record) (identity.Record, error) {
	schema, err := schemaFor(role)
	if err != nil {
		return identity.Record{}, err
	}

	res, err := repo.client.Request(ctx, schema.table, RequestOptions{
		Method: rest.Post,
		Body:   Record{Fields: schema.toFields(rec)},
	})
	if err != nil {
		return identity.Record{}, errors.Wrapf(err, "airtable.CreateRecord(%s)", role)
	}
	if len(res.Records) == 0 {
		return identity.Record{}, errors.New("airtable.CreateRecord: empty response")
	}
	return schema.toRecord(res.Records[0]), nil
}

func (schema tableSchema) toRecord(rec Record) identity.Record {
	out := identity.Record{
		ID:     rec.ID,
		Handle: stringField(rec.Fields, schema.handle),
		Secret: stringField(rec.Fields, schema.secret),
		Name:   stringField(rec.Fields, schema.name),
		Group:  stringField(rec.Fields, schema.group),
		Scope:  stringField(rec.Fields, schema.scope),
	}
	if schema.email != "" {
		out.Email = stringField(rec.Fields, schema.email)
	} else {
		out.Email = out.Handle
	}
	if t, err := time.Parse(time.RFC3339, rec.CreatedTime); err == nil {
		out.CreatedAt = t
	}
	return out
}

func (schema tableSchema) toFields(rec identity.Record) map[string]interface{} {
	fields := map[string]interface{}{
		schema.handle: rec.Handle,
		schema.secret: rec.Secret,
	}
	set := func(name, value string) {
		if name != "" && value != "" {
			fields[name] = value
		}
	}
	set(schema.name, rec.Name)
	set(schema.group, rec.Group)
	set(schema.scope, rec.Scope)
	if schema.email != schema.handle {
		set(schema.email, rec.Email)
	}
	return fields
}
