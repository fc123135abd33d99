package campus

import "context"

type (
	// Campus is a school tenant. Code, when present, scopes identity lookups.
	Campus struct {
		ID     string `json:"id"`
		Code   string `json:"code"`
		Name   string `json:"name"`
		Campus string `json:"campus,omitempty"`
		Photo  string `json:"photo,omitempty"`
		Logo   string `json:"logo,omitempty"`
	}

	Repository interface {
		// QueryCampuses returns at most `limit` campuses sorted by name.
		QueryCampuses(ctx context.Context, limit int) ([]Campus, error)
	}
)

// ScopeKey is the value written to a record's school scoping field.
func (c Campus) ScopeKey() string {
	if c.Code != "" {
		return c.Code
	}
	return c.ID
}

// Matches reports whether a record scoped to `scope` is visible from c.
// Unscoped records match every campus.
func (c *Campus) Matches(scope string) bool {
	if scope == "" {
		return true
	}
	if c == nil {
		return false
	}
	return scope == c.Code || scope == c.ID
}

// FallbackCampuses is served whenever the remote campus list cannot be read.
var FallbackCampuses = []Campus{
	{ID: "gk-main", Code: "GK-MAIN", Name: "GradeKart Public School", Campus: "Main Campus"},
	{ID: "gk-north", Code: "GK-NORTH", Name: "GradeKart Public School", Campus: "North Campus"},
	{ID: "gk-intl", Code: "GK-INTL", Name: "GradeKart International School", Campus: "City Centre"},
}
