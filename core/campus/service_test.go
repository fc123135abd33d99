package campus

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type nopLogger struct{ warnings int }

func (l *nopLogger) Debug(string, ...interface{}) {}
func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  { l.warnings++ }
func (l *nopLogger) Error(string, ...interface{}) {}
func (l *nopLogger) Fatal(string, ...interface{}) {}

type repoStub struct {
	campuses  []Campus
	err       error
	lastLimit int
}

func (r *repoStub) QueryCampuses(_ context.Context, limit int) ([]Campus, error) {
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	return r.campuses, nil
}

func TestService_List(t *testing.T) {
	oak := Campus{ID: "rec1", Code: "OAK", Name: "oakridge"}
	birch := Campus{ID: "rec2", Code: "BIR", Name: "Birchwood"}

	tests := []struct {
		name         string
		repo         *repoStub
		want         []Campus
		wantWarnings int
	}{
		{name: "sorted by name", repo: &repoStub{campuses: []Campus{oak, birch}}, want: []Campus{birch, oak}},
		{name: "empty list is not an error", repo: &repoStub{campuses: []Campus{}}, want: []Campus{}},
		{name: "remote error degrades to fallback", repo: &repoStub{err: errors.New("boom")}, want: FallbackCampuses, wantWarnings: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := new(nopLogger)
			svc := NewService(tt.repo, log, 25)
			got := svc.List(context.Background())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() failed! got = %v; want %v", got, tt.want)
			}
			if log.warnings != tt.wantWarnings {
				t.Errorf("List() failed! warnings = %d; want %d", log.warnings, tt.wantWarnings)
			}
			if tt.repo.lastLimit != 25 {
				t.Errorf("List() failed! limit = %d; want 25", tt.repo.lastLimit)
			}
		})
	}
}

func TestService_List_fallbackIsACopy(t *testing.T) {
	svc := NewService(&repoStub{err: errors.New("down")}, new(nopLogger), 0)
	got := svc.List(context.Background())
	got[0].Name = "mutated"
	if FallbackCampuses[0].Name == "mutated" {
		t.Error("List() failed! fallback list was mutated through the result")
	}
}

func TestService_Find(t *testing.T) {
	svc := NewService(&repoStub{campuses: []Campus{{ID: "rec1", Code: "camp-1", Name: "One"}}}, new(nopLogger), 10)
	tests := []struct {
		key     string
		wantErr error
	}{
		{key: "rec1"},
		{key: " CAMP-1 "},
		{key: "camp-2", wantErr: ErrNotFound},
		{key: "", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c, err := svc.Find(context.Background(), tt.key)
			if err != tt.wantErr {
				t.Fatalf("Find() failed! err = %v; want %v", err, tt.wantErr)
			}
			if err == nil && c.ID != "rec1" {
				t.Errorf("Find() failed! id = %q; want %q", c.ID, "rec1")
			}
		})
	}
}

func TestCampus_Matches(t *testing.T) {
	c := &Campus{ID: "rec1", Code: "camp-1"}
	tests := []struct {
		name   string
		campus *Campus
		scope  string
		want   bool
	}{
		{"unscoped matches any campus", c, "", true},
		{"unscoped matches no campus", nil, "", true},
		{"code match", c, "camp-1", true},
		{"id match", c, "rec1", true},
		{"different campus", c, "camp-2", false},
		{"scoped without campus", nil, "camp-1", false},
		{"case sensitive", c, "CAMP-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.campus.Matches(tt.scope); got != tt.want {
				t.Errorf("Matches(%q) failed! got = %v; want %v", tt.scope, got, tt.want)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	sel := NewSelection()
	if sel.Selected() != nil {
		t.Fatal("Selected() failed! want nil before Select")
	}
	sel.Select(Campus{ID: "rec1", Code: "camp-1"})
	got := sel.Selected()
	if got == nil || got.Code != "camp-1" {
		t.Fatalf("Selected() failed! got = %v; want camp-1", got)
	}
	got.Code = "changed"
	if sel.Selected().Code != "camp-1" {
		t.Error("Selected() failed! selection mutated through returned pointer")
	}
	sel.Clear()
	if sel.Selected() != nil {
		t.Error("Clear() failed! selection still set")
	}
}
