package identity

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher}

	ErrUnknownRole = errors.New("unknown role")
)

func ParseRole(s string) (Role, error) {
	switch r := Role(core.CleanString(s, true /* lower */)); r {
	case RoleStudent, RoleTeacher:
		return r, nil
	}
	return "", ErrUnknownRole
}

// noun is how the role is named in user-facing messages.
func (r Role) noun() string {
	if r == RoleTeacher {
		return "faculty"
	}
	return "student"
}

func (r Role) handleName() string {
	if r == RoleTeacher {
		return "Email"
	}
	return "Roll number"
}

type (
	// Record is a stored Student or Teacher row. Handle is the roll number for students
	// and the e-mail for teachers; Scope is the optional school code the record belongs to.
	Record struct {
		ID        string
		Handle    string
		Secret    string
		Name      string
		Group     string // class or department
		Scope     string
		Email     string
		CreatedAt time.Time
	}

	// Query is an exact, case-sensitive match on the role's handle field,
	// and on the secret field when Secret is set.
	Query struct {
		Handle     string
		Secret     *string
		MaxRecords int // 0 means no limit
	}

	Repository interface {
		FindRecords(ctx context.Context, role Role, q Query) ([]Record, error)
		CreateRecord(ctx context.Context, role Role, rec Record) (Record, error)
	}

	// Profile is either a StudentProfile or a TeacherProfile.
	Profile interface {
		ProfileID() string
		isProfile()
	}

	StudentProfile struct {
		RecordID string `json:"id"`
		RollNo   string `json:"rollNo"`
		Name     string `json:"name,omitempty"`
		Class    string `json:"class,omitempty"`
		SchoolID string `json:"schoolId,omitempty"`
		Email    string `json:"email,omitempty"`
	}

	TeacherProfile struct {
		RecordID   string `json:"id"`
		Email      string `json:"email"`
		Name       string `json:"name,omitempty"`
		Department string `json:"department,omitempty"`
		SchoolID   string `json:"schoolId,omitempty"`
	}

	NewAccount struct {
		Role       Role   `json:"role" validate:"required,role"`
		Identifier string `json:"identifier" validate:"required,notblank,handle,max=120"`
		Password   string `json:"password" validate:"required,min=4,max=72,pwdnospace"`
		FullName   string `json:"fullName" validate:"omitempty,max=120"`
	}

	Credentials struct {
		Role       Role   `json:"role" validate:"required,role"`
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
)

func (p StudentProfile) ProfileID() string { return p.RecordID }
func (StudentProfile) isProfile()          {}

func (p TeacherProfile) ProfileID() string { return p.RecordID }
func (TeacherProfile) isProfile()          {}

func profileFor(role Role, rec Record) Profile {
	if role == RoleTeacher {
		return TeacherProfile{
			RecordID:   rec.ID,
			Email:      rec.Handle,
			Name:       rec.Name,
			Department: rec.Group,
			SchoolID:   rec.Scope,
		}
	}
	return StudentProfile{
		RecordID: rec.ID,
		RollNo:   rec.Handle,
		Name:     rec.Name,
		Class:    rec.Group,
		SchoolID: rec.Scope,
		Email:    rec.Email,
	}
}

// Session is the resolved identity. It is only built by a successful login.
type Session struct {
	Role    Role          `json:"role"`
	Profile Profile       `json:"profile"`
	Campus  campus.Campus `json:"campus"`
}

// DisplayName is the profile's name, falling back to its handle.
func (s Session) DisplayName() string {
	switch p := s.Profile.(type) {
	case StudentProfile:
		if p.Name != "" {
			return p.Name
		}
		return p.RollNo
	case TeacherProfile:
		if p.Name != "" {
			return p.Name
		}
		return p.Email
	}
	return ""
}

// ContactEmail is the profile's e-mail, if any.
func (s Session) ContactEmail() string {
	switch p := s.Profile.(type) {
	case StudentProfile:
		return p.Email
	case TeacherProfile:
		return p.Email
	}
	return ""
}
