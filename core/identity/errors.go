package identity

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	CampusNotSelected Kind = iota + 1
	InvalidCredentials
	CampusMismatch
	DuplicateAccount
	MissingIdentifier
	MissingSecret
	RemoteService
)

func (k Kind) String() string {
	switch k {
	case CampusNotSelected:
		return "campus_not_selected"
	case InvalidCredentials:
		return "invalid_credentials"
	case CampusMismatch:
		return "campus_mismatch"
	case DuplicateAccount:
		return "duplicate_account"
	case MissingIdentifier:
		return "missing_identifier"
	case MissingSecret:
		return "missing_secret"
	case RemoteService:
		return "remote_service"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a user-facing identity failure. Msg is safe to show as is.
type Error struct {
	Kind Kind
	Role Role
	Msg  string
	Err  error
}

var (
	ErrCampusNotSelected  = &Error{Kind: CampusNotSelected}
	ErrInvalidCredentials = &Error{Kind: InvalidCredentials}
	ErrCampusMismatch     = &Error{Kind: CampusMismatch}
	ErrDuplicateAccount   = &Error{Kind: DuplicateAccount}
	ErrMissingIdentifier  = &Error{Kind: MissingIdentifier}
	ErrMissingSecret      = &Error{Kind: MissingSecret}
	ErrRemoteService      = &Error{Kind: RemoteService}
)

func newError(kind Kind, role Role, cause error) *Error {
	e := &Error{Kind: kind, Role: role, Err: cause}
	switch kind {
	case CampusNotSelected:
		e.Msg = "Please select your campus first"
	case InvalidCredentials:
		e.Msg = fmt.Sprintf("Invalid %s credentials", role.noun())
	case CampusMismatch:
		e.Msg = fmt.Sprintf("This %s account belongs to a different campus", role.noun())
	case DuplicateAccount:
		e.Msg = fmt.Sprintf("A %s account with this %s already exists", role.noun(), strings.ToLower(role.handleName()))
	case MissingIdentifier:
		e.Msg = fmt.Sprintf("%s is required", role.handleName())
	case MissingSecret:
		e.Msg = "Password is required"
	case RemoteService:
		e.Msg = "Identity service unavailable"
		if cause != nil {
			e.Msg = errors.Cause(cause).Error()
		}
	}
	return e
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by Kind, and by Role when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Role == "" || t.Role == e.Role)
}
