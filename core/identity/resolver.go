package identity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
)

// Resolver turns (role, campus, credentials) into a Session and provisions new accounts.
type Resolver struct {
	repo     Repository
	sessions *Store
	scheme   CredentialScheme
	log      core.Logger
}

func NewResolver(repo Repository, sessions *Store, scheme CredentialScheme, logger core.Logger) *Resolver {
	if scheme == "" {
		scheme = PlainScheme
	}
	return &Resolver{repo: repo, sessions: sessions, scheme: scheme, log: logger}
}

// Login resolves the credentials against the role's records and makes the result the active session.
func (r *Resolver) Login(ctx context.Context, role Role, identifier, secret string, selected *campus.Campus) (Session, error) {
	if selected == nil {
		return Session{}, newError(CampusNotSelected, role, nil)
	}
	handle := core.CleanString(identifier)
	if handle == "" || secret == "" {
		return Session{}, newError(InvalidCredentials, role, nil)
	}

	rec, found, err := r.findByCredentials(ctx, role, handle, secret)
	if err != nil {
		return Session{}, r.remoteError(role, "identity.Login", err)
	}
	if !found {
		return Session{}, newError(InvalidCredentials, role, nil)
	}
	if !selected.Matches(rec.Scope) {
		return Session{}, newError(CampusMismatch, role, nil)
	}

	sess := Session{
		Role:    role,
		Profile: profileFor(role, rec),
		Campus:  *selected,
	}
	r.sessions.Set(sess)
	return sess, nil
}

func (r *Resolver) findByCredentials(ctx context.Context, role Role, handle, secret string) (Record, bool, error) {
	q := Query{Handle: handle}
	if r.scheme.queriesSecret() {
		q.Secret = &secret
		q.MaxRecords = 1
	}
	recs, err := r.repo.FindRecords(ctx, role, q)
	if err != nil {
		return Record{}, false, err
	}
	for _, rec := range recs {
		if r.scheme.matches(rec.Secret, secret) {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// Signup creates a record for the account. It does not start a session.
func (r *Resolver) Signup(ctx context.Context, na NewAccount, selected *campus.Campus) (Profile, error) {
	role := na.Role
	handle := core.CleanString(na.Identifier)
	if handle == "" {
		return nil, newError(MissingIdentifier, role, nil)
	}
	if na.Password == "" {
		return nil, newError(MissingSecret, role, nil)
	}

	existing, err := r.repo.FindRecords(ctx, role, Query{Handle: handle})
	if err != nil {
		return nil, r.remoteError(role, "identity.Signup", err)
	}
	for _, rec := range existing {
		if selected.Matches(rec.Scope) {
			return nil, newError(DuplicateAccount, role, nil)
		}
	}

	secret, err := r.scheme.seal(na.Password)
	if err != nil {
		return nil, err
	}
	rec := Record{
		Handle: handle,
		Secret: secret,
		Name:   core.CleanString(na.FullName),
	}
	if role == RoleTeacher {
		rec.Email = handle
	}
	if selected != nil {
		rec.Scope = selected.ScopeKey()
	}
	rec, err = r.repo.CreateRecord(ctx, role, rec)
	if err != nil {
		return nil, r.remoteError(role, "identity.Signup", err)
	}
	return profileFor(role, rec), nil
}

// Logout drops the active session.
func (r *Resolver) Logout() {
	r.sessions.Clear()
}

// remoteError lets configuration errors through untouched; anything else is a RemoteService error.
func (r *Resolver) remoteError(role Role, op string, err error) error {
	if core.IsConfigError(err) {
		return errors.Cause(err)
	}
	r.log.Error(op+": record store call failed", err)
	return newError(RemoteService, role, err)
}
