package identity

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

// CredentialScheme decides how secrets are stored in, and matched against, the record store.
type CredentialScheme string

const (
	// PlainScheme stores secrets as typed and matches them inside the remote query.
	PlainScheme CredentialScheme = "plain"
	// BcryptScheme stores bcrypt hashes and matches them locally after a handle-only query.
	BcryptScheme CredentialScheme = "bcrypt"
)

func ParseCredentialScheme(s string) (CredentialScheme, error) {
	switch sc := CredentialScheme(core.CleanString(s, true /* lower */)); sc {
	case "", PlainScheme:
		return PlainScheme, nil
	case BcryptScheme:
		return sc, nil
	}
	return "", fmt.Errorf("unknown credential scheme %q", s)
}

func (sc CredentialScheme) queriesSecret() bool {
	return sc != BcryptScheme
}

func (sc CredentialScheme) seal(secret string) (string, error) {
	if sc != BcryptScheme {
		return secret, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "identity.seal")
	}
	return string(hash), nil
}

func (sc CredentialScheme) matches(stored, secret string) bool {
	if sc != BcryptScheme {
		return stored == secret
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}
