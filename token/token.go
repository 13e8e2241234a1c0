package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ACL is a declarative set of path/method permissions embedded in a
// minted token. The consuming service enforces it; this server only
// declares it.
type ACL struct {
	Paths map[string]Permission `json:"paths"`
}

type Permission struct {
	Methods []string `json:"methods"`
}

// Claims is the claim set for every token this server mints.
type Claims struct {
	jwt.RegisteredClaims

	// ApplicationID identifies the messaging application. Empty on
	// identity-service tokens.
	ApplicationID string `json:"application_id,omitempty"`

	ACL *ACL `json:"acl,omitempty"`
}

// NewClaims builds a claim set for subject, valid from now for ttl.
func NewClaims(issuer, subject string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Mint signs claims with the given method and key material.
func Mint(method jwt.SigningMethod, key any, claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}
