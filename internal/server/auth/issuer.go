package auth

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs tokens for authenticated identities.
type Issuer struct {
	key      []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

// NewIssuer validates its inputs once so IssueToken cannot fail on
// configuration. The key is copied.
func NewIssuer(key []byte, lifetime time.Duration, issuer string) (*Issuer, error) {
	if len(key) == 0 {
		return nil, &common.ConfigError{Field: "secret key", Reason: "is empty"}
	}
	if len(key) < MinKeyLength {
		return nil, &common.ConfigError{Field: "secret key", Reason: "must be at least 64 bytes for HS512"}
	}
	if lifetime < 0 {
		return nil, &common.ConfigError{Field: "token lifetime", Reason: "must not be negative"}
	}

	return &Issuer{
		key:      append([]byte(nil), key...),
		lifetime: lifetime,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

// Lifetime is the validity window of issued tokens.
func (i *Issuer) Lifetime() time.Duration {
	return i.lifetime
}

// IssueToken returns a compact HS512 JWT for id that expires after the
// configured lifetime.
func (i *Issuer) IssueToken(id *models.Identity) (string, error) {
	now := i.now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.ID, 10),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
		Name:  id.Name,
		Roles: append(jwt.ClaimStrings(nil), id.Roles...),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(i.key)
}
