package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks tokens produced by an Issuer with the same key.
type Verifier struct {
	key    []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(key []byte, issuer string) (*Verifier, error) {
	if len(key) < MinKeyLength {
		return nil, &common.ConfigError{Field: "secret key", Reason: "must be at least 64 bytes for HS512"}
	}
	return &Verifier{key: append([]byte(nil), key...), issuer: issuer, now: time.Now}, nil
}

// Verify parses token and returns its claims. Errors are one of
// common.ErrTokenExpired, common.ErrBadSignature or common.ErrInvalidToken.
// A token whose expiry is not strictly in the future is expired.
func (v *Verifier) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
		}
	}

	if !claims.ExpiresAt.After(v.now()) {
		return nil, common.ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidToken)
	}

	return claims, nil
}
