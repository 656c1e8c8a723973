// Package auth issues and verifies the HS512 session tokens.
package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest accepted HS512 signing key, in bytes.
const MinKeyLength = 64

// Claims is the token payload: the registered claims plus the user's
// display name and one "role" entry per role held.
type Claims struct {
	jwt.RegisteredClaims
	Name  string           `json:"name"`
	Roles jwt.ClaimStrings `json:"role,omitempty"`
}

// UserID parses the subject back into the numeric user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// HasRole reports whether role is among the role claims, compared exactly.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
