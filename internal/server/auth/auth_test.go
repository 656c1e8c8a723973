package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte(strings.Repeat("k", MinKeyLength))

func newPair(t *testing.T, lifetime time.Duration) (*Issuer, *Verifier) {
	t.Helper()
	iss, err := NewIssuer(testKey, lifetime, "gophauth")
	require.NoError(t, err)
	ver, err := NewVerifier(testKey, "gophauth")
	require.NoError(t, err)
	return iss, ver
}

func TestNewIssuer_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		key      []byte
		lifetime time.Duration
	}{
		{"empty key", nil, time.Hour},
		{"short key", []byte("short"), time.Hour},
		{"63 bytes", testKey[:MinKeyLength-1], time.Hour},
		{"negative lifetime", testKey, -time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewIssuer(tc.key, tc.lifetime, "")
			require.ErrorIs(t, err, common.ErrConfig)
			var cfgErr *common.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	_, err := NewVerifier([]byte("short"), "")
	assert.ErrorIs(t, err, common.ErrConfig)
}

func TestIssueToken_ClaimFidelity(t *testing.T) {
	t.Parallel()

	iss, ver := newPair(t, 24*time.Hour)
	id := &models.Identity{ID: 42, Name: "bob", Roles: []string{"Editor", "Viewer"}}

	tok, err := iss.IssueToken(id)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := ver.Verify(tok)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "bob", claims.Name)
	assert.Equal(t, jwt.ClaimStrings{"Editor", "Viewer"}, claims.Roles)
	assert.Equal(t, "gophauth", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), uid)
}

func TestIssueToken_WireFormat(t *testing.T) {
	t.Parallel()

	iss, _ := newPair(t, time.Hour)
	tok, err := iss.IssueToken(&models.Identity{ID: 7, Name: "ann", Roles: []string{"Admin"}})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var h map[string]any
	require.NoError(t, json.Unmarshal(header, &h))
	assert.Equal(t, "HS512", h["alg"])

	var p map[string]any
	require.NoError(t, json.Unmarshal(payload, &p))
	assert.Equal(t, "7", p["sub"])
	assert.Equal(t, "ann", p["name"])
	assert.Equal(t, []any{"Admin"}, p["role"])
	assert.Contains(t, p, "exp")
}

func TestIssueToken_NoRoles(t *testing.T) {
	t.Parallel()

	iss, ver := newPair(t, time.Hour)
	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x"})
	require.NoError(t, err)

	claims, err := ver.Verify(tok)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
	assert.False(t, claims.HasRole("Admin"))
}

func TestVerify_ZeroLifetimeIsExpired(t *testing.T) {
	t.Parallel()

	iss, ver := newPair(t, 0)
	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x"})
	require.NoError(t, err)

	_, err = ver.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	iss, ver := newPair(t, time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x"})
	require.NoError(t, err)

	_, err = ver.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongKey(t *testing.T) {
	t.Parallel()

	iss, _ := newPair(t, time.Hour)
	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x"})
	require.NoError(t, err)

	other, err := NewVerifier([]byte(strings.Repeat("z", MinKeyLength)), "gophauth")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, common.ErrBadSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	iss, ver := newPair(t, time.Hour)
	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x", Roles: []string{"Viewer"}})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forged, err := json.Marshal(map[string]any{
		"sub": "1", "name": "x", "role": []string{"Admin"},
		"exp": time.Now().Add(time.Hour).Unix(), "iss": "gophauth",
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = ver.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrBadSignature)
}

func TestVerify_PinsAlgorithm(t *testing.T) {
	t.Parallel()

	_, ver := newPair(t, time.Hour)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "gophauth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: jwt.ClaimStrings{"Admin"},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = ver.Verify(tok)
	assert.ErrorIs(t, err, common.ErrBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, ver := newPair(t, time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := ver.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	t.Parallel()

	iss, err := NewIssuer(testKey, time.Hour, "someone-else")
	require.NoError(t, err)
	_, ver := newPair(t, time.Hour)

	tok, err := iss.IssueToken(&models.Identity{ID: 1, Name: "x"})
	require.NoError(t, err)

	_, err = ver.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
