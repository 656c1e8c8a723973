// Package authz decides whether a verified token satisfies an access
// policy. Role matching is exact and there is no role hierarchy.
package authz

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonMissingToken  Reason = "missing-token"
	ReasonMissingClaim  Reason = "missing-claim"
	ReasonExpired       Reason = "expired"
	ReasonBadSignature  Reason = "bad-signature"
	ReasonInvalidToken  Reason = "invalid-token"
	ReasonUnknownPolicy Reason = "unknown-policy"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// DeniedError is the error form of a denied Decision. Error returns the
// reason code; it unwraps to the matching sentinel from internal/common.
type DeniedError struct {
	Reason Reason
	Err    error
}

func (e *DeniedError) Error() string {
	return string(e.Reason)
}

func (e *DeniedError) Unwrap() error {
	return e.Err
}

// Err maps a denial onto the shared error values; it is nil when allowed.
// Token problems map to unauthorized, the rest to forbidden.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	var sentinel error
	switch d.Reason {
	case ReasonMissingToken:
		sentinel = common.ErrorUnauthorized
	case ReasonExpired:
		sentinel = common.ErrTokenExpired
	case ReasonBadSignature:
		sentinel = common.ErrBadSignature
	case ReasonInvalidToken:
		sentinel = common.ErrInvalidToken
	default:
		sentinel = common.ErrForbidden
	}
	return &DeniedError{Reason: d.Reason, Err: sentinel}
}

// Evaluate allows iff claims carry a role equal to requiredRole. The
// anonymous policy name always allows, whatever the claims.
func Evaluate(claims *auth.Claims, requiredRole string) Decision {
	if requiredRole == PolicyAnonymous {
		return allow()
	}
	if claims == nil || !claims.HasRole(requiredRole) {
		return deny(ReasonMissingClaim)
	}
	return allow()
}

// Policy names an access rule. Anonymous policies need no token at all;
// AnyAuthenticated accepts any valid token; otherwise RequiredRole must be
// held.
type Policy struct {
	Name             string
	RequiredRole     string
	Anonymous        bool
	AnyAuthenticated bool
}

const (
	PolicyAnonymous     = "anonymous"
	PolicyAuthenticated = "authenticated"
)

var (
	Anonymous     = Policy{Name: PolicyAnonymous, Anonymous: true}
	Authenticated = Policy{Name: PolicyAuthenticated, AnyAuthenticated: true}
)

// RequireRole returns a policy named after role that requires it.
func RequireRole(role string) Policy {
	return Policy{Name: role, RequiredRole: role}
}

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Guard verifies tokens and evaluates them against registered policies.
type Guard struct {
	verifier TokenVerifier
	policies map[string]Policy
}

// NewGuard registers policies by name. Anonymous and Authenticated are
// always present.
func NewGuard(v TokenVerifier, policies ...Policy) *Guard {
	g := &Guard{verifier: v, policies: map[string]Policy{
		Anonymous.Name:     Anonymous,
		Authenticated.Name: Authenticated,
	}}
	for _, p := range policies {
		g.policies[p.Name] = p
	}
	return g
}

// Authorize checks token against the named policy. Claims are returned
// whenever the token verified, even if the policy then denies.
func (g *Guard) Authorize(token, policyName string) (Decision, *auth.Claims) {
	p, ok := g.policies[policyName]
	if !ok {
		return deny(ReasonUnknownPolicy), nil
	}

	if p.Anonymous {
		// Invalid tokens are ignored here.
		if token == "" {
			return allow(), nil
		}
		claims, err := g.verifier.Verify(token)
		if err != nil {
			return allow(), nil
		}
		return allow(), claims
	}

	if token == "" {
		return deny(ReasonMissingToken), nil
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return deny(reasonFor(err)), nil
	}

	if p.AnyAuthenticated {
		return allow(), claims
	}
	return Evaluate(claims, p.RequiredRole), claims
}

func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, common.ErrBadSignature):
		return ReasonBadSignature
	default:
		return ReasonInvalidToken
	}
}
