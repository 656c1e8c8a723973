// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// AccessTokenHeaderName is the gRPC metadata key (and HTTP header) that
// carries the bearer token on inbound requests.
const AccessTokenHeaderName = "authorization"

// BearerPrefix precedes the token in AccessTokenHeaderName values.
const BearerPrefix = "Bearer "

// AdminRoleName is the privileged role that is never self-assignable.
const AdminRoleName = "Admin"
