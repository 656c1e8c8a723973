// Package client is the gRPC client for the gophauth AuthService. It keeps
// the session's bearer token and maps gRPC status codes to the sentinel
// errors in errors.go.
package client
