package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"abc":          "abc",
		"":             "",
	}
	for header, want := range cases {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, header))
		assert.Equal(t, want, bearerToken(ctx), header)
	}
	assert.Empty(t, bearerToken(context.Background()))
}

func TestInterceptor_UnknownMethodIsDenied(t *testing.T) {
	s := newTestServer(t)
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Other"}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Equal(t, string(authz.ReasonUnknownPolicy), status.Convert(err).Message())
}

func TestInterceptor_AnonymousAllowsWithoutToken(t *testing.T) {
	s := newTestServer(t)
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodLogin}

	called := false
	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, func(ctx context.Context, _ any) (any, error) {
		called = true
		_, ok := ClaimsFromContext(ctx)
		assert.False(t, ok)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_ValidToken_SetsClaims(t *testing.T) {
	s := newTestServer(t)

	token, err := s.issuer.IssueToken(&models.Identity{ID: 5, Name: "bob", Roles: []string{"Admin"}})
	require.NoError(t, err)

	md := metadata.Pairs(common.AccessTokenHeaderName, common.BearerPrefix+token)
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodSample}

	var got *auth.Claims
	_, err = s.accessTokenInterceptor(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		got, _ = ClaimsFromContext(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "5", got.Subject)
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer(t)

	expired, err := auth.NewIssuer(testKey, 0, "")
	require.NoError(t, err)
	token, err := expired.IssueToken(&models.Identity{ID: 5, Name: "bob", Roles: []string{"Admin"}})
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
	_, err = s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodMe}, func(context.Context, any) (any, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "expired", status.Convert(err).Message())
}

func TestToStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cases := []struct {
		err  error
		code codes.Code
	}{
		{&common.ValidationError{Fields: []common.FieldError{{Field: "name", Message: "is required"}}}, codes.InvalidArgument},
		{common.ErrAlreadyExists, codes.AlreadyExists},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{common.ErrForbidden, codes.PermissionDenied},
		{common.ErrorNotFound, codes.NotFound},
		{common.NewStoreError("op", assert.AnError), codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(s.toStatus(ctx, tc.err)), tc.err.Error())
	}

	assert.Equal(t, "internal error", status.Convert(s.toStatus(ctx, common.NewStoreError("op", assert.AnError))).Message())
}

func TestToStatus_Denials(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	cases := []struct {
		reason authz.Reason
		code   codes.Code
	}{
		{authz.ReasonMissingToken, codes.Unauthenticated},
		{authz.ReasonExpired, codes.Unauthenticated},
		{authz.ReasonBadSignature, codes.Unauthenticated},
		{authz.ReasonInvalidToken, codes.Unauthenticated},
		{authz.ReasonMissingClaim, codes.PermissionDenied},
		{authz.ReasonUnknownPolicy, codes.PermissionDenied},
	}
	for _, tc := range cases {
		st := status.Convert(s.toStatus(ctx, authz.Decision{Reason: tc.reason}.Err()))
		assert.Equal(t, tc.code, st.Code(), string(tc.reason))
		assert.Equal(t, string(tc.reason), st.Message())
	}
}
