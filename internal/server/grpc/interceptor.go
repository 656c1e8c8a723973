package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const adminRole = common.AdminRoleName

const requestIDHeader = "x-request-id"

type ctxKey string

const (
	claimsKey    ctxKey = "claims"
	requestIDKey ctxKey = "requestID"
)

// ClaimsFromContext returns the verified token claims of the current call,
// if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDHeader); len(v) > 0 {
			id = v[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	ctx = context.WithValue(ctx, requestIDKey, id)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))

	started := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request handled",
		"request_id", id,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(started),
	)

	return resp, err
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	v := strings.TrimSpace(values[0])
	if len(v) >= len(common.BearerPrefix) && strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(v[len(common.BearerPrefix):])
	}
	return v
}

// accessTokenInterceptor authorizes each call against the policy of its
// method. Methods without a policy resolve to an unknown policy and are
// denied.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	decision, claims := s.guard.Authorize(bearerToken(ctx), s.policies[info.FullMethod])
	if !decision.Allowed {
		s.logger.Info(ctx, "access denied", "request_id", requestID(ctx), "method", info.FullMethod, "reason", string(decision.Reason))
		return nil, s.toStatus(ctx, decision.Err())
	}

	if claims != nil {
		ctx = context.WithValue(ctx, claimsKey, claims)
	}

	return handler(ctx, req)
}
