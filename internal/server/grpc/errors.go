package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/authz"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrBadSignature),
		errors.Is(err, common.ErrInvalidToken):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	default:
		return codes.Internal
	}
}

// toStatus maps service errors onto gRPC status codes. Access denials carry
// their reason code as the message. Internal details are logged, never
// returned.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	code := errorCode(err)

	var denied *authz.DeniedError
	if errors.As(err, &denied) {
		return status.Error(code, string(denied.Reason))
	}

	switch code {
	case codes.InvalidArgument:
		return status.Error(code, err.Error())
	case codes.AlreadyExists:
		return status.Error(code, "already exists")
	case codes.Unauthenticated:
		if errors.Is(err, common.ErrorUnauthorized) {
			return status.Error(code, "unauthorized")
		}
		return status.Error(code, err.Error())
	case codes.PermissionDenied:
		return status.Error(code, "forbidden")
	case codes.NotFound:
		return status.Error(code, "not found")
	default:
		s.logger.Error(ctx, "request failed", "request_id", requestID(ctx), "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}
