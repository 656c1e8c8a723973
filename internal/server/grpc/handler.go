package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func identityResponse(id *models.Identity) pb.IdentityResponse {
	return pb.IdentityResponse{ID: id.ID, Name: id.Name, Email: id.Email, Roles: id.Roles}
}

func (s *GRPCServer) encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.RegisterRequest
	if err := pb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Info(ctx, "Registration request", "request_id", requestID(ctx))

	id, err := s.users.Register(ctx, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, identityResponse(id))
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req pb.LoginRequest
	if err := pb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	id, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	token, err := s.issuer.IssueToken(id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, pb.LoginResponse{Token: token})
}

func (s *GRPCServer) Roles(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	roles, err := s.users.AssignableRoles(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, pb.RolesResponse{Roles: roles})
}

func (s *GRPCServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	id, err := s.users.IdentityByID(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, identityResponse(id))
}

func (s *GRPCServer) Sample(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.encode(ctx, pb.MessageResponse{Message: "Sample : OK"})
}

func (s *GRPCServer) SamplePublic(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.encode(ctx, pb.MessageResponse{Message: "Sample/Public : OK"})
}
