package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	pb "github.com/dmitrijs2005/pagebuilder/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) List(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	entries, err := s.pages.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out, err := pb.EncodeIndex(entries)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	p, err := s.pages.Get(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, p)
}

func (s *GRPCServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in models.PageInput
	if err := pb.FromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	p, err := s.pages.Create(ctx, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, p)
}

func (s *GRPCServer) Update(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.UpdateRequest
	if err := pb.FromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if in.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "missing page id")
	}
	p, err := s.pages.Update(ctx, in.ID, in.Fields)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, p)
}

func (s *GRPCServer) Delete(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.pages.Delete(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) SetPublished(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.PublishRequest
	if err := pb.FromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	p, err := s.pages.SetPublished(ctx, in.ID, in.Publish)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, p)
}

func (s *GRPCServer) encode(ctx context.Context, p models.SavedPage) (*structpb.Struct, error) {
	out, err := pb.EncodeSavedPage(p)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

// toStatus maps service errors to gRPC status codes. Internal errors are
// logged and their detail is not sent to the client.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
