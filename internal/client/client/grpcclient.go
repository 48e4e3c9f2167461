package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	pb "github.com/dmitrijs2005/pagebuilder/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.PageServiceClient
}

// NewGRPCClient connects lazily to endpointURL. A non-positive timeout
// falls back to 10s.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewPageServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) List(ctx context.Context) ([]models.IndexEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.List(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return pb.DecodeIndex(resp)
}

func (s *GRPCClient) Get(ctx context.Context, id string) (models.SavedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Get(ctx, wrapperspb.String(id))
	if err != nil {
		return models.SavedPage{}, s.mapError(err)
	}
	return pb.DecodeSavedPage(resp)
}

func (s *GRPCClient) Create(ctx context.Context, in models.PageInput) (models.SavedPage, error) {
	req, err := pb.ToStruct(in)
	if err != nil {
		return models.SavedPage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Create(ctx, req)
	if err != nil {
		return models.SavedPage{}, s.mapError(err)
	}
	return pb.DecodeSavedPage(resp)
}

func (s *GRPCClient) Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error) {
	req, err := pb.ToStruct(pb.UpdateRequest{ID: id, Fields: in})
	if err != nil {
		return models.SavedPage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Update(ctx, req)
	if err != nil {
		return models.SavedPage{}, s.mapError(err)
	}
	return pb.DecodeSavedPage(resp)
}

func (s *GRPCClient) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Delete(ctx, wrapperspb.String(id)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error) {
	req, err := pb.ToStruct(pb.PublishRequest{ID: id, Publish: publish})
	if err != nil {
		return models.SavedPage{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.SetPublished(ctx, req)
	if err != nil {
		return models.SavedPage{}, s.mapError(err)
	}
	return pb.DecodeSavedPage(resp)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
