// Package grpc exposes the page service over gRPC for the editor.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	pb "github.com/dmitrijs2005/pagebuilder/internal/proto"
	"google.golang.org/grpc"
)

// Pages is the page service the handlers delegate to.
type Pages interface {
	List(ctx context.Context) ([]models.IndexEntry, error)
	Get(ctx context.Context, id string) (models.SavedPage, error)
	Create(ctx context.Context, in models.PageInput) (models.SavedPage, error)
	Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error)
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error)
}

type GRPCServer struct {
	pb.UnimplementedPageServiceServer
	address string
	pages   Pages
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, pages Pages) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		pages:   pages,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.loggingInterceptor))
	pb.RegisterPageServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
