// Package grpc exposes the record store services over the CollectorService
// gRPC contract.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
	"github.com/dmitrijs2005/gophcollect/internal/server/services"
	"google.golang.org/grpc"
)

type userService interface {
	Register(ctx context.Context, email, displayName string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifierCandidate []byte) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type collectionService interface {
	List(ctx context.Context, userID string) ([]models.Collection, error)
	Create(ctx context.Context, userID string, d models.CollectionDraft) (*models.Collection, error)
	Update(ctx context.Context, userID, id string, p models.CollectionPatch) (*models.Collection, error)
	Delete(ctx context.Context, userID, id string) error
}

type collectibleService interface {
	List(ctx context.Context, userID, collectionID string) ([]models.Collectible, error)
	Create(ctx context.Context, userID string, d models.CollectibleDraft) (*models.Collectible, error)
	Update(ctx context.Context, userID, id string, p models.CollectiblePatch) (*models.Collectible, error)
	Delete(ctx context.Context, userID, id string) error
	CreateImageUpload(ctx context.Context, userID, id, contentType string) (*services.ImageUpload, error)
	GetImageURL(ctx context.Context, userID, id string) (*services.PresignedURL, error)
}

// RPCObserver records the outcome of every call.
type RPCObserver interface {
	ObserveRPC(fullMethod, code string, d time.Duration)
}

type GRPCServer struct {
	pb.UnimplementedCollectorServiceServer
	address      string
	users        userService
	collections  collectionService
	collectibles collectibleService
	observer     RPCObserver
	logger       logging.Logger
	jwtSecret    []byte
}

// Services groups the business services the server dispatches to.
type Services struct {
	Users        userService
	Collections  collectionService
	Collectibles collectibleService
}

func NewGRPCServer(a string, l logging.Logger, svc Services, observer RPCObserver, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		users:        svc.Users,
		collections:  svc.Collections,
		collectibles: svc.Collectibles,
		observer:     observer,
		jwtSecret:    []byte(secretKey),
	}
}

// NewServer builds a gRPC server with the interceptor chain and the
// service registered, without binding a listener.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.requestInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterCollectorServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}
