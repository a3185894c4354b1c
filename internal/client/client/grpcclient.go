package client

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const saltTimeout = 12 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CollectorServiceClient

	mu          sync.Mutex
	tokens      Tokens
	onRefreshed func(Tokens)
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	if len(md.Get(common.RequestIDHeaderName)) == 0 {
		md.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, rotates the pair once and repeats the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	tokens := s.Tokens()
	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tokens.RefreshToken == "" || method == pb.CollectorService_RefreshToken_FullMethodName {
		return err
	}

	refreshed, rerr := s.refresh(ctx, tokens.RefreshToken)
	if rerr != nil {
		return err
	}

	return invoker(withAccessToken(ctx, refreshed.AccessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	resp, err := s.client.RefreshToken(ctx, pb.NewBuilder().String(pb.KeyRefreshToken, refreshToken).Build())
	if err != nil {
		return Tokens{}, err
	}
	r := pb.NewReader(resp)
	t := Tokens{AccessToken: r.String(pb.KeyAccessToken), RefreshToken: r.String(pb.KeyRefreshToken)}
	if err := r.Err(); err != nil {
		return Tokens{}, err
	}

	s.mu.Lock()
	s.tokens = t
	fn := s.onRefreshed
	s.mu.Unlock()

	if fn != nil {
		fn(t)
	}
	return t, nil
}

func NewCollectorClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewCollectorServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *GRPCClient) SetTokens(t Tokens) {
	s.mu.Lock()
	s.tokens = t
	s.mu.Unlock()
}

// OnTokensRefreshed registers fn to run after the interceptor rotates the
// token pair.
func (s *GRPCClient) OnTokensRefreshed(fn func(Tokens)) {
	s.mu.Lock()
	s.onRefreshed = fn
	s.mu.Unlock()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, pb.NewBuilder().Build())
	if err != nil {
		return mapError(err)
	}

	if pb.NewReader(resp).String(pb.KeyStatus) != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, email, displayName string, salt, verifier []byte) (models.User, error) {

	req := pb.NewBuilder().
		String(pb.KeyEmail, email).
		String(pb.KeyDisplayName, displayName).
		Bytes(pb.KeySalt, salt).
		Bytes(pb.KeyVerifier, verifier).
		Build()

	resp, err := s.client.RegisterUser(ctx, req)
	if err != nil {
		return models.User{}, mapError(err)
	}

	return readUser(resp)

}

func (s *GRPCClient) GetSalt(ctx context.Context, email string) ([]byte, error) {

	ctx, cancel := context.WithTimeout(ctx, saltTimeout)
	defer cancel()

	resp, err := s.client.GetSalt(ctx, pb.NewBuilder().String(pb.KeyEmail, email).Build())
	if err != nil {
		return nil, mapError(err)
	}

	r := pb.NewReader(resp)
	salt := r.Bytes(pb.KeySalt)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return salt, nil
}

// Login stores the issued token pair on success.
func (s *GRPCClient) Login(ctx context.Context, email string, verifier []byte) (models.User, error) {

	req := pb.NewBuilder().String(pb.KeyEmail, email).Bytes(pb.KeyVerifier, verifier).Build()

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return models.User{}, mapError(err)
	}

	r := pb.NewReader(resp)
	t := Tokens{AccessToken: r.String(pb.KeyAccessToken), RefreshToken: r.String(pb.KeyRefreshToken)}
	if err := r.Err(); err != nil {
		return models.User{}, err
	}

	user, err := readUser(resp)
	if err != nil {
		return models.User{}, err
	}

	s.SetTokens(t)
	return user, nil

}

func (s *GRPCClient) Me(ctx context.Context) (models.User, error) {
	resp, err := s.client.Me(ctx, pb.NewBuilder().Build())
	if err != nil {
		return models.User{}, mapError(err)
	}
	return readUser(resp)
}

func readUser(resp *structpb.Struct) (models.User, error) {
	r := pb.NewReader(resp)
	u := r.Struct(pb.KeyUser)
	if err := r.Err(); err != nil {
		return models.User{}, err
	}
	return pb.UserFromStruct(u)
}

// --- collections ---

func (s *GRPCClient) ListCollections(ctx context.Context) ([]models.Collection, error) {
	resp, err := s.client.ListCollections(ctx, pb.NewBuilder().Build())
	if err != nil {
		return nil, mapError(err)
	}
	return pb.ListFromStruct(resp, pb.CollectionFromStruct)
}

func (s *GRPCClient) CreateCollection(ctx context.Context, d models.CollectionDraft) (models.Collection, error) {
	resp, err := s.client.CreateCollection(ctx, pb.CollectionDraftToStruct(d))
	if err != nil {
		return models.Collection{}, mapError(err)
	}
	return pb.CollectionFromStruct(resp)
}

func (s *GRPCClient) UpdateCollection(ctx context.Context, id string, p models.CollectionPatch) (models.Collection, error) {
	resp, err := s.client.UpdateCollection(ctx, pb.UpdateRequest(id, pb.CollectionPatchToStruct(p)))
	if err != nil {
		return models.Collection{}, mapError(err)
	}
	return pb.CollectionFromStruct(resp)
}

func (s *GRPCClient) DeleteCollection(ctx context.Context, id string) error {
	_, err := s.client.DeleteCollection(ctx, pb.IDRequest(id))
	return mapError(err)
}

// --- collectibles ---

// ListCollectibles returns every collectible of the actor, or only the
// members of collectionID when it is not empty.
func (s *GRPCClient) ListCollectibles(ctx context.Context, collectionID string) ([]models.Collectible, error) {
	resp, err := s.client.ListCollectibles(ctx, pb.NewBuilder().OptString(pb.KeyCollectionID, collectionID).Build())
	if err != nil {
		return nil, mapError(err)
	}
	return pb.ListFromStruct(resp, pb.CollectibleFromStruct)
}

func (s *GRPCClient) CreateCollectible(ctx context.Context, d models.CollectibleDraft) (models.Collectible, error) {
	resp, err := s.client.CreateCollectible(ctx, pb.CollectibleDraftToStruct(d))
	if err != nil {
		return models.Collectible{}, mapError(err)
	}
	return pb.CollectibleFromStruct(resp)
}

func (s *GRPCClient) UpdateCollectible(ctx context.Context, id string, p models.CollectiblePatch) (models.Collectible, error) {
	resp, err := s.client.UpdateCollectible(ctx, pb.UpdateRequest(id, pb.CollectiblePatchToStruct(p)))
	if err != nil {
		return models.Collectible{}, mapError(err)
	}
	return pb.CollectibleFromStruct(resp)
}

func (s *GRPCClient) DeleteCollectible(ctx context.Context, id string) error {
	_, err := s.client.DeleteCollectible(ctx, pb.IDRequest(id))
	return mapError(err)
}

// --- images ---

func (s *GRPCClient) CreateImageUpload(ctx context.Context, id, contentType string) (ImageUpload, error) {
	req := pb.NewBuilder().String(pb.KeyID, id).String(pb.KeyContentType, contentType).Build()
	resp, err := s.client.CreateImageUpload(ctx, req)
	if err != nil {
		return ImageUpload{}, mapError(err)
	}

	r := pb.NewReader(resp)
	u := ImageUpload{
		Key:       r.String(pb.KeyObjectKey),
		URL:       r.String(pb.KeyURL),
		ExpiresAt: r.Time(pb.KeyExpiresAt),
	}
	if err := r.Err(); err != nil {
		return ImageUpload{}, err
	}
	return u, nil
}

func (s *GRPCClient) GetImageURL(ctx context.Context, id string) (ImageURL, error) {
	resp, err := s.client.GetImageURL(ctx, pb.IDRequest(id))
	if err != nil {
		return ImageURL{}, mapError(err)
	}

	r := pb.NewReader(resp)
	u := ImageURL{URL: r.String(pb.KeyURL), ExpiresAt: r.Time(pb.KeyExpiresAt)}
	if err := r.Err(); err != nil {
		return ImageURL{}, err
	}
	return u, nil
}
