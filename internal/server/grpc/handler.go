package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) actor(ctx context.Context) (string, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return userID, nil
}

func empty() *structpb.Struct { return pb.NewBuilder().Build() }

// --- auth ---

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	return pb.NewBuilder().String(pb.KeyStatus, "OK").Build(), nil

}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := pb.NewReader(req)
	email := r.String(pb.KeyEmail)
	displayName := r.String(pb.KeyDisplayName)
	salt := r.Bytes(pb.KeySalt)
	verifier := r.Bytes(pb.KeyVerifier)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, email, displayName, salt, verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return pb.NewBuilder().Struct(pb.KeyUser, pb.UserToStruct(*user)).Build(), nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := pb.NewReader(req)
	email := r.String(pb.KeyEmail)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	salt, err := s.users.GetSalt(ctx, email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().Bytes(pb.KeySalt, salt).Build(), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := pb.NewReader(req)
	email := r.String(pb.KeyEmail)
	verifier := r.Bytes(pb.KeyVerifier)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	session, err := s.users.Login(ctx, email, verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().
		String(pb.KeyAccessToken, session.AccessToken).
		String(pb.KeyRefreshToken, session.RefreshToken).
		Struct(pb.KeyUser, pb.UserToStruct(session.User)).
		Build(), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := pb.NewReader(req)
	token := r.String(pb.KeyRefreshToken)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	pair, err := s.users.RefreshToken(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().
		String(pb.KeyAccessToken, pair.AccessToken).
		String(pb.KeyRefreshToken, pair.RefreshToken).
		Build(), nil
}

func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Me(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().Struct(pb.KeyUser, pb.UserToStruct(*user)).Build(), nil
}

// --- collections ---

func (s *GRPCServer) ListCollections(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.collections.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.ListToStruct(items, pb.CollectionToStruct), nil
}

func (s *GRPCServer) CreateCollection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := pb.CollectionDraftFromStruct(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.collections.Create(ctx, userID, draft)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.CollectionToStruct(*c), nil
}

func (s *GRPCServer) UpdateCollection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	id, raw, err := readUpdate(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	patch, err := pb.CollectionPatchFromStruct(raw)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.collections.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.CollectionToStruct(*c), nil
}

func (s *GRPCServer) DeleteCollection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	id, err := readID(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.collections.Delete(ctx, userID, id); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return empty(), nil
}

// --- collectibles ---

func (s *GRPCServer) ListCollectibles(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	r := pb.NewReader(req)
	collectionID := r.String(pb.KeyCollectionID)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	items, err := s.collectibles.List(ctx, userID, collectionID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.ListToStruct(items, pb.CollectibleToStruct), nil
}

func (s *GRPCServer) CreateCollectible(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := pb.CollectibleDraftFromStruct(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.collectibles.Create(ctx, userID, draft)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.CollectibleToStruct(*c), nil
}

func (s *GRPCServer) UpdateCollectible(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	id, raw, err := readUpdate(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	patch, err := pb.CollectiblePatchFromStruct(raw)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	c, err := s.collectibles.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.CollectibleToStruct(*c), nil
}

func (s *GRPCServer) DeleteCollectible(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	id, err := readID(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.collectibles.Delete(ctx, userID, id); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return empty(), nil
}

// --- images ---

func (s *GRPCServer) CreateImageUpload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	r := pb.NewReader(req)
	id := r.String(pb.KeyID)
	contentType := r.String(pb.KeyContentType)
	if err := r.Err(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	up, err := s.collectibles.CreateImageUpload(ctx, userID, id, contentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().
		String(pb.KeyObjectKey, up.Key).
		String(pb.KeyURL, up.URL).
		Time(pb.KeyExpiresAt, up.ExpiresAt).
		Build(), nil
}

func (s *GRPCServer) GetImageURL(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}

	id, err := readID(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u, err := s.collectibles.GetImageURL(ctx, userID, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return pb.NewBuilder().
		String(pb.KeyURL, u.URL).
		Time(pb.KeyExpiresAt, u.ExpiresAt).
		Build(), nil
}

// --- request helpers ---

func readID(req *structpb.Struct) (string, error) {
	r := pb.NewReader(req)
	id := r.String(pb.KeyID)
	return id, r.Err()
}

func readUpdate(req *structpb.Struct) (string, *structpb.Struct, error) {
	r := pb.NewReader(req)
	id := r.String(pb.KeyID)
	patch := r.Struct(pb.KeyPatch)
	return id, patch, r.Err()
}

var _ pb.CollectorServiceServer = (*GRPCServer)(nil)
