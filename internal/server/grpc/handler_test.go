package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
	"github.com/dmitrijs2005/gophcollect/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ---- fakes ----

type fakeUsers struct {
	regResp *models.User
	regErr  error
	gotReg  struct {
		email, name    string
		salt, verifier []byte
	}

	saltResp []byte
	saltErr  error

	loginResp *services.Session
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	meResp *models.User
	meErr  error
	meFor  string
}

func (f *fakeUsers) Register(ctx context.Context, email, displayName string, salt, verifier []byte) (*models.User, error) {
	f.gotReg.email, f.gotReg.name, f.gotReg.salt, f.gotReg.verifier = email, displayName, salt, verifier
	return f.regResp, f.regErr
}
func (f *fakeUsers) GetSalt(ctx context.Context, email string) ([]byte, error) {
	return f.saltResp, f.saltErr
}
func (f *fakeUsers) Login(ctx context.Context, email string, verifierCandidate []byte) (*services.Session, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUsers) Me(ctx context.Context, userID string) (*models.User, error) {
	f.meFor = userID
	return f.meResp, f.meErr
}

type fakeCollections struct {
	items []models.Collection
	out   *models.Collection
	err   error

	gotUser  string
	gotID    string
	gotDraft models.CollectionDraft
	gotPatch models.CollectionPatch
}

func (f *fakeCollections) List(ctx context.Context, userID string) ([]models.Collection, error) {
	f.gotUser = userID
	return f.items, f.err
}
func (f *fakeCollections) Create(ctx context.Context, userID string, d models.CollectionDraft) (*models.Collection, error) {
	f.gotUser, f.gotDraft = userID, d
	return f.out, f.err
}
func (f *fakeCollections) Update(ctx context.Context, userID, id string, p models.CollectionPatch) (*models.Collection, error) {
	f.gotUser, f.gotID, f.gotPatch = userID, id, p
	return f.out, f.err
}
func (f *fakeCollections) Delete(ctx context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}

type fakeCollectibles struct {
	items []models.Collectible
	out   *models.Collectible
	err   error

	upload *services.ImageUpload
	url    *services.PresignedURL

	gotUser        string
	gotID          string
	gotCollection  string
	gotContentType string
	gotDraft       models.CollectibleDraft
	gotPatch       models.CollectiblePatch
}

func (f *fakeCollectibles) List(ctx context.Context, userID, collectionID string) ([]models.Collectible, error) {
	f.gotUser, f.gotCollection = userID, collectionID
	return f.items, f.err
}
func (f *fakeCollectibles) Create(ctx context.Context, userID string, d models.CollectibleDraft) (*models.Collectible, error) {
	f.gotUser, f.gotDraft = userID, d
	return f.out, f.err
}
func (f *fakeCollectibles) Update(ctx context.Context, userID, id string, p models.CollectiblePatch) (*models.Collectible, error) {
	f.gotUser, f.gotID, f.gotPatch = userID, id, p
	return f.out, f.err
}
func (f *fakeCollectibles) Delete(ctx context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}
func (f *fakeCollectibles) CreateImageUpload(ctx context.Context, userID, id, contentType string) (*services.ImageUpload, error) {
	f.gotUser, f.gotID, f.gotContentType = userID, id, contentType
	return f.upload, f.err
}
func (f *fakeCollectibles) GetImageURL(ctx context.Context, userID, id string) (*services.PresignedURL, error) {
	f.gotUser, f.gotID = userID, id
	return f.url, f.err
}

// ---- helpers ----

func newServer(u userService, cs collectionService, cb collectibleService) *GRPCServer {
	return &GRPCServer{
		address:      "127.0.0.1:0",
		users:        u,
		collections:  cs,
		collectibles: cb,
		logger:       logging.Nop(),
		jwtSecret:    []byte("k"),
	}
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), UserIDKey, userID)
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if status.Code(err) != want {
		t.Fatalf("want %v, got %v (%v)", want, status.Code(err), err)
	}
}

// ---- auth ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUsers{}, &fakeCollections{}, &fakeCollectibles{})
	resp, err := s.Ping(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if got := pb.NewReader(resp).String(pb.KeyStatus); got != "OK" {
		t.Fatalf("unexpected status: %q", got)
	}
}

func TestRegisterUser(t *testing.T) {
	u := &fakeUsers{regResp: &models.User{ID: "u1", Email: "a@b.c"}}
	s := newServer(u, nil, nil)

	req := pb.NewBuilder().
		String(pb.KeyEmail, "a@b.c").
		String(pb.KeyDisplayName, "A").
		Bytes(pb.KeySalt, []byte("salt")).
		Bytes(pb.KeyVerifier, []byte("ver")).
		Build()
	resp, err := s.RegisterUser(context.Background(), req)
	if err != nil {
		t.Fatalf("RegisterUser error: %v", err)
	}
	if string(u.gotReg.salt) != "salt" || string(u.gotReg.verifier) != "ver" || u.gotReg.name != "A" {
		t.Fatalf("request not decoded: %+v", u.gotReg)
	}
	user, err := pb.UserFromStruct(pb.NewReader(resp).Struct(pb.KeyUser))
	if err != nil || user.ID != "u1" {
		t.Fatalf("unexpected user: %+v, %v", user, err)
	}
}

func TestRegisterUser_Errors(t *testing.T) {
	s := newServer(&fakeUsers{regErr: common.ErrAlreadyExists}, nil, nil)
	_, err := s.RegisterUser(context.Background(), pb.NewBuilder().String(pb.KeyEmail, "a@b.c").Build())
	wantCode(t, err, codes.AlreadyExists)

	bad := pb.NewBuilder().String(pb.KeySalt, "%%% not base64").Build()
	_, err = s.RegisterUser(context.Background(), bad)
	wantCode(t, err, codes.InvalidArgument)
}

func TestGetSalt(t *testing.T) {
	s := newServer(&fakeUsers{saltResp: []byte{1, 2, 3}}, nil, nil)
	resp, err := s.GetSalt(context.Background(), pb.NewBuilder().String(pb.KeyEmail, "a@b.c").Build())
	if err != nil {
		t.Fatalf("GetSalt error: %v", err)
	}
	if got := pb.NewReader(resp).Bytes(pb.KeySalt); len(got) != 3 {
		t.Fatalf("salt: %v", got)
	}

	s = newServer(&fakeUsers{saltErr: common.ErrorInternal}, nil, nil)
	_, err = s.GetSalt(context.Background(), &structpb.Struct{})
	wantCode(t, err, codes.Internal)
}

func TestLogin(t *testing.T) {
	sess := &services.Session{
		TokenPair: services.TokenPair{AccessToken: "a", RefreshToken: "r"},
		User:      models.User{ID: "u1", Email: "a@b.c"},
	}
	s := newServer(&fakeUsers{loginResp: sess}, nil, nil)
	resp, err := s.Login(context.Background(), pb.NewBuilder().String(pb.KeyEmail, "a@b.c").Build())
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	r := pb.NewReader(resp)
	if r.String(pb.KeyAccessToken) != "a" || r.String(pb.KeyRefreshToken) != "r" {
		t.Fatalf("tokens: %v", resp)
	}

	s = newServer(&fakeUsers{loginErr: common.ErrorUnauthorized}, nil, nil)
	_, err = s.Login(context.Background(), &structpb.Struct{})
	wantCode(t, err, codes.Unauthenticated)
}

func TestRefreshToken(t *testing.T) {
	s := newServer(&fakeUsers{refreshResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}, nil, nil)
	resp, err := s.RefreshToken(context.Background(), pb.NewBuilder().String(pb.KeyRefreshToken, "r0").Build())
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pb.NewReader(resp).String(pb.KeyAccessToken) != "a" {
		t.Fatalf("unexpected tokens: %v", resp)
	}

	s = newServer(&fakeUsers{refreshErr: common.ErrRefreshTokenExpired}, nil, nil)
	_, err = s.RefreshToken(context.Background(), &structpb.Struct{})
	wantCode(t, err, codes.Unauthenticated)
	if status.Convert(err).Message() != common.ErrRefreshTokenExpired.Error() {
		t.Fatalf("message: %q", status.Convert(err).Message())
	}
}

func TestMe(t *testing.T) {
	u := &fakeUsers{meResp: &models.User{ID: "u1", DisplayName: "Alice"}}
	s := newServer(u, nil, nil)

	resp, err := s.Me(authed("u1"), &structpb.Struct{})
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if u.meFor != "u1" {
		t.Fatalf("actor not passed: %q", u.meFor)
	}
	user, _ := pb.UserFromStruct(pb.NewReader(resp).Struct(pb.KeyUser))
	if user.DisplayName != "Alice" {
		t.Fatalf("user: %+v", user)
	}

	_, err = s.Me(context.Background(), &structpb.Struct{})
	wantCode(t, err, codes.Unauthenticated)
}

// ---- collections ----

func TestListCollections(t *testing.T) {
	cs := &fakeCollections{items: []models.Collection{{ID: "c1", Name: "Coins"}, {ID: "c2", Name: "Stamps"}}}
	s := newServer(nil, cs, nil)

	resp, err := s.ListCollections(authed("u1"), &structpb.Struct{})
	if err != nil {
		t.Fatalf("ListCollections error: %v", err)
	}
	got, err := pb.ListFromStruct(resp, pb.CollectionFromStruct)
	if err != nil || len(got) != 2 || got[1].Name != "Stamps" {
		t.Fatalf("items: %+v, %v", got, err)
	}
	if cs.gotUser != "u1" {
		t.Fatalf("scope: %q", cs.gotUser)
	}
}

func TestCreateAndUpdateCollection(t *testing.T) {
	cs := &fakeCollections{out: &models.Collection{ID: "c1", Name: "Coins"}}
	s := newServer(nil, cs, nil)

	_, err := s.CreateCollection(authed("u1"), pb.CollectionDraftToStruct(models.CollectionDraft{Name: "Coins"}))
	if err != nil || cs.gotDraft.Name != "Coins" {
		t.Fatalf("create: %+v, %v", cs.gotDraft, err)
	}

	patch := pb.CollectionPatchToStruct(models.CollectionPatch{Description: models.Null[string]()})
	_, err = s.UpdateCollection(authed("u1"), pb.UpdateRequest("c1", patch))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cs.gotID != "c1" || !cs.gotPatch.Description.Null || cs.gotPatch.Name.Set {
		t.Fatalf("patch decoded wrong: %s %+v", cs.gotID, cs.gotPatch)
	}
}

func TestDeleteCollection_Errors(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorNotFound, codes.NotFound},
		{errors.New("db down"), codes.Internal},
	}
	for _, tc := range cases {
		s := newServer(nil, &fakeCollections{err: tc.err}, nil)
		_, err := s.DeleteCollection(authed("u1"), pb.IDRequest("c1"))
		wantCode(t, err, tc.want)
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	s := newServer(nil, &fakeCollections{err: errors.New("pq: password=hunter2")}, nil)
	_, err := s.ListCollections(authed("u1"), &structpb.Struct{})
	if status.Convert(err).Message() != common.ErrorInternal.Error() {
		t.Fatalf("internal detail leaked: %q", status.Convert(err).Message())
	}
}

// ---- collectibles ----

func TestListCollectibles_PassesScope(t *testing.T) {
	cb := &fakeCollectibles{items: []models.Collectible{{ID: "i1", Name: "Penny", Condition: models.ConditionGood}}}
	s := newServer(nil, nil, cb)

	req := pb.NewBuilder().String(pb.KeyCollectionID, "c1").Build()
	resp, err := s.ListCollectibles(authed("u1"), req)
	if err != nil {
		t.Fatalf("ListCollectibles error: %v", err)
	}
	if cb.gotCollection != "c1" {
		t.Fatalf("scope: %q", cb.gotCollection)
	}
	got, err := pb.ListFromStruct(resp, pb.CollectibleFromStruct)
	if err != nil || len(got) != 1 || got[0].Name != "Penny" {
		t.Fatalf("items: %+v, %v", got, err)
	}
}

func TestCreateCollectible_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", common.ErrValidation, codes.InvalidArgument},
		{"foreign collection", common.ErrInvalidReference, codes.FailedPrecondition},
		{"cancelled", context.Canceled, codes.Canceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newServer(nil, nil, &fakeCollectibles{err: tc.err})
			_, err := s.CreateCollectible(authed("u1"), pb.CollectibleDraftToStruct(models.CollectibleDraft{Name: "x"}))
			wantCode(t, err, tc.want)
		})
	}
}

func TestUpdateCollectible_DecodesPatch(t *testing.T) {
	cb := &fakeCollectibles{out: &models.Collectible{ID: "i1", Name: "Penny"}}
	s := newServer(nil, nil, cb)

	patch := pb.CollectiblePatchToStruct(models.CollectiblePatch{
		EstimatedValue: models.Value(0.0),
		CollectionID:   models.Null[string](),
	})
	if _, err := s.UpdateCollectible(authed("u1"), pb.UpdateRequest("i1", patch)); err != nil {
		t.Fatalf("UpdateCollectible error: %v", err)
	}
	if !cb.gotPatch.EstimatedValue.Set || cb.gotPatch.EstimatedValue.Null || cb.gotPatch.EstimatedValue.Value != 0 {
		t.Fatalf("zero value lost: %+v", cb.gotPatch.EstimatedValue)
	}
	if !cb.gotPatch.CollectionID.Null {
		t.Fatalf("collection clear lost: %+v", cb.gotPatch.CollectionID)
	}

	bad := pb.NewBuilder().String(pb.KeyID, "i1").String(pb.KeyPatch, "nope").Build()
	_, err := s.UpdateCollectible(authed("u1"), bad)
	wantCode(t, err, codes.InvalidArgument)
}

func TestDeleteCollectible(t *testing.T) {
	cb := &fakeCollectibles{}
	s := newServer(nil, nil, cb)
	if _, err := s.DeleteCollectible(authed("u1"), pb.IDRequest("i1")); err != nil {
		t.Fatalf("DeleteCollectible error: %v", err)
	}
	if cb.gotID != "i1" || cb.gotUser != "u1" {
		t.Fatalf("args: %q %q", cb.gotUser, cb.gotID)
	}
}

// ---- images ----

func TestCreateImageUpload(t *testing.T) {
	exp := time.Date(2026, 1, 1, 0, 15, 0, 0, time.UTC)
	cb := &fakeCollectibles{upload: &services.ImageUpload{Key: "users/u1/k", URL: "http://s3/put", ExpiresAt: exp}}
	s := newServer(nil, nil, cb)

	req := pb.NewBuilder().String(pb.KeyID, "i1").String(pb.KeyContentType, "image/png").Build()
	resp, err := s.CreateImageUpload(authed("u1"), req)
	if err != nil {
		t.Fatalf("CreateImageUpload error: %v", err)
	}
	r := pb.NewReader(resp)
	if r.String(pb.KeyObjectKey) != "users/u1/k" || r.String(pb.KeyURL) != "http://s3/put" || !r.Time(pb.KeyExpiresAt).Equal(exp) {
		t.Fatalf("response: %v", resp)
	}
	if cb.gotContentType != "image/png" {
		t.Fatalf("content type: %q", cb.gotContentType)
	}
}

func TestGetImageURL(t *testing.T) {
	s := newServer(nil, nil, &fakeCollectibles{url: &services.PresignedURL{URL: "https://ext/x.png"}})
	resp, err := s.GetImageURL(authed("u1"), pb.IDRequest("i1"))
	if err != nil {
		t.Fatalf("GetImageURL error: %v", err)
	}
	r := pb.NewReader(resp)
	if r.String(pb.KeyURL) != "https://ext/x.png" || r.Has(pb.KeyExpiresAt) {
		t.Fatalf("response: %v", resp)
	}

	s = newServer(nil, nil, &fakeCollectibles{err: common.ErrNoImage})
	_, err = s.GetImageURL(authed("u1"), pb.IDRequest("i1"))
	wantCode(t, err, codes.FailedPrecondition)
}
