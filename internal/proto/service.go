package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "gophcollect.v1.CollectorService"

const (
	CollectorService_Ping_FullMethodName              = "/gophcollect.v1.CollectorService/Ping"
	CollectorService_RegisterUser_FullMethodName      = "/gophcollect.v1.CollectorService/RegisterUser"
	CollectorService_GetSalt_FullMethodName           = "/gophcollect.v1.CollectorService/GetSalt"
	CollectorService_Login_FullMethodName             = "/gophcollect.v1.CollectorService/Login"
	CollectorService_RefreshToken_FullMethodName      = "/gophcollect.v1.CollectorService/RefreshToken"
	CollectorService_Me_FullMethodName                = "/gophcollect.v1.CollectorService/Me"
	CollectorService_ListCollections_FullMethodName   = "/gophcollect.v1.CollectorService/ListCollections"
	CollectorService_CreateCollection_FullMethodName  = "/gophcollect.v1.CollectorService/CreateCollection"
	CollectorService_UpdateCollection_FullMethodName  = "/gophcollect.v1.CollectorService/UpdateCollection"
	CollectorService_DeleteCollection_FullMethodName  = "/gophcollect.v1.CollectorService/DeleteCollection"
	CollectorService_ListCollectibles_FullMethodName  = "/gophcollect.v1.CollectorService/ListCollectibles"
	CollectorService_CreateCollectible_FullMethodName = "/gophcollect.v1.CollectorService/CreateCollectible"
	CollectorService_UpdateCollectible_FullMethodName = "/gophcollect.v1.CollectorService/UpdateCollectible"
	CollectorService_DeleteCollectible_FullMethodName = "/gophcollect.v1.CollectorService/DeleteCollectible"
	CollectorService_CreateImageUpload_FullMethodName = "/gophcollect.v1.CollectorService/CreateImageUpload"
	CollectorService_GetImageURL_FullMethodName       = "/gophcollect.v1.CollectorService/GetImageURL"
)

// publicMethods can be called without an access token.
var publicMethods = map[string]struct{}{
	CollectorService_Ping_FullMethodName:         {},
	CollectorService_RegisterUser_FullMethodName: {},
	CollectorService_GetSalt_FullMethodName:      {},
	CollectorService_Login_FullMethodName:        {},
	CollectorService_RefreshToken_FullMethodName: {},
}

// RequiresAuth reports whether fullMethod needs the access_token metadata
// entry. Methods outside this service are left alone.
func RequiresAuth(fullMethod string) bool {
	if len(fullMethod) < len(ServiceName)+2 || fullMethod[1:len(ServiceName)+1] != ServiceName {
		return false
	}
	_, public := publicMethods[fullMethod]
	return !public
}

// CollectorServiceClient is the client API for CollectorService.
type CollectorServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSalt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCollections(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCollectibles(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateImageUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetImageURL(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type collectorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCollectorServiceClient(cc grpc.ClientConnInterface) CollectorServiceClient {
	return &collectorServiceClient{cc}
}

func (c *collectorServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collectorServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_Ping_FullMethodName, in, opts)
}

func (c *collectorServiceClient) RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_RegisterUser_FullMethodName, in, opts)
}

func (c *collectorServiceClient) GetSalt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_GetSalt_FullMethodName, in, opts)
}

func (c *collectorServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_Login_FullMethodName, in, opts)
}

func (c *collectorServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_RefreshToken_FullMethodName, in, opts)
}

func (c *collectorServiceClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_Me_FullMethodName, in, opts)
}

func (c *collectorServiceClient) ListCollections(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_ListCollections_FullMethodName, in, opts)
}

func (c *collectorServiceClient) CreateCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_CreateCollection_FullMethodName, in, opts)
}

func (c *collectorServiceClient) UpdateCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_UpdateCollection_FullMethodName, in, opts)
}

func (c *collectorServiceClient) DeleteCollection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_DeleteCollection_FullMethodName, in, opts)
}

func (c *collectorServiceClient) ListCollectibles(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_ListCollectibles_FullMethodName, in, opts)
}

func (c *collectorServiceClient) CreateCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_CreateCollectible_FullMethodName, in, opts)
}

func (c *collectorServiceClient) UpdateCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_UpdateCollectible_FullMethodName, in, opts)
}

func (c *collectorServiceClient) DeleteCollectible(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_DeleteCollectible_FullMethodName, in, opts)
}

func (c *collectorServiceClient) CreateImageUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_CreateImageUpload_FullMethodName, in, opts)
}

func (c *collectorServiceClient) GetImageURL(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CollectorService_GetImageURL_FullMethodName, in, opts)
}

// CollectorServiceServer is the server API for CollectorService.
type CollectorServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSalt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCollections(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateCollection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCollection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCollection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCollectibles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateImageUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetImageURL(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedCollectorServiceServer can be embedded to keep a server
// compiling as methods are added.
type UnimplementedCollectorServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedCollectorServiceServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedCollectorServiceServer) RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RegisterUser")
}
func (UnimplementedCollectorServiceServer) GetSalt(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetSalt")
}
func (UnimplementedCollectorServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedCollectorServiceServer) RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedCollectorServiceServer) Me(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Me")
}
func (UnimplementedCollectorServiceServer) ListCollections(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListCollections")
}
func (UnimplementedCollectorServiceServer) CreateCollection(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreateCollection")
}
func (UnimplementedCollectorServiceServer) UpdateCollection(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("UpdateCollection")
}
func (UnimplementedCollectorServiceServer) DeleteCollection(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DeleteCollection")
}
func (UnimplementedCollectorServiceServer) ListCollectibles(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListCollectibles")
}
func (UnimplementedCollectorServiceServer) CreateCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreateCollectible")
}
func (UnimplementedCollectorServiceServer) UpdateCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("UpdateCollectible")
}
func (UnimplementedCollectorServiceServer) DeleteCollectible(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("DeleteCollectible")
}
func (UnimplementedCollectorServiceServer) CreateImageUpload(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("CreateImageUpload")
}
func (UnimplementedCollectorServiceServer) GetImageURL(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetImageURL")
}

func RegisterCollectorServiceServer(s grpc.ServiceRegistrar, srv CollectorServiceServer) {
	s.RegisterService(&CollectorService_ServiceDesc, srv)
}

type unaryCall func(CollectorServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CollectorServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CollectorServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CollectorService_ServiceDesc is the grpc.ServiceDesc for CollectorService.
var CollectorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollectorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(CollectorService_Ping_FullMethodName, CollectorServiceServer.Ping)},
		{MethodName: "RegisterUser", Handler: unaryHandler(CollectorService_RegisterUser_FullMethodName, CollectorServiceServer.RegisterUser)},
		{MethodName: "GetSalt", Handler: unaryHandler(CollectorService_GetSalt_FullMethodName, CollectorServiceServer.GetSalt)},
		{MethodName: "Login", Handler: unaryHandler(CollectorService_Login_FullMethodName, CollectorServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(CollectorService_RefreshToken_FullMethodName, CollectorServiceServer.RefreshToken)},
		{MethodName: "Me", Handler: unaryHandler(CollectorService_Me_FullMethodName, CollectorServiceServer.Me)},
		{MethodName: "ListCollections", Handler: unaryHandler(CollectorService_ListCollections_FullMethodName, CollectorServiceServer.ListCollections)},
		{MethodName: "CreateCollection", Handler: unaryHandler(CollectorService_CreateCollection_FullMethodName, CollectorServiceServer.CreateCollection)},
		{MethodName: "UpdateCollection", Handler: unaryHandler(CollectorService_UpdateCollection_FullMethodName, CollectorServiceServer.UpdateCollection)},
		{MethodName: "DeleteCollection", Handler: unaryHandler(CollectorService_DeleteCollection_FullMethodName, CollectorServiceServer.DeleteCollection)},
		{MethodName: "ListCollectibles", Handler: unaryHandler(CollectorService_ListCollectibles_FullMethodName, CollectorServiceServer.ListCollectibles)},
		{MethodName: "CreateCollectible", Handler: unaryHandler(CollectorService_CreateCollectible_FullMethodName, CollectorServiceServer.CreateCollectible)},
		{MethodName: "UpdateCollectible", Handler: unaryHandler(CollectorService_UpdateCollectible_FullMethodName, CollectorServiceServer.UpdateCollectible)},
		{MethodName: "DeleteCollectible", Handler: unaryHandler(CollectorService_DeleteCollectible_FullMethodName, CollectorServiceServer.DeleteCollectible)},
		{MethodName: "CreateImageUpload", Handler: unaryHandler(CollectorService_CreateImageUpload_FullMethodName, CollectorServiceServer.CreateImageUpload)},
		{MethodName: "GetImageURL", Handler: unaryHandler(CollectorService_GetImageURL_FullMethodName, CollectorServiceServer.GetImageURL)},
	},
	Streams: []grpc.StreamDesc{},
}
