package catalogv1

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "catalog.v1.CatalogService"
	// DispatchMethod is the full method name of the single unary RPC.
	DispatchMethod = "/" + ServiceName + "/Dispatch"
	// CodecName is the gRPC content-subtype envelopes are encoded with.
	CodecName = "json"
)

// Error detail published with every failed RPC so clients can tell catalog
// failures from transport failures.
const (
	ErrorDomain       = "catalog.v1"
	ReasonValidation  = "VALIDATION"
	ReasonNotFound    = "NOT_FOUND"
	ReasonConflict    = "CONFLICT"
	ReasonUnavailable = "SERVICE_UNAVAILABLE"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec encodes gRPC messages as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

// CatalogServiceServer is the server API for the catalog service.
type CatalogServiceServer interface {
	Dispatch(ctx context.Context, in *Envelope) (*Envelope, error)
}

// RegisterCatalogServiceServer registers srv with the gRPC server.
func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Envelope)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DispatchMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CatalogServiceServer).Dispatch(ctx, req.(*Envelope))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogServiceDesc describes the catalog service for grpc.Server.
var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Dispatch",
			Handler:    dispatchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1",
}

// CatalogServiceClient is the client API for the catalog service.
type CatalogServiceClient interface {
	Dispatch(ctx context.Context, in *Envelope, opts ...grpc.CallOption) (*Envelope, error)
}

type catalogServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCatalogServiceClient creates a client that sends envelopes over cc.
func NewCatalogServiceClient(cc grpc.ClientConnInterface) CatalogServiceClient {
	return &catalogServiceClient{cc: cc}
}

func (c *catalogServiceClient) Dispatch(ctx context.Context, in *Envelope, opts ...grpc.CallOption) (*Envelope, error) {
	out := new(Envelope)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, DispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
