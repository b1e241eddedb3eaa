package gateway

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/habesha-match/internal/bot"
	svcErr "github.com/oggyb/habesha-match/internal/errors"
)

const (
	ServiceName    = "habesha.v1.Gateway"
	DispatchMethod = "/" + ServiceName + "/Dispatch"
)

// GatewayServer is the server API of the gateway service.
type GatewayServer interface {
	Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGatewayServer attaches srv to s.
func RegisterGatewayServer(s grpc.ServiceRegistrar, srv GatewayServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GatewayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "habesha/v1/gateway.proto",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GatewayServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GatewayServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the gateway with typed values.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dispatch sends one event and decodes the replies.
func (c *Client) Dispatch(ctx context.Context, up bot.Update, opts ...grpc.CallOption) (Response, error) {
	var resp Response
	raw, err := json.Marshal(up)
	if err != nil {
		return resp, err
	}
	in := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, in); err != nil {
		return resp, svcErr.InvalidArgument("update does not encode as a struct")
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DispatchMethod, in, out, opts...); err != nil {
		return resp, err
	}
	raw, err = protojson.Marshal(out)
	if err != nil {
		return resp, err
	}
	err = json.Unmarshal(raw, &resp)
	return resp, err
}
