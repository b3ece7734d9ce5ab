package handler

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/nobabdine/internal/core/domain"
	"github.com/rl1809/nobabdine/internal/core/service"
)

const (
	orderServiceName = "nobabdine.v1.OrderService"
	placeOrderMethod = "/" + orderServiceName + "/PlaceOrder"
	listOrdersMethod = "/" + orderServiceName + "/ListOrders"
	tokenMetadataKey = tokenCookieName
)

// OrderServiceServer is the gRPC face of the order workflow. Messages are
// google.protobuf.Struct values carrying the same JSON fields as the HTTP API.
type OrderServiceServer interface {
	PlaceOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOrders(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var orderServiceDesc = grpc.ServiceDesc{
	ServiceName: orderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PlaceOrder", Handler: placeOrderHandler},
		{MethodName: "ListOrders", Handler: listOrdersHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nobabdine/v1/order.proto",
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&orderServiceDesc, srv)
}

func placeOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).PlaceOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: placeOrderMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrderServiceServer).PlaceOrder(ctx, req.(*structpb.Struct))
	})
}

func listOrdersHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).ListOrders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listOrdersMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrderServiceServer).ListOrders(ctx, req.(*structpb.Struct))
	})
}

type GRPCHandler struct {
	orderService *service.OrderService
	verifier     TokenVerifier
}

type placeOrderRequest struct {
	domain.Order
	IdempotencyKey string `json:"idempotencyKey"`
}

type listOrdersRequest struct {
	Email string `json:"email"`
}

func NewGRPCHandler(orderService *service.OrderService, verifier TokenVerifier) *GRPCHandler {
	return &GRPCHandler{orderService: orderService, verifier: verifier}
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in placeOrderRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	result, err := h.orderService.PlaceOrder(ctx, in.Order, in.IdempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrder) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		if errors.Is(err, domain.ErrDuplicateRequest) {
			return nil, status.Error(codes.AlreadyExists, "duplicate request")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return toStruct(result)
}

func (h *GRPCHandler) ListOrders(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listOrdersRequest
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	md, _ := metadata.FromIncomingContext(ctx)
	tokens := md.Get(tokenMetadataKey)
	if len(tokens) == 0 {
		return nil, status.Error(codes.Unauthenticated, domain.ErrUnauthorized.Error())
	}
	claims, err := h.verifier.Verify(tokens[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, domain.ErrUnauthorized.Error())
	}
	if err := service.AuthorizeEmail(claims, in.Email); err != nil {
		return nil, status.Error(codes.PermissionDenied, err.Error())
	}

	orders, err := h.orderService.ListOrders(ctx, in.Email)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return toStruct(map[string]any{"orders": orders})
}

func fromStruct(in *structpb.Struct, dst any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
