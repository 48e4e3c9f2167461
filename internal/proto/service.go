package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "pagebuilder.PageService"

const (
	PageService_List_FullMethodName         = "/pagebuilder.PageService/List"
	PageService_Get_FullMethodName          = "/pagebuilder.PageService/Get"
	PageService_Create_FullMethodName       = "/pagebuilder.PageService/Create"
	PageService_Update_FullMethodName       = "/pagebuilder.PageService/Update"
	PageService_Delete_FullMethodName       = "/pagebuilder.PageService/Delete"
	PageService_SetPublished_FullMethodName = "/pagebuilder.PageService/SetPublished"
)

// PageServiceClient is the client API for PageService.
type PageServiceClient interface {
	List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Delete(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetPublished(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type pageServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPageServiceClient(cc grpc.ClientConnInterface) PageServiceClient {
	return &pageServiceClient{cc}
}

func (c *pageServiceClient) List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, PageService_List_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pageServiceClient) Get(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PageService_Get_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pageServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PageService_Create_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pageServiceClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PageService_Update_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pageServiceClient) Delete(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, PageService_Delete_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pageServiceClient) SetPublished(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PageService_SetPublished_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PageServiceServer is the server API for PageService. Implementations
// must embed UnimplementedPageServiceServer.
type PageServiceServer interface {
	List(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Get(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Create(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	SetPublished(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedPageServiceServer()
}

type UnimplementedPageServiceServer struct{}

func (UnimplementedPageServiceServer) List(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedPageServiceServer) Get(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedPageServiceServer) Create(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedPageServiceServer) Update(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedPageServiceServer) Delete(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedPageServiceServer) SetPublished(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPublished not implemented")
}
func (UnimplementedPageServiceServer) mustEmbedUnimplementedPageServiceServer() {}

func RegisterPageServiceServer(s grpc.ServiceRegistrar, srv PageServiceServer) {
	s.RegisterService(&PageService_ServiceDesc, srv)
}

func _PageService_List_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_List_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).List(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _PageService_Get_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_Get_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).Get(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _PageService_Create_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).Create(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_Create_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).Create(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _PageService_Update_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).Update(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_Update_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).Update(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _PageService_Delete_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_Delete_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).Delete(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _PageService_SetPublished_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageServiceServer).SetPublished(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PageService_SetPublished_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PageServiceServer).SetPublished(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PageService_ServiceDesc is the grpc.ServiceDesc for PageService.
var PageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "List", Handler: _PageService_List_Handler},
		{MethodName: "Get", Handler: _PageService_Get_Handler},
		{MethodName: "Create", Handler: _PageService_Create_Handler},
		{MethodName: "Update", Handler: _PageService_Update_Handler},
		{MethodName: "Delete", Handler: _PageService_Delete_Handler},
		{MethodName: "SetPublished", Handler: _PageService_SetPublished_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pagebuilder/page_service.proto",
}
