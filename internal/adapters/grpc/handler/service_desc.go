package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmployeeServiceName は gRPC サービスの完全修飾名です。
const EmployeeServiceName = "hr.v1.EmployeeService"

const (
	methodCreateInternalEmployee  = "CreateInternalEmployee"
	methodFetchInternalEmployee   = "FetchInternalEmployee"
	methodGiveRaise               = "GiveRaise"
	methodAttendCourse            = "AttendCourse"
	methodNotifyOfAbsence         = "NotifyOfAbsence"
	methodPromoteInternalEmployee = "PromoteInternalEmployee"
)

// EmployeeServiceServer は hr.v1.EmployeeService のサーバー API です。
// リクエストとレスポンスは google.protobuf.Struct で表現します。
type EmployeeServiceServer interface {
	CreateInternalEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FetchInternalEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GiveRaise(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AttendCourse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NotifyOfAbsence(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PromoteInternalEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(EmployeeServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + EmployeeServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EmployeeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(EmployeeServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// EmployeeServiceDesc は hr.v1.EmployeeService のサービス記述子です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(methodCreateInternalEmployee, EmployeeServiceServer.CreateInternalEmployee),
		unaryMethod(methodFetchInternalEmployee, EmployeeServiceServer.FetchInternalEmployee),
		unaryMethod(methodGiveRaise, EmployeeServiceServer.GiveRaise),
		unaryMethod(methodAttendCourse, EmployeeServiceServer.AttendCourse),
		unaryMethod(methodNotifyOfAbsence, EmployeeServiceServer.NotifyOfAbsence),
		unaryMethod(methodPromoteInternalEmployee, EmployeeServiceServer.PromoteInternalEmployee),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/employee.proto",
}

// RegisterEmployeeServiceServer は srv を gRPC サーバーへ登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// EmployeeServiceClient は hr.v1.EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

// Call は指定メソッドを呼び出します。
func (c *EmployeeServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+EmployeeServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
