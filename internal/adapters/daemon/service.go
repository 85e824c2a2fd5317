package daemon

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The service is described by hand: every message is a well-known protobuf
// type, so there is no generated code to keep in sync.
const (
	serviceName    = "carve.worker.v1.WorkerDaemon"
	methodPing     = "/" + serviceName + "/Ping"
	methodStatus   = "/" + serviceName + "/Status"
	methodShutdown = "/" + serviceName + "/Shutdown"
	methodSession  = "/" + serviceName + "/Session"
)

// workerDaemonServer is the server-side contract of the daemon service.
// Ping and Status answer with a Struct; Session carries protocol envelopes.
type workerDaemonServer interface {
	Ping(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Status(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	Shutdown(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error)
	Session(stream grpc.ServerStream) error
}

var sessionStreamDesc = grpc.StreamDesc{
	StreamName:    "Session",
	ServerStreams: true,
	ClientStreams: true,
	Handler: func(srv any, stream grpc.ServerStream) error {
		return srv.(workerDaemonServer).Session(stream)
	},
}

func unaryHandler(
	method string,
	call func(srv workerDaemonServer, ctx context.Context, req *emptypb.Empty) (any, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := new(emptypb.Empty)
		if err := dec(req); err != nil {
			return nil, err
		}
		impl := srv.(workerDaemonServer)
		if interceptor == nil {
			return call(impl, ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			return call(impl, ctx, req.(*emptypb.Empty))
		})
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*workerDaemonServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler: unaryHandler(methodPing, func(s workerDaemonServer, ctx context.Context, r *emptypb.Empty) (any, error) {
				return s.Ping(ctx, r)
			}),
		},
		{
			MethodName: "Status",
			Handler: unaryHandler(methodStatus, func(s workerDaemonServer, ctx context.Context, r *emptypb.Empty) (any, error) {
				return s.Status(ctx, r)
			}),
		},
		{
			MethodName: "Shutdown",
			Handler: unaryHandler(methodShutdown, func(s workerDaemonServer, ctx context.Context, r *emptypb.Empty) (any, error) {
				return s.Shutdown(ctx, r)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{sessionStreamDesc},
	Metadata: "carve/worker/v1/daemon.proto",
}

// registerWorkerDaemonServer registers srv on r.
func registerWorkerDaemonServer(r grpc.ServiceRegistrar, srv workerDaemonServer) {
	r.RegisterService(&serviceDesc, srv)
}
