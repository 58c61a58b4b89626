package grpcx

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/georgemunganga/printa-accounts/internal/modules/account"
)

const (
	serviceName          = "users.UserService"
	methodCreateUser     = "/" + serviceName + "/CreateUser"
	methodCreateBusiness = "/" + serviceName + "/CreateBusiness"
)

// UserServiceServer is the server API of users.UserService.
type UserServiceServer interface {
	CreateUser(ctx context.Context, in *UserData) (*UserResponseData, error)
	CreateBusiness(ctx context.Context, in *BusinessData) (*BusinessResponseData, error)
}

// Server adapts the account service to users.UserService.
type Server struct {
	svc account.Service
}

func NewServer(svc account.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateUser(ctx context.Context, in *UserData) (*UserResponseData, error) {
	res, err := s.svc.CreateUser(ctx, account.RegistrationRequest{
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		ImageURL: in.ImageURL,
		Password: in.Password,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &UserResponseData{
		Email:    res.Email,
		Phone:    res.Phone,
		Address:  res.Address,
		ImageURL: res.ImageURL,
		Roles:    res.Roles,
		UserID:   res.UserID,
	}, nil
}

func (s *Server) CreateBusiness(ctx context.Context, in *BusinessData) (*BusinessResponseData, error) {
	res, err := s.svc.CreateBusiness(ctx, account.RegistrationRequest{
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		ImageURL: in.ImageURL,
		Password: in.Password,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &BusinessResponseData{
		Email:      res.Email,
		Phone:      res.Phone,
		Address:    res.Address,
		ImageURL:   res.ImageURL,
		UserID:     res.UserID,
		BusinessID: res.BusinessID,
		Roles:      res.Roles,
	}, nil
}

func toStatus(err error) error {
	switch account.KindOf(err) {
	case account.KindInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case account.KindDuplicateAccount:
		return status.Error(codes.AlreadyExists, err.Error())
	case account.KindStorageUnavailable:
		return status.Error(codes.Unavailable, account.ErrStorageUnavailable.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// NewGRPCServer returns a gRPC server speaking the users service wire format.
func NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	return grpc.NewServer(append([]grpc.ServerOption{grpc.ForceServerCodec(Codec{})}, opts...)...)
}

// RegisterUserServiceServer registers srv under users.UserService.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateUser", Handler: createUserHandler},
		{MethodName: "CreateBusiness", Handler: createBusinessHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "users.proto",
}

func createUserHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UserData)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).CreateUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCreateUser}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserServiceServer).CreateUser(ctx, req.(*UserData))
	}
	return interceptor(ctx, in, info, handler)
}

func createBusinessHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(BusinessData)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UserServiceServer).CreateBusiness(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodCreateBusiness}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UserServiceServer).CreateBusiness(ctx, req.(*BusinessData))
	}
	return interceptor(ctx, in, info, handler)
}

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("gRPC call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return resp, err
	}
}

// Client calls users.UserService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) CreateUser(ctx context.Context, in *UserData, opts ...grpc.CallOption) (*UserResponseData, error) {
	out := new(UserResponseData)
	if err := c.cc.Invoke(ctx, methodCreateUser, in, out, append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBusiness(ctx context.Context, in *BusinessData, opts ...grpc.CallOption) (*BusinessResponseData, error) {
	out := new(BusinessResponseData)
	if err := c.cc.Invoke(ctx, methodCreateBusiness, in, out, append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
