package rpc

import (
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"feedbridge/internal/model"
	"feedbridge/pkg/exception"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

const (
	BasicService  = "feedbridge.v1.Basic"
	StreamService = "feedbridge.v1.Stream"
	TradeService  = "feedbridge.v1.Trade"
	HealthService = "feedbridge.v1.Health"
)

// bridgeServer is the handler type every descriptor is registered with.
type bridgeServer interface {
	service() *Service
	healthLost()
}

// Server binds a Service to gRPC.
type Server struct {
	svc          *Service
	port         int
	onHealthLost func()
}

// NewServer returns a gRPC server for svc. onHealthLost is called when a
// health stream breaks with anything other than a clean close.
func NewServer(svc *Service, port int, onHealthLost func()) *Server {
	return &Server{
		svc:          svc,
		port:         port,
		onHealthLost: onHealthLost,
	}
}

func (s *Server) service() *Service {
	return s.svc
}

func (s *Server) healthLost() {
	if s.onHealthLost != nil {
		s.onHealthLost()
	}
}

// Register attaches every bridge service to r.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	r.RegisterService(&basicDesc, s)
	r.RegisterService(&streamDesc, s)
	r.RegisterService(&tradeDesc, s)
	r.RegisterService(&healthDesc, s)
}

// NewGRPCServer builds a grpc.Server with every bridge service registered.
func (s *Server) NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	}, opts...)

	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs
}

// Run listens on the configured port until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return errors.Wrapf(err, "listen grpc port %d", s.port)
	}

	gs := s.NewGRPCServer()
	errCh := make(chan error, 1)
	go func() {
		logs.Infof("grpc server listening on %s", lis.Addr())
		errCh <- gs.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "serve grpc")
		}
		return nil
	case <-ctx.Done():
	}

	stopped := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		logs.Warnf("grpc graceful stop timeout, force stop")
		gs.Stop()
	}

	logs.Info("grpc server stopped")
	return nil
}

func unary[Req, Resp any](serviceName, method string, call func(svc *Service, ctx context.Context, req *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + serviceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, status.Error(codes.InvalidArgument, string(exception.CodeInvalidArgument)+": "+err.Error())
			}

			svc := srv.(bridgeServer).service()
			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(svc, ctx, req.(*Req))
				if err != nil {
					return nil, toStatus(err)
				}
				return resp, nil
			}

			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func serverStream[Req, Resp any](method string, call func(svc *Service, ctx context.Context, req *Req, send func(Resp) error) error) grpc.StreamDesc {
	return grpc.StreamDesc{
		StreamName:    method,
		ServerStreams: true,
		Handler: func(srv any, stream grpc.ServerStream) error {
			in := new(Req)
			if err := stream.RecvMsg(in); err != nil {
				return status.Error(codes.InvalidArgument, string(exception.CodeInvalidArgument)+": "+err.Error())
			}

			id := uuid.NewString()
			logs.Infof("stream %s open: %s", id, method)
			defer logs.Infof("stream %s closed: %s", id, method)

			send := func(v Resp) error {
				return stream.SendMsg(&v)
			}

			err := call(srv.(bridgeServer).service(), stream.Context(), in, send)
			if err != nil && stream.Context().Err() != nil {
				return nil
			}
			return toStatus(err)
		},
	}
}

var basicDesc = grpc.ServiceDesc{
	ServiceName: BasicService,
	HandlerType: (*bridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BasicService, "ListStocks", func(svc *Service, _ context.Context, _ *Empty) (*ContractList, error) {
			contracts, err := svc.ListStocks()
			return &ContractList{Contracts: contracts}, err
		}),
		unary(BasicService, "ListFutures", func(svc *Service, _ context.Context, _ *Empty) (*ContractList, error) {
			contracts, err := svc.ListFutures()
			return &ContractList{Contracts: contracts}, err
		}),
		unary(BasicService, "ListOptions", func(svc *Service, _ context.Context, _ *Empty) (*ContractList, error) {
			contracts, err := svc.ListOptions()
			return &ContractList{Contracts: contracts}, err
		}),
		unary(BasicService, "HistoryKbars", func(svc *Service, _ context.Context, req *KbarRequest) (*KbarList, error) {
			kbars, err := svc.HistoryKbars(req.Code, req.Start, req.End)
			return &KbarList{Kbars: kbars}, err
		}),
		unary(BasicService, "VolumeRank", func(svc *Service, _ context.Context, req *VolumeRankRequest) (*VolumeRankList, error) {
			ranks, err := svc.VolumeRank(int(req.Count), req.Date)
			return &VolumeRankList{Ranks: ranks}, err
		}),
		unary(BasicService, "Usage", func(svc *Service, _ context.Context, _ *Empty) (*model.Usage, error) {
			u, err := svc.Usage()
			return &u, err
		}),
		unary(BasicService, "ListSubscriptions", func(svc *Service, _ context.Context, _ *Empty) (*SubscriptionList, error) {
			list, err := svc.Subscriptions()
			return &list, err
		}),
	},
	Streams: []grpc.StreamDesc{
		serverStream("SubscribeEvents", func(svc *Service, ctx context.Context, _ *Empty, send func(model.FeedEvent) error) error {
			return svc.SubscribeEvents(ctx, send)
		}),
	},
}

var streamDesc = grpc.ServiceDesc{
	ServiceName: StreamService,
	HandlerType: (*bridgeServer)(nil),
	Streams: []grpc.StreamDesc{
		serverStream("SubscribeTick", func(svc *Service, ctx context.Context, req *CodeRequest, send func(model.Tick) error) error {
			return svc.SubscribeTick(ctx, req.Code, send)
		}),
		serverStream("SubscribeBidAsk", func(svc *Service, ctx context.Context, req *CodeRequest, send func(model.BidAsk) error) error {
			return svc.SubscribeBidAsk(ctx, req.Code, send)
		}),
	},
}

var tradeDesc = grpc.ServiceDesc{
	ServiceName: TradeService,
	HandlerType: (*bridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TradeService, "PlaceOrder", func(svc *Service, _ context.Context, req *OrderRequest) (*model.Trade, error) {
			t, err := svc.PlaceOrder(req.Code, req.Action, req.Price, req.Quantity)
			return &t, err
		}),
		unary(TradeService, "CancelOrder", func(svc *Service, _ context.Context, req *OrderIDRequest) (*model.Trade, error) {
			t, err := svc.CancelOrder(req.OrderID)
			return &t, err
		}),
		unary(TradeService, "GetTrade", func(svc *Service, _ context.Context, req *OrderIDRequest) (*model.Trade, error) {
			t, err := svc.GetTrade(req.OrderID)
			return &t, err
		}),
		unary(TradeService, "TradeHistory", func(svc *Service, _ context.Context, req *OrderIDRequest) (*TradeList, error) {
			trades, err := svc.TradeHistory(req.OrderID)
			return &TradeList{Trades: trades}, err
		}),
		unary(TradeService, "PublishTrades", func(svc *Service, _ context.Context, _ *Empty) (*Empty, error) {
			return &Empty{}, svc.PublishTrades()
		}),
		unary(TradeService, "Margin", func(svc *Service, _ context.Context, _ *Empty) (*model.Margin, error) {
			m, err := svc.Margin()
			return &m, err
		}),
		unary(TradeService, "FuturePositions", func(svc *Service, _ context.Context, _ *Empty) (*PositionList, error) {
			positions, err := svc.FuturePositions()
			return &PositionList{Positions: positions}, err
		}),
	},
	Streams: []grpc.StreamDesc{
		serverStream("SubscribeTrades", func(svc *Service, ctx context.Context, _ *Empty, send func(model.Trade) error) error {
			return svc.SubscribeTrades(ctx, send)
		}),
	},
}

var healthDesc = grpc.ServiceDesc{
	ServiceName: HealthService,
	HandlerType: (*bridgeServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Check",
			ServerStreams: true,
			ClientStreams: true,
			Handler:       healthCheck,
		},
	},
}

// healthCheck echoes every ping. A broken stream stops the bridge, a clean
// close from the client does not.
func healthCheck(srv any, stream grpc.ServerStream) error {
	id := uuid.NewString()
	logs.Infof("health stream %s open", id)

	for {
		var ping Ping
		if err := stream.RecvMsg(&ping); err != nil {
			if err == io.EOF {
				logs.Infof("health stream %s closed", id)
				return nil
			}
			logs.Errorf("health stream %s lost, err: %+v", id, err)
			srv.(bridgeServer).healthLost()
			return err
		}

		if err := stream.SendMsg(&Pong{Message: ping.Message}); err != nil {
			logs.Errorf("health stream %s send, err: %+v", id, err)
			srv.(bridgeServer).healthLost()
			return err
		}
	}
}
