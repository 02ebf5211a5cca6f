package rpc

import (
	"context"
	"io"

	"feedbridge/internal/model"

	"google.golang.org/grpc"
)

// Client is a typed caller for the bridge services.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, service, method string, in, out any) error {
	return c.conn.Invoke(ctx, "/"+service+"/"+method, in, out, grpc.CallContentSubtype(ContentSubtype))
}

func (c *Client) ListStocks(ctx context.Context) ([]model.Contract, error) {
	var out ContractList
	if err := c.invoke(ctx, BasicService, "ListStocks", &Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Contracts, nil
}

func (c *Client) ListFutures(ctx context.Context) ([]model.Contract, error) {
	var out ContractList
	if err := c.invoke(ctx, BasicService, "ListFutures", &Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Contracts, nil
}

func (c *Client) ListOptions(ctx context.Context) ([]model.Contract, error) {
	var out ContractList
	if err := c.invoke(ctx, BasicService, "ListOptions", &Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Contracts, nil
}

func (c *Client) HistoryKbars(ctx context.Context, req *KbarRequest) ([]model.Kbar, error) {
	var out KbarList
	if err := c.invoke(ctx, BasicService, "HistoryKbars", req, &out); err != nil {
		return nil, err
	}
	return out.Kbars, nil
}

func (c *Client) VolumeRank(ctx context.Context, req *VolumeRankRequest) ([]model.VolumeRank, error) {
	var out VolumeRankList
	if err := c.invoke(ctx, BasicService, "VolumeRank", req, &out); err != nil {
		return nil, err
	}
	return out.Ranks, nil
}

func (c *Client) Usage(ctx context.Context) (model.Usage, error) {
	var out model.Usage
	err := c.invoke(ctx, BasicService, "Usage", &Empty{}, &out)
	return out, err
}

func (c *Client) ListSubscriptions(ctx context.Context) (SubscriptionList, error) {
	var out SubscriptionList
	err := c.invoke(ctx, BasicService, "ListSubscriptions", &Empty{}, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, req *OrderRequest) (model.Trade, error) {
	var out model.Trade
	err := c.invoke(ctx, TradeService, "PlaceOrder", req, &out)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) (model.Trade, error) {
	var out model.Trade
	err := c.invoke(ctx, TradeService, "CancelOrder", &OrderIDRequest{OrderID: orderID}, &out)
	return out, err
}

func (c *Client) GetTrade(ctx context.Context, orderID string) (model.Trade, error) {
	var out model.Trade
	err := c.invoke(ctx, TradeService, "GetTrade", &OrderIDRequest{OrderID: orderID}, &out)
	return out, err
}

func (c *Client) TradeHistory(ctx context.Context, orderID string) ([]model.Trade, error) {
	var out TradeList
	if err := c.invoke(ctx, TradeService, "TradeHistory", &OrderIDRequest{OrderID: orderID}, &out); err != nil {
		return nil, err
	}
	return out.Trades, nil
}

func (c *Client) PublishTrades(ctx context.Context) error {
	return c.invoke(ctx, TradeService, "PublishTrades", &Empty{}, &Empty{})
}

func (c *Client) Margin(ctx context.Context) (model.Margin, error) {
	var out model.Margin
	err := c.invoke(ctx, TradeService, "Margin", &Empty{}, &out)
	return out, err
}

func (c *Client) FuturePositions(ctx context.Context) ([]model.FuturePosition, error) {
	var out PositionList
	if err := c.invoke(ctx, TradeService, "FuturePositions", &Empty{}, &out); err != nil {
		return nil, err
	}
	return out.Positions, nil
}

// Stream reads server-pushed messages of one type.
type Stream[T any] struct {
	stream grpc.ClientStream
}

// Recv blocks for the next message. It returns io.EOF once the server ends
// the stream cleanly.
func (s *Stream[T]) Recv() (T, error) {
	var v T
	err := s.stream.RecvMsg(&v)
	return v, err
}

func openStream[T any](ctx context.Context, conn grpc.ClientConnInterface, service, method string, in any) (*Stream[T], error) {
	desc := &grpc.StreamDesc{StreamName: method, ServerStreams: true}
	stream, err := conn.NewStream(ctx, desc, "/"+service+"/"+method, grpc.CallContentSubtype(ContentSubtype))
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &Stream[T]{stream: stream}, nil
}

func (c *Client) SubscribeEvents(ctx context.Context) (*Stream[model.FeedEvent], error) {
	return openStream[model.FeedEvent](ctx, c.conn, BasicService, "SubscribeEvents", &Empty{})
}

func (c *Client) SubscribeTick(ctx context.Context, code string) (*Stream[model.Tick], error) {
	return openStream[model.Tick](ctx, c.conn, StreamService, "SubscribeTick", &CodeRequest{Code: code})
}

func (c *Client) SubscribeBidAsk(ctx context.Context, code string) (*Stream[model.BidAsk], error) {
	return openStream[model.BidAsk](ctx, c.conn, StreamService, "SubscribeBidAsk", &CodeRequest{Code: code})
}

func (c *Client) SubscribeTrades(ctx context.Context) (*Stream[model.Trade], error) {
	return openStream[model.Trade](ctx, c.conn, TradeService, "SubscribeTrades", &Empty{})
}

// HealthStream is the client half of the health check.
type HealthStream struct {
	stream grpc.ClientStream
}

func (c *Client) Health(ctx context.Context) (*HealthStream, error) {
	desc := &grpc.StreamDesc{StreamName: "Check", ServerStreams: true, ClientStreams: true}
	stream, err := c.conn.NewStream(ctx, desc, "/"+HealthService+"/Check", grpc.CallContentSubtype(ContentSubtype))
	if err != nil {
		return nil, err
	}
	return &HealthStream{stream: stream}, nil
}

// Ping sends message and waits for its echo.
func (h *HealthStream) Ping(message string) (string, error) {
	if err := h.stream.SendMsg(&Ping{Message: message}); err != nil {
		return "", err
	}
	var pong Pong
	if err := h.stream.RecvMsg(&pong); err != nil {
		return "", err
	}
	return pong.Message, nil
}

// Close ends the health stream cleanly.
func (h *HealthStream) Close() error {
	if err := h.stream.CloseSend(); err != nil {
		return err
	}
	var pong Pong
	if err := h.stream.RecvMsg(&pong); err != io.EOF {
		return err
	}
	return nil
}
